package cache

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto"
)

// SignatureCache remembers duplicate signatures this process recently
// admitted, so hot duplicates can be dropped without a storage round-trip.
// It is strictly a fast path: a miss changes nothing, and entries expire
// with the signature's dedup window.
type SignatureCache interface {
	Seen(signature []byte) bool
	MarkAdmitted(signature []byte, window time.Duration)
}

type SignatureCacheImpl struct {
	cache *ristretto.Cache
}

func NewSignatureCacheImpl(cache *ristretto.Cache) *SignatureCacheImpl {
	return &SignatureCacheImpl{cache: cache}
}

func (sc *SignatureCacheImpl) Seen(signature []byte) bool {
	_, found := sc.cache.Get(xxhash.Sum64(signature))
	return found
}

func (sc *SignatureCacheImpl) MarkAdmitted(signature []byte, window time.Duration) {
	sc.cache.SetWithTTL(xxhash.Sum64(signature), struct{}{}, 1, window)
}
