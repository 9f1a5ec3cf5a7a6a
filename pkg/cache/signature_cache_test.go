package cache

import (
	"testing"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/stretchr/testify/assert"
)

func TestSignatureCacheImpl(t *testing.T) {
	rc := newRistrettoCache(t)
	sc := NewSignatureCacheImpl(rc)

	t.Run("Unknown signatures are not seen", func(t *testing.T) {
		assert.False(t, sc.Seen([]byte(`{"query":{"term":{"message":"x"}}}`)))
	})

	t.Run("Admitted signatures are seen until the window expires", func(t *testing.T) {
		signature := []byte(`{"query":{"term":{"message":"relay refused"}}}`)
		sc.MarkAdmitted(signature, time.Hour)
		rc.Wait()
		assert.True(t, sc.Seen(signature))
	})

	t.Run("Different signatures do not collide", func(t *testing.T) {
		sc.MarkAdmitted([]byte("signature-a"), time.Hour)
		rc.Wait()
		assert.False(t, sc.Seen([]byte("signature-b")))
	})
}

func newRistrettoCache(t *testing.T) *ristretto.Cache {
	rc, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100,
		MaxCost:     1 << 10,
		BufferItems: 64,
	})
	assert.NoError(t, err)
	return rc
}
