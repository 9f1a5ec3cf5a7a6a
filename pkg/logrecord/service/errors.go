package service

import (
	"errors"
	"fmt"
)

// MaxPayloadBytes is the default ceiling on a record's serialized size.
const MaxPayloadBytes = 20480

var (
	// ErrPayloadTooLarge means the candidate's serialized form exceeds the
	// payload ceiling. Fatal for this attempt; retrying the same payload
	// cannot succeed.
	ErrPayloadTooLarge = errors.New("log record exceeds maximum serialized size")

	// ErrDuplicateOrNoise means the candidate matched an existing record's
	// signature or was classified as uninteresting HTTP noise. Expected and
	// frequent; callers should silently drop the candidate.
	ErrDuplicateOrNoise = errors.New("log record is a duplicate or noise")

	// ErrNoDedupClauses is raised when no duplicate clauses could be derived
	// at all. It wraps ErrDuplicateOrNoise so callers see the same condition
	// class and cannot (and need not) distinguish the two.
	ErrNoDedupClauses = fmt.Errorf("%w: no dedup clauses could be derived", ErrDuplicateOrNoise)
)
