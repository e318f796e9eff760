package models

import (
	"github.com/google/uuid"

	"github.com/tessera-app/tessera/internal/apperr"
)

// PairID derives the deterministic, order-independent identity for any
// two-party entity (Match, Conversation): the lexicographically smaller
// UUID string, an underscore, the larger one.
//
// Why derive instead of generating a fresh UUID?
//   - PairID(a,b) == PairID(b,a), so both sides of a concurrent mutual
//     like compute the same key and the database's primary key constraint
//     becomes the de-duplication mechanism. At most one Match and one
//     Conversation can ever exist per user pair.
//   - Either entity can be reconstructed from the pair alone — no foreign
//     key between Match and Conversation is needed.
//
// The comparison is byte-wise on the canonical UUID string form
// (strings.Compare semantics), so it is stable across processes and
// locales.
func PairID(a, b uuid.UUID) (string, error) {
	if a == uuid.Nil || b == uuid.Nil {
		return "", apperr.InvalidArg("user id cannot be nil")
	}
	if a == b {
		return "", apperr.ErrSelfReference
	}

	as, bs := a.String(), b.String()
	if as < bs {
		return as + "_" + bs, nil
	}
	return bs + "_" + as, nil
}

// SortPair returns the two UUIDs in canonical (low, high) order.
// Same rejection rules as PairID.
func SortPair(a, b uuid.UUID) (low, high uuid.UUID, err error) {
	if _, err := PairID(a, b); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if a.String() < b.String() {
		return a, b, nil
	}
	return b, a, nil
}
