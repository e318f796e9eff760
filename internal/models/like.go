package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/tessera-app/tessera/internal/apperr"
)

// Direction of a like action: interested or not.
type Direction string

const (
	DirectionLike Direction = "LIKE"
	DirectionPass Direction = "PASS"
)

// ParseDirection converts the wire form of a direction. Anything other
// than LIKE/PASS is rejected.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionLike, DirectionPass:
		return Direction(s), nil
	default:
		return "", apperr.ErrInvalidDirection
	}
}

// Like is a directional signal from one user to another. Immutable after
// creation: a user's first decision on a profile is the one that counts.
// The (FromUser, ToUser) ordered pair is unique in storage.
type Like struct {
	ID        uuid.UUID `json:"id"`
	FromUser  uuid.UUID `json:"from_user"`
	ToUser    uuid.UUID `json:"to_user"`
	Direction Direction `json:"direction"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLike creates a Like with a fresh ID and the current time.
// Self-likes are rejected before anything touches storage.
func NewLike(from, to uuid.UUID, direction Direction) (*Like, error) {
	if from == uuid.Nil || to == uuid.Nil {
		return nil, apperr.InvalidArg("user id cannot be nil")
	}
	if from == to {
		return nil, apperr.ErrSelfReference
	}
	if direction != DirectionLike && direction != DirectionPass {
		return nil, apperr.ErrInvalidDirection
	}
	return &Like{
		ID:        uuid.New(),
		FromUser:  from,
		ToUser:    to,
		Direction: direction,
		CreatedAt: time.Now().UTC(),
	}, nil
}
