// Package auth issues and validates the bearer tokens that identify exam
// candidates.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing candidate tokens.
type JWTService interface {
	// GenerateToken creates a signed token for candidateID.
	GenerateToken(ctx context.Context, candidateID uuid.UUID) (string, error)

	// ValidateToken checks the token's signature and time claims and returns
	// its claims. Returns ErrExpiredToken, ErrTokenNotYetValid or
	// ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a candidate token.
type Claims struct {
	// CandidateID is the candidate the token was issued for.
	CandidateID uuid.UUID `json:"cid,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
