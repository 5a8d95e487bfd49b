package auth

import "errors"

// Token validation failures reported by JWTService.
var (
	// ErrInvalidToken covers malformed tokens, bad signatures and unusable
	// candidate IDs.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned once the exp claim has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned while the nbf claim is in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken is returned when a request carries no bearer token.
	ErrMissingToken = errors.New("authentication token is missing")
)
