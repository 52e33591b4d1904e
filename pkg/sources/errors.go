// Package sources provides price source interfaces and implementations.
package sources

import "errors"

var (
	// ErrUnexpectedStatus indicates an unexpected HTTP status code.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
	// ErrRateLimitExceeded indicates that a rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidResponse indicates an invalid response from the source.
	ErrInvalidResponse = errors.New("invalid response")
	// ErrInvalidConfig indicates that the source configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrValueOutOfRange indicates an extracted value outside its plausibility band.
	ErrValueOutOfRange = errors.New("value outside plausibility range")
	// ErrValueNotFound indicates that no extraction strategy produced a value.
	ErrValueNotFound = errors.New("value not found in response")
	// ErrNoBarsFound indicates that no matching bar product was located.
	ErrNoBarsFound = errors.New("no matching bar product found in response")
	// ErrRoleMismatch indicates a reading offered to the wrong role.
	ErrRoleMismatch = errors.New("reading role mismatch")
)
