package domain

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = eris.New("invalid request parameters")

	// ErrMalformedListing is returned when a raw listing lacks a mandatory field
	ErrMalformedListing = eris.New("malformed listing")

	// ErrSourceUnavailable is returned when a marketplace fetch fails or times out
	ErrSourceUnavailable = eris.New("marketplace source unavailable")

	// ErrAllSourcesFailed marks a search in which no marketplace returned listings
	ErrAllSourcesFailed = eris.New("all marketplace sources failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = eris.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = eris.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = eris.New("cache service unavailable")
)

// ValidationError reports a missing or unknown preference answer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}

// MalformedListingError reports a raw listing that cannot become a Product.
type MalformedListingError struct {
	Platform Platform
	ItemCode string
	Field    string
}

func (e *MalformedListingError) Error() string {
	return fmt.Sprintf("malformed %s listing %q: missing %s", e.Platform, e.ItemCode, e.Field)
}

func (e *MalformedListingError) Unwrap() error {
	return ErrMalformedListing
}

// SourceUnavailableError wraps the failure of a single marketplace fetch.
type SourceUnavailableError struct {
	Platform Platform
	Err      error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Platform, e.Err)
}

func (e *SourceUnavailableError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}
