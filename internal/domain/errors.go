package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is returned when the catalog API answers 429
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrRequestTimeout is returned when a catalog request exceeds its deadline
	ErrRequestTimeout = errors.New("request timed out")

	// ErrHTTPStatus is returned for any other non-OK catalog response
	ErrHTTPStatus = errors.New("catalog API returned unexpected status")

	// ErrTransport is returned when the request could not be completed at all
	ErrTransport = errors.New("catalog API request failed")

	// ErrCacheMiss is returned when a style is not in the validation cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrInvalidRow is returned when an input row fails validation
	ErrInvalidRow = errors.New("invalid input row")

	// ErrDatasetLoad is returned when the input dataset cannot be read
	ErrDatasetLoad = errors.New("failed to load dataset")

	// ErrReportWrite is returned when an output file cannot be written
	ErrReportWrite = errors.New("failed to write report")
)

// HTTPStatusError carries the HTTP status of a non-OK catalog response.
// It matches ErrHTTPStatus under errors.Is.
type HTTPStatusError struct {
	Code int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// Unwrap lets errors.Is(err, ErrHTTPStatus) succeed
func (e *HTTPStatusError) Unwrap() error {
	return ErrHTTPStatus
}
