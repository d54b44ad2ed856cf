package repositories

import "errors"

// Job lookups distinguish a malformed id from a missing row so callers can
// map them to different responses.
var (
	ErrInvalidJobID = errors.New("invalid job id")
	ErrJobNotFound  = errors.New("job not found")
)
