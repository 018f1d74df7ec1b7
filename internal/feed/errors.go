package feed

import "codeberg.org/voss/neuroscope/internal/errors"

const (
	// Connection Errors
	ErrFeedUnavailable = errors.ErrorCode("feed_unavailable")
	ErrReadFailed      = errors.ErrorCode("feed_read_failed")

	// Decode Errors
	ErrMalformedRecord = errors.ErrorCode("feed_malformed_record")
	ErrUnknownRecord   = errors.ErrorCode("feed_unknown_record_type")
)
