package dump

import "codeberg.org/voss/neuroscope/internal/errors"

const (
	ErrUnreadable = errors.ErrorCode("dump_unreadable")
	ErrTruncated  = errors.ErrorCode("dump_truncated")
)
