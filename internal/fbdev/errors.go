package fbdev

import "codeberg.org/voss/neuroscope/internal/errors"

const (
	// Device Errors
	ErrOpenFailed      = errors.ErrorCode("fbdev_open_failed")
	ErrGeometryQuery   = errors.ErrorCode("fbdev_geometry_query_failed")
	ErrInvalidGeometry = errors.ErrorCode("fbdev_invalid_geometry")
	ErrMapFailed       = errors.ErrorCode("fbdev_map_failed")

	// Shutdown Errors
	ErrUnmapFailed = errors.ErrorCode("fbdev_unmap_failed")
	ErrCloseFailed = errors.ErrorCode("fbdev_close_failed")
)
