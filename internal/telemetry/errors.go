package telemetry

import "codeberg.org/voss/neuroscope/internal/errors"

const (
	// Configuration errors
	ErrInvalidDBPath = errors.ErrorCode("telemetry_invalid_db_path")

	// Recording errors
	ErrInvalidSnapshot  = errors.ErrorCode("telemetry_invalid_snapshot")
	ErrRecordFailed     = errors.ErrorCode("telemetry_record_failed")
	ErrOperationTimeout = errors.ErrorCode("telemetry_operation_timeout")

	// Storage errors
	ErrStorageInit   = errors.ErrorCode("telemetry_storage_init_failed")
	ErrStorageAccess = errors.ErrorCode("telemetry_storage_access_failed")
	ErrStorageClose  = errors.ErrorCode("telemetry_storage_close_failed")
	ErrSchemaInit    = errors.ErrorCode("telemetry_schema_init_failed")
	ErrSchemaVersion = errors.ErrorCode("telemetry_schema_version_mismatch")
)
