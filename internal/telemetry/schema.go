package telemetry

import (
	"database/sql"

	"codeberg.org/voss/neuroscope/internal/errors"
	"codeberg.org/voss/neuroscope/internal/logger"
)

const (
	schemaVersion = 1

	createTablesSQL = `
	CREATE TABLE IF NOT EXISTS schema_versions (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshots (
		timestamp     INTEGER PRIMARY KEY,
		session_id    TEXT NOT NULL,
		cpu           REAL NOT NULL,
		gpu           REAL NOT NULL,
		ram           REAL NOT NULL,
		vram          REAL NOT NULL,
		tick_rate     REAL NOT NULL,
		active_nodes  INTEGER NOT NULL,
		total_edges   INTEGER NOT NULL,
		mean_error    REAL NOT NULL,
		motor_latency REAL NOT NULL,
		status        TEXT NOT NULL
	);`

	insertSnapshotSQL = `
	INSERT INTO snapshots (
		timestamp, session_id,
		cpu, gpu, ram, vram, tick_rate,
		active_nodes, total_edges,
		mean_error, motor_latency, status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(timestamp) DO UPDATE SET
		session_id    = excluded.session_id,
		cpu           = excluded.cpu,
		gpu           = excluded.gpu,
		ram           = excluded.ram,
		vram          = excluded.vram,
		tick_rate     = excluded.tick_rate,
		active_nodes  = excluded.active_nodes,
		total_edges   = excluded.total_edges,
		mean_error    = excluded.mean_error,
		motor_latency = excluded.motor_latency,
		status        = excluded.status`
)

// initSchema creates the tables on a fresh database and verifies the
// version on an existing one. Databases written by a different schema
// version are refused rather than migrated.
func initSchema(db *sql.DB, log logger.Logger) error {
	version, err := currentVersion(db)
	if err != nil {
		return err
	}
	if version == schemaVersion {
		return nil
	}
	if version != 0 {
		return errors.WithData(ErrSchemaVersion, version)
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(ErrSchemaInit, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to roll back schema transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errors.Wrap(ErrSchemaInit, err)
	}

	if _, err := tx.Exec(`
		INSERT INTO schema_versions (version, applied_at)
		VALUES (?, datetime('now'))
	`, schemaVersion); err != nil {
		return errors.Wrap(ErrSchemaInit, err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(ErrSchemaInit, err)
	}
	committed = true

	log.Debug().Msgf("Telemetry schema initialized at version %d", schemaVersion)

	return nil
}

func currentVersion(db *sql.DB) (int, error) {
	var exists bool
	err := db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type='table' AND name='schema_versions'
		)
	`).Scan(&exists)
	if err != nil {
		return 0, errors.Wrap(ErrSchemaInit, err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err = db.QueryRow(`
		SELECT version
		FROM schema_versions
		ORDER BY version DESC
		LIMIT 1
	`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(ErrSchemaInit, err)
	}

	return version, nil
}
