package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/voss/neuroscope/internal/errors"
	"codeberg.org/voss/neuroscope/internal/logger"
)

// Repository is the storage backend for snapshots.
type Repository interface {
	Store(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

type sqliteRepository struct {
	db      *sql.DB
	session string
	mu      sync.Mutex
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	if cfg.DBPath == "" {
		return nil, errors.New(ErrInvalidDBPath)
	}

	log.Debug().Msgf("Opening telemetry store at %s", cfg.DBPath)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errors.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errors.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db, log); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{
		db:      db,
		session: uuid.New().String(),
	}, nil
}

// Store upserts a snapshot keyed by timestamp, so replaying a tick
// overwrites rather than duplicates.
func (r *sqliteRepository) Store(ctx context.Context, snapshot *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, insertSnapshotSQL,
		snapshot.Timestamp.UnixNano(),
		r.session,
		snapshot.CPU,
		snapshot.GPU,
		snapshot.RAM,
		snapshot.VRAM,
		snapshot.TickRate,
		snapshot.ActiveNodes,
		snapshot.TotalEdges,
		snapshot.MeanError,
		snapshot.MotorLatency,
		snapshot.Status,
	)
	if err != nil {
		return errors.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.Wrap(ErrStorageClose, err)
	}

	return nil
}
