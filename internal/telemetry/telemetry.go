// Package telemetry is the opt-in recorder persisting every metrics
// snapshot the scene applies into a local SQLite database, one row per
// snapshot, tagged with a per-run session id.
package telemetry

import (
	"context"

	"codeberg.org/voss/neuroscope/internal/errors"
	"codeberg.org/voss/neuroscope/internal/logger"
)

type service struct {
	repo Repository
}

// NewRecorder builds the configured recorder. Disabled telemetry gets
// the no-op recorder, so callers never branch on the setting.
func NewRecorder(cfg Config) (Recorder, error) {
	if !cfg.Enabled {
		return NewNoop(), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := NewRepository(cfg, logger.Default())
	if err != nil {
		return nil, err
	}

	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return errors.New(ErrInvalidSnapshot)
	}

	select {
	case <-ctx.Done():
		return errors.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.Store(ctx, snapshot); err != nil {
			return errors.Wrap(ErrRecordFailed, err)
		}
	}

	return nil
}

func (s *service) Close() error {
	return s.repo.Close()
}

type noop struct{}

// NewNoop returns a recorder that drops every snapshot. It stands in
// whenever persistence is disabled or unavailable.
func NewNoop() Recorder {
	return noop{}
}

func (noop) Record(context.Context, *Snapshot) error { return nil }

func (noop) Close() error { return nil }
