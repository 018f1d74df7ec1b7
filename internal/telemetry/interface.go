package telemetry

import (
	"context"
	"time"
)

// Recorder persists applied metrics snapshots.
type Recorder interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot is one metrics state as applied to the scene, stamped with
// the wall-clock time of application.
type Snapshot struct {
	Timestamp    time.Time
	CPU          float64
	GPU          float64
	RAM          float64
	VRAM         float64
	TickRate     float64
	ActiveNodes  int
	TotalEdges   int
	MeanError    float64
	MotorLatency float64
	Status       string
}
