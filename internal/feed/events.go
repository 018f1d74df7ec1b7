package feed

import (
	"encoding/json"
	"time"

	"codeberg.org/voss/neuroscope/internal/errors"
)

// Wire discriminator values. Log records use their kind directly as the
// record type.
const (
	KindThought    = "thought"
	KindPerception = "perception"
	KindLearning   = "learning"
	KindContext    = "context"

	TypeGraphUpdate = "graph_update"
	TypeMetric      = "metric"
)

// Engine status values carried in metric records.
const (
	StatusIdle     = "IDLE"
	StatusActive   = "ACTIVE"
	StatusLearning = "LEARNING"
)

// Event is one decoded telemetry record.
type Event interface {
	isEvent()
}

// LogEvent is one narrated line of engine activity.
type LogEvent struct {
	Timestamp float64
	Context   string
	Kind      string
	Text      string
}

// GraphUpdateEvent reports a new activation for one node.
type GraphUpdateEvent struct {
	NodeID     int
	Activation float64
}

// MetricEvent is a full system metrics snapshot. Each one replaces the
// previous snapshot wholesale; absent fields read as zero.
type MetricEvent struct {
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

func (LogEvent) isEvent()         {}
func (GraphUpdateEvent) isEvent() {}
func (MetricEvent) isEvent()      {}

// wireRecord is the superset of all record shapes; Type selects which
// fields are meaningful. Context and Timestamp are pointers so an
// absent field can be told apart from an explicit zero.
type wireRecord struct {
	Type         string   `json:"type"`
	Text         string   `json:"text"`
	Context      *string  `json:"context"`
	Timestamp    *float64 `json:"timestamp"`
	NodeID       int      `json:"node_id"`
	Activation   float64  `json:"activation"`
	CPU          float64  `json:"cpu"`
	GPU          float64  `json:"gpu"`
	RAM          float64  `json:"ram"`
	VRAM         float64  `json:"vram"`
	TickRate     float64  `json:"tick_rate"`
	ActiveNodes  int      `json:"active_nodes"`
	TotalEdges   int      `json:"total_edges"`
	MeanError    float64  `json:"mean_error"`
	MotorLatency float64  `json:"motor_latency"`
	Status       string   `json:"status"`
}

// Decode parses one wire line into an event. Malformed payloads and
// unrecognized types return an error; callers discard those lines. A
// log record missing its timestamp or context gets the decode time and
// the "main" context.
func Decode(line []byte) (Event, error) {
	var rec wireRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err)
	}

	switch rec.Type {
	case KindThought, KindPerception, KindLearning, KindContext:
		ev := LogEvent{
			Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
			Context:   "main",
			Kind:      rec.Type,
			Text:      rec.Text,
		}
		if rec.Timestamp != nil {
			ev.Timestamp = *rec.Timestamp
		}
		if rec.Context != nil {
			ev.Context = *rec.Context
		}
		return ev, nil
	case TypeGraphUpdate:
		return GraphUpdateEvent{
			NodeID:     rec.NodeID,
			Activation: rec.Activation,
		}, nil
	case TypeMetric:
		status := rec.Status
		if status == "" {
			status = StatusIdle
		}
		return MetricEvent{
			CPU:          rec.CPU,
			GPU:          rec.GPU,
			RAM:          rec.RAM,
			VRAM:         rec.VRAM,
			TickRate:     rec.TickRate,
			ActiveNodes:  rec.ActiveNodes,
			TotalEdges:   rec.TotalEdges,
			MeanError:    rec.MeanError,
			MotorLatency: rec.MotorLatency,
			Status:       status,
		}, nil
	default:
		return nil, errors.WithData(ErrUnknownRecord, rec.Type)
	}
}
