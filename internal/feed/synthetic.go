package feed

import (
	"context"
	"math/rand"
	"time"
)

// Emission cadence and mix of the synthetic generator. Every cycle
// narrates one log line; node activations follow most cycles and
// metrics snapshots arrive now and then, roughly matching a live
// engine under light load.
const (
	emitIntervalMin  = 300 * time.Millisecond
	emitIntervalSpan = 600 * time.Millisecond

	graphUpdateChance = 0.8
	metricChance      = 0.3
)

// Phrases the generator narrates with, mirroring what the engine
// emits so the panels look plausible without a live feed.
var syntheticPhrases = []string{
	"Analyzing visual input",
	"Processing sensory data",
	"Updating neural weights",
	"Context shift: environment",
	"Motor planning active",
	"Prediction computed",
	"Learning adaptation",
	"Attention reoriented",
	"Memory consolidation",
	"Pattern recognized",
}

var (
	syntheticKinds    = []string{KindThought, KindPerception, KindLearning, KindContext}
	syntheticStatuses = []string{StatusActive, StatusLearning}
)

// Synthetic generates stand-in telemetry when no engine feed is
// reachable. It exists only to keep the display moving and must never
// be mistaken for authoritative data.
type Synthetic struct {
	nodes int
	rng   *rand.Rand
}

// NewSynthetic returns a generator emitting node ids in [0, nodes).
// A nil rng seeds one from the clock.
func NewSynthetic(nodes int, rng *rand.Rand) *Synthetic {
	if nodes < 1 {
		nodes = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Synthetic{nodes: nodes, rng: rng}
}

// Run emits cycles at randomized intervals until ctx is cancelled.
func (g *Synthetic) Run(ctx context.Context, queue *Queue) {
	timer := time.NewTimer(g.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			g.Emit(queue)
			timer.Reset(g.interval())
		}
	}
}

func (g *Synthetic) interval() time.Duration {
	return emitIntervalMin + time.Duration(g.rng.Float64()*float64(emitIntervalSpan))
}

// Emit pushes one generation cycle: a log line, usually a node
// activation, occasionally a metrics snapshot.
func (g *Synthetic) Emit(queue *Queue) {
	queue.Push(LogEvent{
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Context:   "main",
		Kind:      syntheticKinds[g.rng.Intn(len(syntheticKinds))],
		Text:      syntheticPhrases[g.rng.Intn(len(syntheticPhrases))],
	})

	if g.rng.Float64() < graphUpdateChance {
		queue.Push(GraphUpdateEvent{
			NodeID:     g.rng.Intn(g.nodes),
			Activation: g.rng.Float64(),
		})
	}

	if g.rng.Float64() < metricChance {
		queue.Push(MetricEvent{
			CPU:         30 + g.rng.Float64()*40,
			GPU:         40 + g.rng.Float64()*30,
			RAM:         50 + g.rng.Float64()*20,
			TickRate:    15 + g.rng.Float64()*10,
			ActiveNodes: 20 + g.rng.Intn(31),
			TotalEdges:  100 + g.rng.Intn(101),
			MeanError:   g.rng.Float64() * 0.1,
			Status:      syntheticStatuses[g.rng.Intn(len(syntheticStatuses))],
		})
	}
}
