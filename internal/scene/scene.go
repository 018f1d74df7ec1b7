// Package scene holds the mutable model the renderer draws from: the
// event stream ring, the node sphere, the latest metrics snapshot and
// the camera angle. A scene has a single owner (the main loop) and is
// not safe for concurrent use.
package scene

import (
	"math"

	"codeberg.org/voss/neuroscope/internal/feed"
)

// LogCapacity bounds the event stream ring.
const LogCapacity = 500

const (
	// Brightness chases activation by this fraction of the remaining
	// gap once per tick. The step is deliberately not scaled by
	// elapsed time, so animation speed tracks the frame rate.
	brightnessFactor = 0.15

	pulseThreshold = 0.8
	pulseDuration  = 0.2

	// Camera rotation in radians per second.
	cameraRate = 0.3
)

// Node is one rendered graph node. Its position on the unit sphere is
// fixed at construction; activation, brightness and pulse evolve as
// events arrive and time passes.
type Node struct {
	ID         int
	X, Y, Z    float64
	Activation float64
	Brightness float64
	Pulse      float64
}

type Scene struct {
	log     *LogRing
	nodes   []Node
	metrics feed.MetricEvent
	camera  float64
}

// New builds a scene with the given number of nodes spread evenly over
// the unit sphere. Counts below one are clamped to one.
func New(nodes int) *Scene {
	if nodes < 1 {
		nodes = 1
	}

	s := &Scene{
		log:     NewLogRing(LogCapacity),
		nodes:   make([]Node, nodes),
		metrics: feed.MetricEvent{Status: feed.StatusIdle},
	}

	for i := range s.nodes {
		theta := 2 * math.Pi * float64(i) / float64(nodes)
		phi := math.Acos(2*float64(i)/float64(nodes) - 1)
		s.nodes[i] = Node{
			ID: i,
			X:  math.Sin(phi) * math.Cos(theta),
			Y:  math.Sin(phi) * math.Sin(theta),
			Z:  math.Cos(phi),
		}
	}

	return s
}

// DrainAndApply pops every queued event and folds it into the scene.
// It reports how many events were applied and whether a metrics
// snapshot arrived. Activation events naming an unknown node are
// dropped without effect.
func (s *Scene) DrainAndApply(queue *feed.Queue) (applied int, metricsUpdated bool) {
	for {
		ev, ok := queue.TryPop()
		if !ok {
			return applied, metricsUpdated
		}

		switch ev := ev.(type) {
		case feed.LogEvent:
			s.log.Push(ev)
		case feed.GraphUpdateEvent:
			if ev.NodeID < 0 || ev.NodeID >= len(s.nodes) {
				continue
			}
			node := &s.nodes[ev.NodeID]
			node.Activation = ev.Activation
			// Reset, not max: a hot node keeps pulsing from scratch.
			if node.Activation > pulseThreshold {
				node.Pulse = pulseDuration
			}
		case feed.MetricEvent:
			s.metrics = ev
			metricsUpdated = true
		}

		applied++
	}
}

// Advance steps the animation by delta seconds.
func (s *Scene) Advance(delta float64) {
	for i := range s.nodes {
		node := &s.nodes[i]
		node.Brightness += (node.Activation - node.Brightness) * brightnessFactor
		node.Pulse = math.Max(0, node.Pulse-delta)
	}

	s.camera += delta * cameraRate
}

// Nodes returns the live node slice backing the scene.
func (s *Scene) Nodes() []Node {
	return s.nodes
}

// Metrics returns the latest metrics snapshot.
func (s *Scene) Metrics() feed.MetricEvent {
	return s.metrics
}

// Camera returns the current rotation angle in radians.
func (s *Scene) Camera() float64 {
	return s.camera
}

// Log returns the event stream ring.
func (s *Scene) Log() *LogRing {
	return s.log
}
