package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"codeberg.org/voss/neuroscope/internal/config"
	"codeberg.org/voss/neuroscope/internal/errors"
	"codeberg.org/voss/neuroscope/internal/fbdev"
	"codeberg.org/voss/neuroscope/internal/feed"
	"codeberg.org/voss/neuroscope/internal/logger"
	"codeberg.org/voss/neuroscope/internal/pid"
	"codeberg.org/voss/neuroscope/internal/render"
	"codeberg.org/voss/neuroscope/internal/scene"
	"codeberg.org/voss/neuroscope/internal/telemetry"
)

// reportInterval is how often the loop logs its measured frame rate.
const reportInterval = 5 * time.Second

var (
	cfg      *config.Config
	display  *fbdev.Framebuffer
	recorder telemetry.Recorder
	queue    *feed.Queue
	state    *scene.Scene
	renderer *render.Renderer
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Error().Err(err).Msg("failed to acquire PID file")
		os.Exit(1)
	}
	defer pid.Remove()

	var err error
	display, err = fbdev.Open(cfg.Device)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open framebuffer")
		pid.Remove()
		os.Exit(1)
	}
	defer display.Close()

	recorder, err = telemetry.NewRecorder(telemetry.Config{
		Enabled: cfg.Telemetry,
		DBPath:  cfg.TelemetryDB,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Telemetry recorder unavailable, metrics will not be persisted")
		recorder = telemetry.NewNoop()
	}
	defer recorder.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	queue = feed.NewQueue()
	pipeline := feed.NewPipeline(feed.Config{
		SocketPath: cfg.FeedSocket,
		URL:        cfg.FeedURL,
		Demo:       cfg.Demo,
		Nodes:      cfg.Nodes,
	}, queue)
	pipeline.Start(ctx)

	state = scene.New(cfg.Nodes)
	renderer = render.New(display)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in render loop")
	}
	logger.Info().Msg("Exiting...")
}

func loop(ctx context.Context) error {
	if cfg.FPS <= 0 {
		return fmt.Errorf("invalid fps: %d", cfg.FPS)
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.FPS))
	defer ticker.Stop()

	last := time.Now()
	report := last
	frames := 0

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			delta := now.Sub(last).Seconds()
			last = now

			_, metricsUpdated := state.DrainAndApply(queue)
			state.Advance(delta)
			renderer.Render(state)
			frames++

			if metricsUpdated {
				record(ctx)
			}

			if since := now.Sub(report); since >= reportInterval {
				logger.Debug().
					Float64("fps", float64(frames)/since.Seconds()).
					Uint64("dropped_events", queue.Dropped()).
					Msg("")
				frames = 0
				report = now
			}
		}
	}
}

// record persists the latest metrics snapshot. Recording failures are
// logged and never interrupt rendering.
func record(ctx context.Context) {
	m := state.Metrics()
	err := recorder.Record(ctx, &telemetry.Snapshot{
		Timestamp:    time.Now(),
		CPU:          m.CPU,
		GPU:          m.GPU,
		RAM:          m.RAM,
		VRAM:         m.VRAM,
		TickRate:     m.TickRate,
		ActiveNodes:  m.ActiveNodes,
		TotalEdges:   m.TotalEdges,
		MeanError:    m.MeanError,
		MotorLatency: m.MotorLatency,
		Status:       m.Status,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record metrics snapshot")
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
