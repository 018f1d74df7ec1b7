package feed

import (
	"context"
	"io"
	"time"

	"codeberg.org/voss/neuroscope/internal/errors"
	"codeberg.org/voss/neuroscope/internal/logger"
)

// readBackoff is how long the worker waits after a failed read before
// trying the same connection again.
const readBackoff = time.Second

// Config selects the telemetry source.
type Config struct {
	// SocketPath is the engine's local stream socket.
	SocketPath string
	// URL is an optional websocket feed endpoint. When set it takes
	// precedence over SocketPath.
	URL string
	// Demo skips the engine entirely and runs on synthetic telemetry.
	Demo bool
	// Nodes bounds the node ids the synthetic generator may emit.
	Nodes int
}

// Pipeline is the ingestion worker. It maintains one feed connection,
// decodes its records and pushes them onto the queue; the render loop
// never waits on it. A feed that cannot be reached at startup is
// replaced by the synthetic generator for the rest of the process;
// the engine is never re-dialed.
type Pipeline struct {
	cfg   Config
	queue *Queue
	gen   *Synthetic
	done  chan struct{}
}

func NewPipeline(cfg Config, queue *Queue) *Pipeline {
	return &Pipeline{
		cfg:   cfg,
		queue: queue,
		gen:   NewSynthetic(cfg.Nodes, nil),
		done:  make(chan struct{}),
	}
}

// Start launches the worker. It returns immediately; the worker stops
// when ctx is cancelled and is never joined.
func (p *Pipeline) Start(ctx context.Context) {
	go p.run(ctx)
}

// Done is closed once the worker has exited.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)

	if p.cfg.Demo {
		logger.Info().Msg("Demo mode: generating synthetic telemetry")
		p.gen.Run(ctx, p.queue)
		return
	}

	src, err := p.connect()
	if err != nil {
		// One attempt only. A dead feed at startup means the engine is
		// not running; synthetic data keeps the display alive, though
		// it must never be mistaken for real telemetry.
		logger.Warn().Err(err).Msg("Engine feed unavailable, falling back to synthetic telemetry")
		p.gen.Run(ctx, p.queue)
		return
	}
	defer src.Close()

	// Unblock a pending read when the process shuts down.
	go func() {
		<-ctx.Done()
		src.Close()
	}()

	logger.Info().Msg("Connected to engine feed")
	p.consume(ctx, src)
}

func (p *Pipeline) connect() (source, error) {
	if p.cfg.URL != "" {
		return dialWebsocket(p.cfg.URL)
	}

	return dialSocket(p.cfg.SocketPath)
}

// consume reads the feed until it ends. Read failures are waited out
// on the same connection; only an orderly end of stream stops the
// worker.
func (p *Pipeline) consume(ctx context.Context, src source) {
	for {
		lines, err := src.ReadBatch()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				logger.Debug().Msg("Engine feed closed")
				return
			}

			logger.Debug().Err(err).Msg("Feed read failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(readBackoff):
			}

			continue
		}

		for _, line := range lines {
			ev, err := Decode(line)
			if err != nil {
				// Malformed lines are dropped without surfacing.
				logger.Debug().Err(err).Msg("Dropped undecodable feed line")
				continue
			}
			p.queue.Push(ev)
		}
	}
}
