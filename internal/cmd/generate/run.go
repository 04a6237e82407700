package generaterun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	cfgpkg "github.com/rzbill/nexmark/internal/config"
	"github.com/rzbill/nexmark/internal/event"
	"github.com/rzbill/nexmark/internal/filter"
	"github.com/rzbill/nexmark/internal/format"
	"github.com/rzbill/nexmark/internal/generator"
	"github.com/rzbill/nexmark/internal/metrics"
	"github.com/rzbill/nexmark/internal/pacer"
	"github.com/rzbill/nexmark/internal/sink"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

func getenvDefault(key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

// small wrapper to allow testing
var getenv = os.Getenv

// Options describes one generation run.
type Options struct {
	Config cfgpkg.Config
	// Type is all|person|auction|bid.
	Type string
	// Number caps the events emitted; negative means unbounded.
	Number int64
	Offset uint64
	Step   uint64
	NoWait bool
	// Filter is a CEL expression; empty keeps every event.
	Filter string
	// RunID names the run in remote sink keys. Defaults to NEXMARK_RUN_ID
	// or a random UUID.
	RunID string

	// Sink overrides the configured sink. Run closes it once the encoder
	// has been built.
	Sink    sink.Sink
	Clock   pacer.Clock
	Metrics *metrics.Metrics
}

// Stats summarizes a finished run.
type Stats struct {
	Events  uint64
	Frames  uint64
	Bytes   uint64
	Elapsed time.Duration
}

// Run generates events until the source is exhausted, an error occurs or
// ctx is cancelled. Callers wanting SIGINT/SIGTERM handling pass a
// signal-aware ctx. The encoder and sink are flushed and closed on every
// path once opened. A cancelled run returns the context error alongside the
// stats gathered so far.
func Run(ctx context.Context, opts Options, logger logpkg.Logger) (Stats, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	f, err := format.Parse(cfg.Output.Format)
	if err != nil {
		return Stats{}, err
	}
	flt, err := filter.Compile(opts.Filter)
	if err != nil {
		return Stats{}, err
	}
	gen := generator.New(cfg.Generator).WithOffset(opts.Offset).WithStep(opts.Step)
	if opts.Type != "" && opts.Type != "all" {
		t, err := event.ParseType(opts.Type)
		if err != nil {
			return Stats{}, err
		}
		gen = gen.WithTypeFilter(t)
		// Resolve the first event now so an unsatisfiable type/step
		// combination fails before the sink is opened.
		gen.Timestamp()
		if err := gen.Err(); err != nil {
			return Stats{}, err
		}
	}
	src := event.Limit(flt.Wrap(ctx, gen), opts.Number)

	runID := opts.RunID
	if runID == "" {
		runID = getenvDefault("NEXMARK_RUN_ID", uuid.NewString())
	}
	logger = logger.With(logpkg.Component("generate"), logpkg.Str("run", runID))

	m := opts.Metrics
	if m == nil && cfg.Metrics.Addr != "" {
		m = metrics.New()
	}
	if m != nil && cfg.Metrics.Addr != "" {
		if _, err := m.Serve(ctx, cfg.Metrics.Addr, logger); err != nil {
			return Stats{}, fmt.Errorf("metrics: listen %s: %w", cfg.Metrics.Addr, err)
		}
	}

	snk := opts.Sink
	if snk == nil {
		snk, err = sink.Open(ctx, cfg, runID, logger)
		if err != nil {
			return Stats{}, err
		}
	}

	encOpts := format.Options{BufferSize: cfg.Output.BufferSize}
	pacerOpts := pacer.Options{NoWait: opts.NoWait, Clock: opts.Clock}
	if m != nil {
		encOpts.FlushObserver = m
		pacerOpts.Observer = m
	}
	enc, err := format.New(f, snk, encOpts)
	if err != nil {
		return Stats{}, errors.Join(err, snk.Close())
	}

	logger.Info("run started",
		logpkg.Str("format", string(f)),
		logpkg.Str("sink", cfg.ResolvedSink()),
		logpkg.Str("type", opts.Type),
		logpkg.Int64("number", opts.Number),
		logpkg.Uint64("offset", opts.Offset),
		logpkg.Uint64("step", opts.Step),
		logpkg.Bool("no_wait", opts.NoWait),
		logpkg.Str("filter", flt.String()),
	)

	p := pacer.New(src, pacerOpts)
	runErr := errors.Join(emit(ctx, p, enc, m), gen.Err())

	closeErr := enc.Close()
	if runErr != nil && errors.Is(runErr, closeErr) {
		// A failed flush stops the encoder; Close reports the same failure.
		closeErr = nil
	}
	sinkErr := snk.Close()
	es := enc.Stats()
	stats := Stats{Events: es.Events, Frames: es.Frames, Bytes: es.Bytes, Elapsed: time.Since(p.Start())}

	fields := []logpkg.Field{
		logpkg.Uint64("events", stats.Events),
		logpkg.Uint64("frames", stats.Frames),
		logpkg.Uint64("bytes", stats.Bytes),
		logpkg.Duration("elapsed", stats.Elapsed),
	}
	err = errors.Join(runErr, closeErr, sinkErr)
	switch {
	case err == nil:
		logger.Info("run finished", fields...)
	case errors.Is(err, context.Canceled) && closeErr == nil && sinkErr == nil:
		logger.Info("run interrupted", fields...)
	default:
		logger.WithError(err).Error("run failed", fields...)
	}
	return stats, err
}

func emit(ctx context.Context, p *pacer.Pacer, enc format.Encoder, m *metrics.Metrics) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ev, ok, err := p.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			// A filtered source also ends early on cancellation.
			return ctx.Err()
		}
		if err := enc.Encode(ev); err != nil {
			return err
		}
		m.ObserveEvent(ev.Type())
	}
}
