// Package pacer releases a timestamped event sequence in step with the wall
// clock. Event e is released no earlier than
// start + (e.Timestamp() - first.Timestamp()), where start is the wall-clock
// time the Pacer was created and first is the first event it sees. Late
// events are released immediately; there is no catch-up acceleration.
//
// Pacing blocks the calling goroutine. There is no background timer.
package pacer

import (
	"context"
	"time"

	"github.com/rzbill/nexmark/internal/event"
)

// Clock abstracts wall time for tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RealClock is the process wall clock.
var RealClock Clock = realClock{}

// Observer receives pacing measurements.
type Observer interface {
	// ObserveWait is called with the time slept before releasing an event.
	ObserveWait(d time.Duration)
	// ObserveLate is called when an event's target time had already passed.
	ObserveLate(behind time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveWait(time.Duration) {}
func (noopObserver) ObserveLate(time.Duration) {}

// Options configures a Pacer.
type Options struct {
	// NoWait releases events as fast as they are pulled.
	NoWait   bool
	Clock    Clock
	Observer Observer
}

// Pacer wraps a Source with a real-time release discipline.
type Pacer struct {
	src       event.Source
	noWait    bool
	clock     Clock
	obs       Observer
	startWall time.Time
	startTS   uint64
	seen      bool
}

// New captures the wall-clock start and returns a Pacer over src.
func New(src event.Source, opts Options) *Pacer {
	clock := opts.Clock
	if clock == nil {
		clock = RealClock
	}
	obs := opts.Observer
	if obs == nil {
		obs = noopObserver{}
	}
	return &Pacer{
		src:       src,
		noWait:    opts.NoWait,
		clock:     clock,
		obs:       obs,
		startWall: clock.Now(),
	}
}

// Next pulls the next event and blocks until its release time. It returns
// ok=false when the source is exhausted and a non-nil error only when ctx
// ends during a wait.
func (p *Pacer) Next(ctx context.Context) (event.Event, bool, error) {
	ev, ok := p.src.Next()
	if !ok {
		return event.Event{}, false, nil
	}
	if !p.seen {
		p.seen = true
		p.startTS = ev.Timestamp()
	}
	if p.noWait {
		return ev, true, nil
	}

	target := p.Target(ev.Timestamp())
	wait := target.Sub(p.clock.Now())
	if wait <= 0 {
		if wait < 0 {
			p.obs.ObserveLate(-wait)
		}
		return ev, true, nil
	}
	if err := p.clock.Sleep(ctx, wait); err != nil {
		return event.Event{}, false, err
	}
	p.obs.ObserveWait(wait)
	return ev, true, nil
}

// Target returns the wall-clock release time for logical timestamp ts.
// Timestamps earlier than the first event map to the start time.
func (p *Pacer) Target(ts uint64) time.Time {
	if ts <= p.startTS {
		return p.startWall
	}
	return p.startWall.Add(time.Duration(ts-p.startTS) * time.Millisecond)
}

// Start returns the captured wall-clock start.
func (p *Pacer) Start() time.Time { return p.startWall }
