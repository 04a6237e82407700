package metrics

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/rzbill/nexmark/internal/binfmt"
	"github.com/rzbill/nexmark/internal/event"
	"github.com/rzbill/nexmark/internal/pacer"
	logpkg "github.com/rzbill/nexmark/pkg/log"
)

var (
	_ binfmt.FlushObserver = (*Metrics)(nil)
	_ pacer.Observer       = (*Metrics)(nil)
)

func TestObservers(t *testing.T) {
	m := New()
	m.ObserveEvent(event.TypeBid)
	m.ObserveEvent(event.TypeBid)
	m.ObserveEvent(event.TypePerson)
	m.ObserveFlush(120, time.Millisecond)
	m.ObserveFlush(80, time.Millisecond)
	m.ObserveWait(3 * time.Millisecond)
	m.ObserveLate(time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(m.EventsEmitted.WithLabelValues("bid")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.EventsEmitted.WithLabelValues("person")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.FramesFlushed))
	require.Equal(t, 200.0, testutil.ToFloat64(m.FrameBytes))
	require.Equal(t, 1.0, testutil.ToFloat64(m.PacerBehind))
	require.Equal(t, 1, testutil.CollectAndCount(m.PacerWait))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveEvent(event.TypeBid)
	m.ObserveFlush(1, 0)
	m.ObserveWait(0)
	m.ObserveLate(0)
}

func TestServe(t *testing.T) {
	m := New()
	m.ObserveFlush(40, 0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr, err := m.Serve(ctx, "127.0.0.1:0", logpkg.NewLogger(logpkg.WithOutput(logpkg.NullOutput{})))
	require.NoError(t, err)

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.Contains(string(body), "nexmark_frames_flushed_total 1"))
}
