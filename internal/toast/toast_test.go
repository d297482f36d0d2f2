package toast

import (
	"testing"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestBroadcaster_DeliversToAllSubscribers(t *testing.T) {
	b := NewBroadcaster(4, zaptest.NewLogger(t))
	first, cancelFirst := b.Subscribe()
	defer cancelFirst()
	second, cancelSecond := b.Subscribe()
	defer cancelSecond()

	sig := Signal{Title: "Added to cart", Message: "x", Severity: domain.SeveritySuccess}
	b.Notify(sig)

	assert.Equal(t, sig, <-first)
	assert.Equal(t, sig, <-second)
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster(1, zaptest.NewLogger(t))
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Notify(Signal{Title: "one"})
	b.Notify(Signal{Title: "two"}) // must not block

	assert.Equal(t, "one", (<-ch).Title)
	assert.Len(t, ch, 0)
}

func TestBroadcaster_CancelClosesChannel(t *testing.T) {
	b := NewBroadcaster(1, zaptest.NewLogger(t))
	ch, cancel := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers())

	b.Notify(Signal{Title: "after"})
}

func TestLogSurface(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewLogSurface(zap.New(core)).Notify(Signal{Title: "Logged out", Severity: domain.SeverityInfo})

	entries := logs.FilterMessage("toast").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Logged out", entries[0].ContextMap()["title"])
	assert.Equal(t, "info", entries[0].ContextMap()["severity"])
}

func TestMulti(t *testing.T) {
	rec := &Recorder{}
	Multi{Nop{}, rec, rec}.Notify(Signal{Title: "x"})
	assert.Len(t, rec.Signals(), 2)
}
