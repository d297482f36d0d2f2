package toast

import (
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"go.uber.org/zap"
)

// Signal is an ephemeral message for the UI. It is never stored.
type Signal struct {
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Severity domain.Severity `json:"type"`
}

// Surface receives toasts. Notify must not block the caller.
type Surface interface {
	Notify(s Signal)
}

type Nop struct{}

func (Nop) Notify(Signal) {}

// LogSurface writes every toast to the process log.
type LogSurface struct {
	log *zap.Logger
}

func NewLogSurface(log *zap.Logger) *LogSurface {
	return &LogSurface{log: log}
}

func (l *LogSurface) Notify(s Signal) {
	l.log.Info("toast",
		zap.String("title", s.Title),
		zap.String("message", s.Message),
		zap.String("severity", string(s.Severity)),
	)
}

// Multi delivers each toast to every surface in order.
type Multi []Surface

func (m Multi) Notify(s Signal) {
	for _, surface := range m {
		surface.Notify(s)
	}
}

// Broadcaster fans toasts out to subscribers such as SSE streams. A
// subscriber whose buffer is full misses the toast.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[int]chan Signal
	nextID int
	buffer int
	log    *zap.Logger
}

func NewBroadcaster(buffer int, log *zap.Logger) *Broadcaster {
	if buffer <= 0 {
		buffer = 16
	}
	return &Broadcaster{
		subs:   make(map[int]chan Signal),
		buffer: buffer,
		log:    log,
	}
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes the channel; calling it twice is safe.
func (b *Broadcaster) Subscribe() (<-chan Signal, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Signal, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *Broadcaster) Notify(s Signal) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- s:
		default:
			b.log.Debug("toast dropped for slow subscriber", zap.Int("subscriber", id))
		}
	}
}

func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
