package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/kv"
	"github.com/fjod/go_storefront/internal/toast"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const snapshotKey = "notifications"

var ErrInvalidSeverity = fmt.Errorf("%w: unknown notification type", domain.ErrValidation)

// Store is the durable notification feed, newest first.
type Store struct {
	mu      sync.Mutex
	items   []domain.Notification
	storage kv.Storage
	toasts  toast.Surface
	log     *zap.Logger
	now     func() time.Time
}

func New(ctx context.Context, storage kv.Storage, toasts toast.Surface, log *zap.Logger) (*Store, error) {
	s := &Store{
		storage: storage,
		toasts:  toasts,
		log:     log,
		now:     time.Now,
	}

	var items []domain.Notification
	err := kv.LoadJSON(ctx, storage, snapshotKey, &items)
	switch {
	case err == nil:
		s.items = items
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		log.Warn("discarding unreadable notifications snapshot", zap.Error(err))
	default:
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return s, nil
}

func (s *Store) List() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]domain.Notification, 0, len(s.items)), s.items...)
}

func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, item := range s.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Push prepends an unread notification and then raises a toast for it.
func (s *Store) Push(ctx context.Context, title, message string, severity domain.Severity) (domain.Notification, error) {
	if !severity.Valid() {
		return domain.Notification{}, ErrInvalidSeverity
	}

	s.mu.Lock()
	n := domain.Notification{
		ID:        newID(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		CreatedAt: s.now().UTC(),
	}
	next := make([]domain.Notification, 0, len(s.items)+1)
	next = append(next, n)
	next = append(next, s.items...)
	err := s.commit(ctx, next)
	s.mu.Unlock()

	if err != nil {
		return domain.Notification{}, err
	}

	s.toasts.Notify(toast.Signal{Title: title, Message: message, Severity: severity})
	return n, nil
}

// MarkRead is a no-op for unknown or already read ids.
func (s *Store) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		if item.Read {
			return nil
		}
		next := append([]domain.Notification(nil), s.items...)
		next[i].Read = true
		return s.commit(ctx, next)
	}
	return nil
}

func (s *Store) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	next := append([]domain.Notification(nil), s.items...)
	for i := range next {
		if !next[i].Read {
			next[i].Read = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.commit(ctx, next)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []domain.Notification{})
}

func (s *Store) commit(ctx context.Context, next []domain.Notification) error {
	if err := kv.SaveJSON(ctx, s.storage, snapshotKey, next); err != nil {
		s.log.Error("failed to persist notifications", zap.Error(err))
		return fmt.Errorf("%w: persist notifications: %w", domain.ErrExternal, err)
	}
	s.items = next
	return nil
}

// newID returns a time-ordered id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "notification-" + id.String()
}
