package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/kv"
	"github.com/fjod/go_storefront/internal/toast"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const snapshotKey = "cart"

// Store holds the cart lines in first-added order. Every mutation writes the
// whole cart to storage before the in-memory copy is replaced.
type Store struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	storage kv.Storage
	toasts  toast.Surface
	log     *zap.Logger
}

// New loads the persisted cart. A missing or unreadable snapshot yields an
// empty cart; a storage failure is returned.
func New(ctx context.Context, storage kv.Storage, toasts toast.Surface, log *zap.Logger) (*Store, error) {
	s := &Store{
		storage: storage,
		toasts:  toasts,
		log:     log,
	}

	var lines []domain.CartLine
	err := kv.LoadJSON(ctx, storage, snapshotKey, &lines)
	switch {
	case err == nil:
		s.lines = sanitize(lines)
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		log.Warn("discarding unreadable cart snapshot", zap.Error(err))
	default:
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return s, nil
}

// sanitize drops lines no mutation could have produced.
func sanitize(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 || l.Product.ID == "" || seen[l.Product.ID] {
			continue
		}
		seen[l.Product.ID] = true
		out = append(out, l)
	}
	return out
}

func (s *Store) Items() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]domain.CartLine, 0, len(s.lines)), s.lines...)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// Add increments the line for product by quantity, or appends a new line.
func (s *Store) Add(ctx context.Context, product domain.Product, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]domain.CartLine(nil), s.lines...)
	if i := indexOf(next, product.ID); i >= 0 {
		next[i].Quantity += quantity
	} else {
		next = append(next, domain.CartLine{Product: product, Quantity: quantity})
	}

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.toasts.Notify(toast.Signal{
		Title:    "Added to cart",
		Message:  fmt.Sprintf("%s has been added to your cart.", product.Title),
		Severity: domain.SeveritySuccess,
	})
	return nil
}

// Remove deletes the line for productID. Removing an absent line is a no-op.
func (s *Store) Remove(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

func (s *Store) removeLocked(ctx context.Context, productID string) error {
	i := indexOf(s.lines, productID)
	if i < 0 {
		return nil
	}

	next := make([]domain.CartLine, 0, len(s.lines)-1)
	next = append(next, s.lines[:i]...)
	next = append(next, s.lines[i+1:]...)

	if err := s.commit(ctx, next); err != nil {
		return err
	}

	s.toasts.Notify(toast.Signal{
		Title:    "Removed from cart",
		Message:  "Item has been removed from your cart.",
		Severity: domain.SeverityInfo,
	})
	return nil
}

// SetQuantity updates a line in place. A quantity of zero or less removes it.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		return s.removeLocked(ctx, productID)
	}

	i := indexOf(s.lines, productID)
	if i < 0 || s.lines[i].Quantity == quantity {
		return nil
	}

	next := append([]domain.CartLine(nil), s.lines...)
	next[i].Quantity = quantity
	return s.commit(ctx, next)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, []domain.CartLine{}); err != nil {
		return err
	}

	s.toasts.Notify(toast.Signal{
		Title:    "Cart cleared",
		Message:  "All items have been removed from your cart.",
		Severity: domain.SeverityInfo,
	})
	return nil
}

// RemovePurchased takes the purchased quantities off their lines. Lines added
// or topped up after purchased was captured keep the difference.
func (s *Store) RemovePurchased(ctx context.Context, purchased []domain.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paid := make(map[string]int, len(purchased))
	for _, l := range purchased {
		paid[l.Product.ID] += l.Quantity
	}

	next := make([]domain.CartLine, 0, len(s.lines))
	for _, l := range s.lines {
		l.Quantity -= paid[l.Product.ID]
		if l.Quantity > 0 {
			next = append(next, l)
		}
	}
	if err := s.commit(ctx, next); err != nil {
		return err
	}

	if len(next) == 0 {
		s.toasts.Notify(toast.Signal{
			Title:    "Cart cleared",
			Message:  "All items have been removed from your cart.",
			Severity: domain.SeverityInfo,
		})
	}
	return nil
}

// commit persists next and then makes it the current cart. Callers hold mu.
func (s *Store) commit(ctx context.Context, next []domain.CartLine) error {
	if err := kv.SaveJSON(ctx, s.storage, snapshotKey, next); err != nil {
		s.log.Error("failed to persist cart", zap.Error(err))
		return fmt.Errorf("%w: persist cart: %w", domain.ErrExternal, err)
	}
	s.lines = next
	return nil
}

func indexOf(lines []domain.CartLine, productID string) int {
	for i, l := range lines {
		if l.Product.ID == productID {
			return i
		}
	}
	return -1
}
