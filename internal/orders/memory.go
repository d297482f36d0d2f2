package orders

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

// MemoryRepository keeps receipts for the life of the process. It backs the
// history endpoint when no database is configured.
type MemoryRepository struct {
	mu       sync.Mutex
	receipts []domain.Receipt
	seen     map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{seen: make(map[string]struct{})}
}

func (m *MemoryRepository) Record(_ context.Context, r domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.seen[r.OrderID]; ok {
		return ErrDuplicateReceipt
	}
	m.seen[r.OrderID] = struct{}{}
	r.Lines = append([]domain.ReceiptLine(nil), r.Lines...)
	m.receipts = append(m.receipts, r)
	return nil
}

// ListByUser returns the user's receipts, newest first.
func (m *MemoryRepository) ListByUser(_ context.Context, userID string) ([]domain.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Receipt, 0)
	for i := len(m.receipts) - 1; i >= 0; i-- {
		if m.receipts[i].UserID == userID {
			out = append(out, m.receipts[i])
		}
	}
	return out, nil
}
