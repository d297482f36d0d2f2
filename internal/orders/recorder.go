package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/domain"
	"go.uber.org/zap"
)

// History answers "what did this user buy".
type History interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Receipt, error)
}

// Repository stores receipts and answers history queries.
type Repository interface {
	checkout.ReceiptRecorder
	History
}

// Recorder fans a receipt out to every configured sink. Every sink is
// attempted; failures are joined.
type Recorder struct {
	sinks []checkout.ReceiptRecorder
	log   *zap.Logger
}

func NewRecorder(log *zap.Logger, sinks ...checkout.ReceiptRecorder) *Recorder {
	return &Recorder{sinks: sinks, log: log}
}

func (r *Recorder) Record(ctx context.Context, receipt domain.Receipt) error {
	var errs []error
	for _, s := range r.sinks {
		if err := s.Record(ctx, receipt); err != nil {
			r.log.Error("failed to record receipt",
				zap.String("order_id", receipt.OrderID),
				zap.String("sink", fmt.Sprintf("%T", s)),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len is the number of configured sinks.
func (r *Recorder) Len() int { return len(r.sinks) }

var (
	_ checkout.ReceiptRecorder = (*Recorder)(nil)
	_ Repository               = (*MemoryRepository)(nil)
	_ Repository               = (*PostgresRepository)(nil)
	_ checkout.ReceiptRecorder = (*KafkaPublisher)(nil)
)
