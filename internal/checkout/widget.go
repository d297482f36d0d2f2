package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// awaitWidget opens the widget and blocks until its first callback. Later
// callbacks are dropped. paid is false when the user dismissed the widget.
func (f *Flow) awaitWidget(ctx context.Context, opts WidgetOptions) (payment PaymentResult, paid bool, err error) {
	type outcome struct {
		payment PaymentResult
		paid    bool
	}
	done := make(chan outcome, 1)

	var once sync.Once
	deliver := func(o outcome, callback string) {
		fired := false
		once.Do(func() {
			fired = true
			done <- o
		})
		if !fired {
			f.log.Warn("dropping extra widget callback",
				zap.String("callback", callback),
				zap.String("order_id", opts.OrderID),
			)
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.cfg.WidgetTimeout)
	defer cancel()

	cb := Callbacks{
		OnSuccess: func(p PaymentResult) { deliver(outcome{payment: p, paid: true}, "success") },
		OnDismiss: func() { deliver(outcome{}, "dismiss") },
	}
	if err := f.deps.Widget.Open(waitCtx, opts, cb); err != nil {
		return PaymentResult{}, false, fmt.Errorf("%w: open widget: %w", ErrPayment, err)
	}

	select {
	case o := <-done:
		return o.payment, o.paid, nil
	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return PaymentResult{}, false, fmt.Errorf("%w: %w", ErrPayment, ctx.Err())
		}
		if errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return PaymentResult{}, false, fmt.Errorf("%w after %s", ErrWidgetTimeout, f.cfg.WidgetTimeout)
		}
		return PaymentResult{}, false, fmt.Errorf("%w: %w", ErrPayment, waitCtx.Err())
	}
}
