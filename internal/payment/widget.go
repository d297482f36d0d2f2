package payment

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"go.uber.org/zap"
)

type Decision string

const (
	DecisionSuccess Decision = "success"
	DecisionDismiss Decision = "dismiss"
	// DecisionTamper reports success with a bad signature.
	DecisionTamper Decision = "tamper"
)

// Decider chooses how a simulated widget session ends.
type Decider interface {
	Decide() Decision
}

type FixedDecider Decision

func (d FixedDecider) Decide() Decision { return Decision(d) }

// RandomDecider succeeds 95% of the time.
type RandomDecider struct{}

func (RandomDecider) Decide() Decision {
	return calcDecision(rand.Intn(101))
}

func calcDecision(randomInt int) Decision {
	if randomInt < 95 {
		return DecisionSuccess
	}
	if randomInt%2 == 0 {
		return DecisionDismiss
	}
	return DecisionTamper
}

// NewDecider maps a configured name to a Decider. Unknown names succeed.
func NewDecider(name string) Decider {
	switch Decision(name) {
	case DecisionDismiss, DecisionTamper:
		return FixedDecider(name)
	case "random":
		return RandomDecider{}
	default:
		return FixedDecider(DecisionSuccess)
	}
}

// SimulatedWidget stands in for the hosted payment popup. It answers on its
// own goroutine after delay.
type SimulatedWidget struct {
	signer  Signer
	decider Decider
	delay   time.Duration
	log     *zap.Logger
}

func NewSimulatedWidget(signer Signer, decider Decider, delay time.Duration, log *zap.Logger) *SimulatedWidget {
	return &SimulatedWidget{signer: signer, decider: decider, delay: delay, log: log}
}

func (w *SimulatedWidget) Open(ctx context.Context, opts checkout.WidgetOptions, cb checkout.Callbacks) error {
	if opts.OrderID == "" {
		return errors.New("widget opened without an order id")
	}

	go func() {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			return
		}

		decision := w.decider.Decide()
		w.log.Debug("simulated widget decided", zap.String("order_id", opts.OrderID), zap.String("decision", string(decision)))

		if decision == DecisionDismiss {
			cb.OnDismiss()
			return
		}
		result := w.signer.Settle(opts.OrderID)
		if decision == DecisionTamper {
			result.Signature = "0000"
		}
		cb.OnSuccess(result)
	}()
	return nil
}

var _ checkout.Widget = (*SimulatedWidget)(nil)
