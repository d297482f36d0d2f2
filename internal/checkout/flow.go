package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/toast"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
)

// completeTimeout bounds the post-payment writes.
const completeTimeout = 30 * time.Second

type Result struct {
	Outcome Outcome         `json:"outcome"`
	Receipt *domain.Receipt `json:"receipt,omitempty"`
}

type Deps struct {
	Cart          Cart
	Session       Session
	Notifications Notifier
	Toasts        toast.Surface
	Loader        ScriptLoader
	Orders        OrderBackend
	Verifier      VerifyBackend
	Widget        Widget
	// Recorder is optional.
	Recorder ReceiptRecorder
}

type Config struct {
	Currency      string
	WidgetTimeout time.Duration
}

// Flow runs one checkout at a time: load script, create order, open the
// widget, verify, then clear the cart and notify.
type Flow struct {
	deps Deps
	cfg  Config
	busy atomic.Bool
	log  *zap.Logger
	now  func() time.Time
}

func NewFlow(deps Deps, cfg Config, log *zap.Logger) *Flow {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.WidgetTimeout <= 0 {
		cfg.WidgetTimeout = 15 * time.Minute
	}
	if deps.Toasts == nil {
		deps.Toasts = toast.Nop{}
	}
	return &Flow{deps: deps, cfg: cfg, log: log, now: time.Now}
}

// Busy reports whether a checkout is running.
func (f *Flow) Busy() bool {
	return f.busy.Load()
}

// Run performs a checkout of the current cart. A dismissed widget is reported
// as OutcomeCancelled with a nil error. The cart is cleared only after the
// payment has been verified.
func (f *Flow) Run(ctx context.Context) (res Result, err error) {
	if !f.busy.CompareAndSwap(false, true) {
		return Result{}, ErrCheckoutInProgress
	}
	defer f.busy.Store(false)
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("checkout panicked", zap.Any("panic", r), zap.Stack("stack"))
			res, err = Result{}, fmt.Errorf("%w: %v", ErrPayment, r)
		}
		if err != nil && !errors.Is(err, ErrEmptyCart) {
			f.deps.Toasts.Notify(toast.Signal{
				Title:    "Payment error",
				Message:  "There was an error processing your payment. Please try again.",
				Severity: domain.SeverityError,
			})
		}
	}()

	return f.run(ctx)
}

func (f *Flow) run(ctx context.Context) (Result, error) {
	lines := f.deps.Cart.Items()
	if len(lines) == 0 {
		return Result{}, ErrEmptyCart
	}
	user, _ := f.deps.Session.Current()
	receiptLines, total := domain.ReceiptLines(lines)
	log := f.log.With(zap.String("user_id", user.ID), zap.String("total", total.StringFixed(2)))

	if !f.deps.Loader.Loaded() {
		if err := f.deps.Loader.Load(ctx); err != nil {
			log.Error("payment script load failed", zap.Error(err))
			return Result{}, fmt.Errorf("%w: %w", ErrScriptLoad, err)
		}
	}

	order, err := f.deps.Orders.CreateOrder(ctx, OrderRequest{
		AmountMinor: domain.MinorUnits(total),
		Currency:    f.cfg.Currency,
		User:        Customer{ID: user.ID, Name: user.Name, Email: user.Email},
		Lines:       orderLines(lines),
	})
	if err != nil {
		log.Error("order creation failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrOrderCreation, err)
	}
	log = log.With(zap.String("order_id", order.OrderID))

	currency := order.Currency
	if currency == "" {
		currency = f.cfg.Currency
	}
	payment, paid, err := f.awaitWidget(ctx, WidgetOptions{
		PublicKey:   order.PublicKey,
		AmountMinor: order.AmountMinor,
		Currency:    currency,
		OrderID:     order.OrderID,
		Prefill:     Prefill{Name: user.Name, Email: user.Email},
	})
	if err != nil {
		log.Error("payment widget failed", zap.Error(err))
		return Result{}, err
	}
	if !paid {
		log.Info("payment cancelled by user")
		f.deps.Toasts.Notify(toast.Signal{
			Title:    "Payment cancelled",
			Message:  "You have cancelled the payment process.",
			Severity: domain.SeverityWarning,
		})
		return Result{Outcome: OutcomeCancelled}, nil
	}
	if payment.OrderID == "" {
		payment.OrderID = order.OrderID
	}

	if err := f.deps.Verifier.VerifyPayment(ctx, payment); err != nil {
		// never clear the cart on an unverified payment
		log.Error("payment verification failed", zap.String("payment_id", payment.PaymentID), zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}

	receipt := domain.Receipt{
		OrderID:   order.OrderID,
		PaymentID: payment.PaymentID,
		UserID:    user.ID,
		Lines:     receiptLines,
		Total:     total,
		Currency:  currency,
		CreatedAt: f.now().UTC(),
	}
	f.complete(ctx, log, lines, receipt, "Payment successful",
		fmt.Sprintf("Your order has been placed and payment processed. Order ID: %s...", shortID(order.OrderID)),
		domain.SeveritySuccess)

	log.Info("checkout completed", zap.String("payment_id", payment.PaymentID))
	return Result{Outcome: OutcomeCompleted, Receipt: &receipt}, nil
}

// RunTest completes a checkout without any payment collaborator, as the
// storefront's test payment button does.
func (f *Flow) RunTest(ctx context.Context) (Result, error) {
	if !f.busy.CompareAndSwap(false, true) {
		return Result{}, ErrCheckoutInProgress
	}
	defer f.busy.Store(false)

	lines := f.deps.Cart.Items()
	if len(lines) == 0 {
		return Result{}, ErrEmptyCart
	}
	user, _ := f.deps.Session.Current()
	receiptLines, total := domain.ReceiptLines(lines)

	receipt := domain.Receipt{
		OrderID:   "ORD-" + uuid.NewString(),
		PaymentID: "TEST-" + uuid.NewString(),
		UserID:    user.ID,
		Lines:     receiptLines,
		Total:     total,
		Currency:  f.cfg.Currency,
		CreatedAt: f.now().UTC(),
	}
	f.complete(ctx, f.log, lines, receipt, "Test payment successful",
		"This is a test payment. In a real application, you would be redirected to the payment gateway.",
		domain.SeverityInfo)
	return Result{Outcome: OutcomeCompleted, Receipt: &receipt}, nil
}

// complete runs the post-payment side effects. None of them can undo a
// verified payment, so failures are logged and the receipt still stands.
// They run detached from ctx: a caller going away after payment must not
// leave the paid lines in the cart.
func (f *Flow) complete(ctx context.Context, log *zap.Logger, paid []domain.CartLine, receipt domain.Receipt, title, message string, severity domain.Severity) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completeTimeout)
	defer cancel()

	if err := f.deps.Cart.RemovePurchased(ctx, paid); err != nil {
		log.Error("failed to clear cart after payment", zap.Error(err))
	}
	if _, err := f.deps.Notifications.Push(ctx, title, message, severity); err != nil {
		log.Error("failed to push payment notification", zap.Error(err))
	}
	if f.deps.Recorder != nil {
		if err := f.deps.Recorder.Record(ctx, receipt); err != nil {
			log.Warn("failed to record receipt", zap.Error(err))
		}
	}
}

func orderLines(lines []domain.CartLine) []OrderLine {
	out := make([]OrderLine, len(lines))
	for i, l := range lines {
		out[i] = OrderLine{ProductID: l.Product.ID, Quantity: l.Quantity, Price: l.Product.Price}
	}
	return out
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
