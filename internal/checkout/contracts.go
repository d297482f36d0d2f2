package checkout

import (
	"context"

	"github.com/fjod/go_storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// ScriptLoader makes the payment widget's client library available.
type ScriptLoader interface {
	Loaded() bool
	Load(ctx context.Context) error
}

type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderRequest struct {
	AmountMinor int64       `json:"amount"`
	Currency    string      `json:"currency"`
	User        Customer    `json:"user"`
	Lines       []OrderLine `json:"lines"`
}

// Order is the backend's answer to an OrderRequest.
type Order struct {
	OrderID     string `json:"orderId"`
	PublicKey   string `json:"key"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
}

type OrderBackend interface {
	CreateOrder(ctx context.Context, req OrderRequest) (Order, error)
}

// PaymentResult is what the widget reports on success and what the verify
// backend checks.
type PaymentResult struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}

// VerifyBackend returns nil only for a confirmed payment.
type VerifyBackend interface {
	VerifyPayment(ctx context.Context, p PaymentResult) error
}

type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type WidgetOptions struct {
	PublicKey   string  `json:"key"`
	AmountMinor int64   `json:"amount"`
	Currency    string  `json:"currency"`
	OrderID     string  `json:"order_id"`
	Prefill     Prefill `json:"prefill"`
}

// Callbacks are handed to the widget. A well behaved widget calls exactly one
// of them once; Flow tolerates widgets that do not.
type Callbacks struct {
	OnSuccess func(PaymentResult)
	OnDismiss func()
}

// Widget opens the payment UI. Open returns once the UI is shown; the outcome
// arrives later through cb.
type Widget interface {
	Open(ctx context.Context, opts WidgetOptions, cb Callbacks) error
}

// Cart is the part of the cart store checkout needs.
type Cart interface {
	Items() []domain.CartLine
	RemovePurchased(ctx context.Context, purchased []domain.CartLine) error
}

type Session interface {
	Current() (domain.User, bool)
}

type Notifier interface {
	Push(ctx context.Context, title, message string, severity domain.Severity) (domain.Notification, error)
}

// ReceiptRecorder keeps completed receipts somewhere durable.
type ReceiptRecorder interface {
	Record(ctx context.Context, r domain.Receipt) error
}
