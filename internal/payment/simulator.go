package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type simulatedOrder struct {
	order     checkout.Order
	createdAt time.Time
}

// Signer signs payments with HMAC-SHA256 over "orderID|paymentID".
type Signer struct {
	secret []byte
}

func NewSigner(secret string) Signer {
	return Signer{secret: []byte(secret)}
}

func (s Signer) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

// Settle returns the signed result a widget reports for a paid order.
func (s Signer) Settle(orderID string) checkout.PaymentResult {
	paymentID := "pay_" + compactID()
	return checkout.PaymentResult{
		PaymentID: paymentID,
		OrderID:   orderID,
		Signature: s.Sign(orderID, paymentID),
	}
}

// Simulator is an in-process order and verify backend sharing its secret
// with the widget's Signer.
type Simulator struct {
	Signer
	mu        sync.Mutex
	orders    map[string]*simulatedOrder
	publicKey string
	currency  string
	log       *zap.Logger
	now       func() time.Time
}

func NewSimulator(secret, publicKey, currency string, log *zap.Logger) *Simulator {
	return &Simulator{
		Signer:    NewSigner(secret),
		orders:    make(map[string]*simulatedOrder),
		publicKey: publicKey,
		currency:  currency,
		log:       log,
		now:       time.Now,
	}
}

func (s *Simulator) CreateOrder(_ context.Context, req checkout.OrderRequest) (checkout.Order, error) {
	if req.AmountMinor <= 0 {
		return checkout.Order{}, ErrInvalidAmount
	}
	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}

	order := checkout.Order{
		OrderID:     "order_" + compactID(),
		PublicKey:   s.publicKey,
		AmountMinor: req.AmountMinor,
		Currency:    currency,
	}

	s.mu.Lock()
	s.orders[order.OrderID] = &simulatedOrder{order: order, createdAt: s.now()}
	s.mu.Unlock()

	s.log.Info("simulated order created",
		zap.String("order_id", order.OrderID),
		zap.Int64("amount", order.AmountMinor),
		zap.String("currency", order.Currency),
		zap.String("user_id", req.User.ID),
	)
	return order, nil
}

// VerifyPayment settles an order once. A verified order is forgotten, so a
// replayed result reports ErrUnknownOrder.
func (s *Simulator) VerifyPayment(_ context.Context, p checkout.PaymentResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[p.OrderID]; !ok {
		return ErrUnknownOrder
	}

	want := s.Sign(p.OrderID, p.PaymentID)
	if !hmac.Equal([]byte(want), []byte(p.Signature)) {
		s.log.Warn("payment signature mismatch",
			zap.String("order_id", p.OrderID),
			zap.String("payment_id", p.PaymentID),
		)
		return ErrInvalidSignature
	}
	delete(s.orders, p.OrderID)
	return nil
}

func compactID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:14]
}

var (
	_ checkout.OrderBackend  = (*Simulator)(nil)
	_ checkout.VerifyBackend = (*Simulator)(nil)
)
