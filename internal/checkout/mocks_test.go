package checkout

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/internal/domain"
)

type MockLoader struct {
	mu      sync.Mutex
	loaded  bool
	LoadErr error
	Calls   int
}

func (m *MockLoader) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

func (m *MockLoader) Load(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.LoadErr != nil {
		return m.LoadErr
	}
	m.loaded = true
	return nil
}

type MockOrders struct {
	Order    Order
	Err      error
	Panic    any
	Requests []OrderRequest
}

func (m *MockOrders) CreateOrder(_ context.Context, req OrderRequest) (Order, error) {
	if m.Panic != nil {
		panic(m.Panic)
	}
	m.Requests = append(m.Requests, req)
	return m.Order, m.Err
}

type MockVerifier struct {
	Err      error
	OnVerify func()
	Verified []PaymentResult
}

func (m *MockVerifier) VerifyPayment(_ context.Context, p PaymentResult) error {
	if m.OnVerify != nil {
		m.OnVerify()
	}
	m.Verified = append(m.Verified, p)
	return m.Err
}

// MockWidget runs Script on its own goroutine after Open, like a real widget
// calling back from the UI thread.
type MockWidget struct {
	mu      sync.Mutex
	OpenErr error
	Script  func(cb Callbacks)
	Opened  []WidgetOptions
}

func (m *MockWidget) Open(_ context.Context, opts WidgetOptions, cb Callbacks) error {
	m.mu.Lock()
	m.Opened = append(m.Opened, opts)
	m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	if m.Script != nil {
		go m.Script(cb)
	}
	return nil
}

func (m *MockWidget) OpenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Opened)
}

func succeed(paymentID string) func(cb Callbacks) {
	return func(cb Callbacks) {
		cb.OnSuccess(PaymentResult{PaymentID: paymentID, Signature: "sig"})
	}
}

func dismiss(cb Callbacks) {
	cb.OnDismiss()
}

type MockSession struct {
	User *domain.User
}

func (m *MockSession) Current() (domain.User, bool) {
	if m.User == nil {
		return domain.User{}, false
	}
	return *m.User, true
}

type MockRecorder struct {
	mu       sync.Mutex
	Err      error
	Receipts []domain.Receipt
}

func (m *MockRecorder) Record(_ context.Context, r domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Receipts = append(m.Receipts, r)
	return m.Err
}
