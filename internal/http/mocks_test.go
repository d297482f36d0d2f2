package http

import (
	"context"
	"sync/atomic"

	"github.com/fjod/go_storefront/internal/checkout"
)

type MockCheckout struct {
	Result  checkout.Result
	Err     error
	Calls   atomic.Int32
	Testing atomic.Int32
	IsBusy  bool
}

func (m *MockCheckout) Run(context.Context) (checkout.Result, error) {
	m.Calls.Add(1)
	return m.Result, m.Err
}

func (m *MockCheckout) RunTest(context.Context) (checkout.Result, error) {
	m.Testing.Add(1)
	return m.Result, m.Err
}

func (m *MockCheckout) Busy() bool { return m.IsBusy }
