package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckout_Completed(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	ts.checkout.Result = checkout.Result{
		Outcome: checkout.OutcomeCompleted,
		Receipt: &domain.Receipt{OrderID: "order_1", PaymentID: "pay_1", Total: decimal.RequireFromString("99.98"), Currency: "INR"},
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[checkout.Result](t, rec)
	assert.Equal(t, checkout.OutcomeCompleted, got.Outcome)
	require.NotNil(t, got.Receipt)
	assert.Equal(t, "pay_1", got.Receipt.PaymentID)
	assert.Equal(t, int32(1), ts.checkout.Calls.Load())
}

func TestCheckout_Cancelled(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	ts.checkout.Result = checkout.Result{Outcome: checkout.OutcomeCancelled}

	rec := ts.do(t, http.MethodPost, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[checkout.Result](t, rec)
	assert.Equal(t, checkout.OutcomeCancelled, got.Outcome)
	assert.Nil(t, got.Receipt)
}

func TestCheckout_Errors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{checkout.ErrEmptyCart, http.StatusConflict, "empty_cart"},
		{checkout.ErrCheckoutInProgress, http.StatusConflict, "checkout_in_progress"},
		{fmt.Errorf("%w: bad signature", checkout.ErrVerificationFailed), http.StatusPaymentRequired, "verification_failed"},
		{checkout.ErrWidgetTimeout, http.StatusGatewayTimeout, "timeout"},
		{fmt.Errorf("%w: backend down", checkout.ErrOrderCreation), http.StatusBadGateway, "external_failure"},
		{checkout.ErrScriptLoad, http.StatusBadGateway, "external_failure"},
		{checkout.ErrPayment, http.StatusBadGateway, "external_failure"},
	}
	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.err.Error(), func(t *testing.T) {
			ts := newTestServer(t, config.RateLimitConfig{})
			ts.checkout.Err = tt.err

			rec := ts.do(t, http.MethodPost, "/api/v1/checkout", nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Code)
		})
	}
}

func TestCheckout_TestPathAndStatus(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	ts.checkout.Result = checkout.Result{Outcome: checkout.OutcomeCompleted, Receipt: &domain.Receipt{PaymentID: "TEST-1"}}
	ts.checkout.IsBusy = true

	rec := ts.do(t, http.MethodPost, "/api/v1/checkout/test", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int32(1), ts.checkout.Testing.Load())
	assert.Equal(t, int32(0), ts.checkout.Calls.Load())

	rec = ts.do(t, http.MethodGet, "/api/v1/checkout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[CheckoutStatusDTO](t, rec).Busy)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"credentials", session.ErrInvalidCredentials, http.StatusUnauthorized},
		{"not authenticated", session.ErrNotAuthenticated, http.StatusUnauthorized},
		{"email in use", session.ErrEmailInUse, http.StatusConflict},
		{"duplicate receipt", orders.ErrDuplicateReceipt, http.StatusConflict},
		{"not found", fmt.Errorf("wrap: %w", domain.ErrNotFound), http.StatusNotFound},
		{"validation", session.ErrInvalidInput, http.StatusBadRequest},
		{"external", domain.ErrExternal, http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestInternalErrorHidesDetails(t *testing.T) {
	ts := newTestServer(t, config.RateLimitConfig{})
	ts.checkout.Err = errors.New("secret internals")

	rec := ts.do(t, http.MethodPost, "/api/v1/checkout", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode[ErrorResponse](t, rec).Error)
}
