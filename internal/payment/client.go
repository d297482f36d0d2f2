package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Client talks to an order/verify backend over JSON. It serves as both
// checkout.OrderBackend and checkout.VerifyBackend.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	timeout time.Duration
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	cfg := circuitbreaker.DefaultConfig("payment-backend")
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrRejected)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		breaker: circuitbreaker.New[[]byte](cfg, log),
		timeout: timeout,
		log:     log,
	}
}

func (c *Client) CreateOrder(ctx context.Context, req checkout.OrderRequest) (checkout.Order, error) {
	var order checkout.Order
	if err := c.post(ctx, "/orders", req, &order); err != nil {
		return checkout.Order{}, err
	}
	if order.OrderID == "" {
		return checkout.Order{}, fmt.Errorf("create order: backend returned no order id")
	}
	return order, nil
}

type verifyResponse struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

func (c *Client) VerifyPayment(ctx context.Context, p checkout.PaymentResult) error {
	var resp verifyResponse
	if err := c.post(ctx, "/verify", p, &resp); err != nil {
		return err
	}
	if !resp.Verified {
		return fmt.Errorf("%w: %s", ErrNotVerified, resp.Reason)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, err
		}
		switch {
		case resp.StatusCode >= 500:
			return nil, fmt.Errorf("payment backend %s: status %d", path, resp.StatusCode)
		case resp.StatusCode >= 400:
			return nil, fmt.Errorf("%w: %s: status %d: %s", ErrRejected, path, resp.StatusCode, bytes.TrimSpace(data))
		}
		return data, nil
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			c.log.Warn("payment backend call refused by circuit breaker", zap.String("path", path))
		}
		return fmt.Errorf("payment backend %s: %w", path, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

var (
	_ checkout.OrderBackend  = (*Client)(nil)
	_ checkout.VerifyBackend = (*Client)(nil)
)
