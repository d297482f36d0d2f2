package http

import (
	"context"
	"net/http"

	"github.com/fjod/go_storefront/internal/checkout"
	"go.uber.org/zap"
)

// CheckoutRunner is what the handler needs from checkout.Flow.
type CheckoutRunner interface {
	Run(ctx context.Context) (checkout.Result, error)
	RunTest(ctx context.Context) (checkout.Result, error)
	Busy() bool
}

type CheckoutHandler struct {
	flow CheckoutRunner
	log  *zap.Logger
}

func NewCheckoutHandler(flow CheckoutRunner, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{flow: flow, log: log}
}

type CheckoutStatusDTO struct {
	Busy bool `json:"busy"`
}

// POST /api/v1/checkout. Blocks until the widget reports back, so the route
// sits outside the request timeout.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.flow.Run)
}

// POST /api/v1/checkout/test
func (h *CheckoutHandler) TestCheckout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.flow.RunTest)
}

// GET /api/v1/checkout
func (h *CheckoutHandler) Status(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, CheckoutStatusDTO{Busy: h.flow.Busy()})
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, run func(context.Context) (checkout.Result, error)) {
	res, err := run(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}
