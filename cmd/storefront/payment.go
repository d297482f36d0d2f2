package main

import (
	"net/http"

	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/payment"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type paymentStack struct {
	loader   checkout.ScriptLoader
	orders   checkout.OrderBackend
	verifier checkout.VerifyBackend
	widget   checkout.Widget
	// handler serves the simulator over HTTP; nil in http mode.
	handler http.Handler
}

// newPaymentStack builds the payment collaborators. In simulated mode the
// order and verify backends run in process and the script is fetched from
// this server's own simulator routes.
func newPaymentStack(cfg *config.Config, log *zap.Logger) paymentStack {
	scriptClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.Payment.Timeout,
	}
	decider := payment.NewDecider(cfg.Payment.Decision)

	if cfg.Payment.Mode == "http" {
		client := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.Timeout, log)
		return paymentStack{
			loader:   payment.NewHTTPScriptLoader(scriptClient, cfg.Payment.ScriptURL, log),
			orders:   client,
			verifier: client,
			widget:   payment.NewSimulatedWidget(payment.NewSigner(cfg.Payment.Secret), decider, cfg.Payment.WidgetDelay, log),
		}
	}

	sim := payment.NewSimulator(cfg.Payment.Secret, cfg.Payment.PublicKey, cfg.Payment.Currency, log)
	scriptURL := "http://localhost:" + cfg.Server.Port + "/api/v1/payments/checkout.js"
	log.Info("using simulated payment backend", zap.String("decision", cfg.Payment.Decision))
	return paymentStack{
		loader:   payment.NewHTTPScriptLoader(scriptClient, scriptURL, log),
		orders:   sim,
		verifier: sim,
		widget:   payment.NewSimulatedWidget(sim.Signer, decider, cfg.Payment.WidgetDelay, log),
		handler:  payment.NewHandler(sim, log).Routes(),
	}
}
