package http

import (
	"net/http"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/notification"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/session"
	"github.com/fjod/go_storefront/internal/toast"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Deps are the stores and services the API exposes. Payments and History may
// be nil, in which case their routes are not mounted.
type Deps struct {
	Catalog       *catalog.Store
	Cart          *cart.Store
	Notifications *notification.Store
	Session       *session.Store
	Checkout      CheckoutRunner
	History       orders.History
	Toasts        *toast.Broadcaster
	Payments      http.Handler
}

type RouterConfig struct {
	RequestTimeout time.Duration
	RateLimit      config.RateLimitConfig
}

func NewRouter(deps Deps, cfg RouterConfig, log *zap.Logger) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	catalogHandler := NewCatalogHandler(deps.Catalog, log)
	adminHandler := NewAdminHandler(deps.Catalog, deps.Notifications, log)
	cartHandler := NewCartHandler(deps.Cart, deps.Catalog, log)
	notificationHandler := NewNotificationHandler(deps.Notifications, log)
	sessionHandler := NewSessionHandler(deps.Session, log)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, log)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(RecoveryMiddleware(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Long-lived: the checkout waits on the widget, the toast stream
		// stays open.
		r.Post("/checkout", checkoutHandler.Checkout)
		if deps.Toasts != nil {
			r.Get("/toasts", NewToastHandler(deps.Toasts, log).Stream)
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
			r.Use(middleware.Compress(5))

			r.Get("/checkout", checkoutHandler.Status)
			r.Post("/checkout/test", checkoutHandler.TestCheckout)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", catalogHandler.ListProducts)
				r.Get("/featured", catalogHandler.Featured)
				r.Get("/categories", catalogHandler.Categories)
				r.Get("/tags", catalogHandler.Tags)
				r.Get("/{id}", catalogHandler.GetProduct)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireAdmin(deps.Session))
				r.Post("/products", adminHandler.AddProduct)
				r.Patch("/products/{id}", adminHandler.UpdateProduct)
				r.Delete("/products/{id}", adminHandler.DeleteProduct)
				r.Get("/stats", adminHandler.Stats)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Delete("/", notificationHandler.Clear)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Post("/{id}/read", notificationHandler.MarkRead)
			})

			r.Route("/session", func(r chi.Router) {
				r.Get("/", sessionHandler.Current)
				r.Delete("/", sessionHandler.Logout)
				r.Post("/register", sessionHandler.Register)
				r.Patch("/profile", sessionHandler.UpdateProfile)
				if cfg.RateLimit.Enabled {
					r.With(NewRateLimiter(cfg.RateLimit.Rate, cfg.RateLimit.Burst).Middleware).
						Post("/login", sessionHandler.Login)
				} else {
					r.Post("/login", sessionHandler.Login)
				}
			})

			if deps.History != nil {
				r.Get("/orders", NewOrdersHandler(deps.History, deps.Session, log).ListOrders)
			}
			if deps.Payments != nil {
				r.Mount("/payments", deps.Payments)
			}
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
