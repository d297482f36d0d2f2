package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/notification"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/session"
	"github.com/fjod/go_storefront/internal/toast"
	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.Log.Format,
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
		Service:  cfg.App.Name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	if err := run(cfg, log); err != nil {
		log.Error("storefront stopped with error", zap.Error(err))
		_ = logger.Sync(log)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	storage, closeStorage, err := openStorage(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeStorage()

	broadcaster := toast.NewBroadcaster(32, log)
	toasts := toast.Multi{broadcaster, toast.NewLogSurface(log.Named("toast"))}

	products, err := catalog.New(ctx, storage, catalog.Fixture(), log.Named("catalog"))
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	cartStore, err := cart.New(ctx, storage, toasts, log.Named("cart"))
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	notifications, err := notification.New(ctx, storage, toasts, log.Named("notification"))
	if err != nil {
		return fmt.Errorf("load notifications: %w", err)
	}
	sess, err := session.New(ctx, storage, session.Fixture(), toasts, log.Named("session"))
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	receipts, err := openOrders(ctx, cfg.Orders, log.Named("orders"))
	if err != nil {
		return err
	}
	defer receipts.Close(log)

	var wg sync.WaitGroup
	consumerCtx, consumerCancel := context.WithCancel(ctx)
	defer consumerCancel()
	if receipts.consumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			receipts.consumer.Run(consumerCtx)
		}()
	}

	pay := newPaymentStack(cfg, log.Named("payment"))

	flow := checkout.NewFlow(checkout.Deps{
		Cart:          cartStore,
		Session:       sess,
		Notifications: notifications,
		Toasts:        toasts,
		Loader:        pay.loader,
		Orders:        pay.orders,
		Verifier:      pay.verifier,
		Widget:        pay.widget,
		Recorder:      receipts.recorder,
	}, checkout.Config{
		Currency:      cfg.Payment.Currency,
		WidgetTimeout: cfg.Checkout.WidgetTimeout,
	}, log.Named("checkout"))

	router := h.NewRouter(h.Deps{
		Catalog:       products,
		Cart:          cartStore,
		Notifications: notifications,
		Session:       sess,
		Checkout:      flow,
		History:       receipts.history,
		Toasts:        broadcaster,
		Payments:      pay.handler,
	}, h.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		RateLimit:      cfg.RateLimit,
	}, log.Named("http"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	grpcServer, healthServer := newGRPCServer(cfg.App.Name)

	lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on grpc port: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info("storefront http listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		log.Info("storefront grpc health listening", zap.String("port", cfg.GRPC.Port))
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server failed, shutting down", zap.Error(err))
	}

	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	grpcServer.GracefulStop()

	consumerCancel()
	wg.Wait()
	log.Info("storefront stopped")
	return nil
}

// receiptSinks is the wired receipt history: where checkout records, where
// the orders endpoint reads, and the optional event consumer between them.
type receiptSinks struct {
	history  orders.History
	recorder *orders.Recorder
	consumer *orders.Consumer
	closers  []io.Closer
}

func (r *receiptSinks) Close(log *zap.Logger) {
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			log.Warn("failed to close receipt sink", zap.Error(err))
		}
	}
}

// openOrders wires the receipt sinks. Without a database the history lives in
// memory for the life of the process. With consume_events the history is fed
// from the receipt topic rather than written directly.
func openOrders(ctx context.Context, cfg config.OrdersConfig, log *zap.Logger) (*receiptSinks, error) {
	var (
		repo  orders.Repository
		sinks []checkout.ReceiptRecorder
		out   receiptSinks
	)

	if cfg.PostgresDSN != "" {
		pg, err := orders.NewPostgresRepository(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return nil, err
		}
		if err := pg.RunMigrations(); err != nil {
			_ = pg.Close()
			return nil, err
		}
		repo = pg
		out.closers = append(out.closers, pg)
	} else {
		repo = orders.NewMemoryRepository()
	}
	out.history = repo

	if len(cfg.KafkaBrokers) > 0 {
		pub := orders.NewKafkaPublisher(cfg.KafkaTopic, log, cfg.KafkaBrokers...)
		sinks = append(sinks, pub)
		out.closers = append(out.closers, pub)
		log.Info("publishing receipts to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	if cfg.ConsumeEvents {
		out.consumer = orders.NewConsumer(repo, cfg.KafkaTopic, cfg.ConsumerGroup, log, cfg.KafkaBrokers...)
		out.closers = append(out.closers, out.consumer)
	} else {
		sinks = append(sinks, repo)
	}

	out.recorder = orders.NewRecorder(log, sinks...)
	return &out, nil
}
