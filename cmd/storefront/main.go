package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nickgiresse/patis-t/internal/auth"
	"github.com/Nickgiresse/patis-t/internal/cart"
	"github.com/Nickgiresse/patis-t/internal/catalog"
	"github.com/Nickgiresse/patis-t/internal/checkout"
	"github.com/Nickgiresse/patis-t/internal/config"
	"github.com/Nickgiresse/patis-t/internal/db"
	"github.com/Nickgiresse/patis-t/internal/events"
	httpapi "github.com/Nickgiresse/patis-t/internal/http"
	"github.com/Nickgiresse/patis-t/internal/invoice"
	"github.com/Nickgiresse/patis-t/internal/kv"
	"github.com/Nickgiresse/patis-t/internal/notify"
	"github.com/Nickgiresse/patis-t/internal/order"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	store := kv.NewStore(pool)
	catalogRepo := catalog.NewKVRepository(store)
	orderRepo := order.NewKVRepository(store)
	carts := cart.NewStore()
	authSvc := auth.NewService(store, cfg.TokenTTL)

	// --- invoices ---
	invoices, err := invoice.NewDirStore(cfg.InvoiceDir)
	if err != nil {
		logger.Fatalf("invoice store: %v", err)
	}
	renderer := invoice.NewRenderer(invoice.DefaultVendor)

	// --- AMQP (optional) ---
	var publisher checkout.Publisher = events.NopPublisher{}
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("rabbitmq connect: %v", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatalf("rabbitmq publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	checkoutSvc := checkout.NewService(
		catalogRepo, orderRepo, carts,
		renderer, invoices,
		notify.NewWhatsApp(cfg.WhatsAppPhone),
		publisher, logger,
	)

	// --- HTTP ---
	h := httpapi.NewHandler(catalogRepo, orderRepo, carts, checkoutSvc, authSvc, invoices)
	r := httpapi.NewRouter(h, cfg.CORSAllowOrigins)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Printf("http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	cancel()

	logger.Printf("shutdown complete")
}
