package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/payments"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/telemetry"
)

const sweepInterval = time.Minute

func serveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configFile)
		},
	}
}

func newStripe(cfg config.Config, logger logrus.FieldLogger) *payments.Stripe {
	return payments.NewStripe(payments.StripeConfig{
		SecretKey:  cfg.StripeSecret,
		BaseURL:    cfg.StripeAPIURL,
		HTTPClient: &http.Client{Timeout: cfg.UpstreamTimeout},
		Logger:     logger.WithField("component", "stripe"),
	})
}

func runServe(cmd *cobra.Command, configFile string) error {
	cfg, logger, err := setup(configFile)
	if err != nil {
		return err
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- tracing ---
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, Version)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.WithError(err).Warn("tracing shutdown")
		}
	}()

	// --- provider ---
	if cfg.StripeSecret == "" {
		logger.Warn("STRIPE_SECRET is empty; catalog and checkout calls will fail")
	}
	stripe := newStripe(cfg, logger)

	// --- optional ledger ---
	var ledger checkout.Recorder
	if cfg.DatabaseDSN != "" {
		if cfg.RunMigrations {
			if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
				return err
			}
		}
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		ledger = checkout.NewPostgresLedger(pool)
		logger.Info("checkout ledger enabled")
	}

	// --- optional events ---
	var publisher checkout.EventPublisher
	if cfg.RabbitMQURL != "" {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			return err
		}
		defer pub.Close()
		publisher = pub
		logger.Info("checkout events enabled")
	}

	carts := cart.NewSessions(cfg.SessionTTL, cart.WithNotificationTTL(cfg.NotificationTTL))
	svc := checkout.NewService(stripe, ledger, publisher, logger.WithField("component", "checkout"))

	h := httpapi.NewHandler(logger, catalog.NewLoader(stripe), carts, svc, httpapi.HandlerConfig{
		BaseURL:       cfg.BaseURL,
		RedirectDelay: cfg.RedirectDelay,
	})
	router := httpapi.NewRouter(h, logger, httpapi.RouterConfig{
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		SessionTTL:       cfg.SessionTTL,
		SoundsDir:        cfg.SoundsDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return carts.Run(gctx, sweepInterval, func(evicted int) {
			logger.WithField("evicted", evicted).Info("swept idle carts")
		})
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
