package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"subscription-server/pkg/api"
	"subscription-server/pkg/clients/hubspot"
	"subscription-server/pkg/config"
	"subscription-server/pkg/logger"
	"subscription-server/pkg/metrics"
	"subscription-server/pkg/payments"
	"subscription-server/pkg/services"
)

func main() {
	// .env is optional; real environment variables win
	envErr := godotenv.Load()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	if envErr != nil {
		lg.Debug("no .env file loaded", zap.Error(envErr))
	}
	if !cfg.HasHubSpotToken() {
		lg.Warn("HUBSPOT_TOKEN is not set, CRM contacts will not be created")
	}
	lg.Info("HubSpot portal configured", zap.String("portal_id", cfg.HubSpotPortalID))

	links, err := loadPaymentLinks(cfg)
	if err != nil {
		lg.Fatal("failed to load payment links", zap.Error(err))
	}
	lg.Info("payment links loaded", zap.Int("count", links.Len()))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Initialize API clients
	hubspotClient := hubspot.NewClient(cfg.HubSpotToken, hubspot.WithBaseURL(cfg.HubSpotBaseURL))

	// Initialize services
	subscriptionService := services.NewSubscriptionService(hubspotClient, links, m, lg)

	gin.SetMode(cfg.GinMode)

	handlers := api.NewHandlers(subscriptionService, m, lg)
	router := api.NewRouter(handlers, registry, lg)

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("error starting server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Warn("http server shutdown failed", zap.Error(err))
	}
}

// loadPaymentLinks builds the link table from the compiled-in defaults and the
// optional PAYMENT_LINKS_FILE overlay.
func loadPaymentLinks(cfg *config.Config) (*payments.Table, error) {
	links := payments.DefaultLinks()
	if cfg.PaymentLinksFile != "" {
		extra, err := payments.LoadFile(cfg.PaymentLinksFile)
		if err != nil {
			return nil, err
		}
		links = payments.Merge(links, extra)
	}
	return payments.NewTable(links), nil
}
