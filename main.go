package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"contact-relay/pkg/api"
	"contact-relay/pkg/clients/twilio"
	"contact-relay/pkg/config"
	"contact-relay/pkg/logger"
	"contact-relay/pkg/metrics"
	"contact-relay/pkg/services"
	"contact-relay/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	sugar, err := logger.New(logger.Config{
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.SafeSync(sugar)

	if err := run(cfg, sugar); err != nil {
		sugar.Errorw("Server stopped with error", "error", err)
		logger.SafeSync(sugar)
		os.Exit(1)
	}
}

func run(cfg *config.Config, sugar *zap.SugaredLogger) error {
	warnOnSuspiciousNumbers(cfg, sugar)

	// Initialize API clients
	twilioClient := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken)
	m := metrics.New(nil)

	// Initialize services
	relayService := services.NewContactRelayService(twilioClient, cfg, sugar, m)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := api.NewHandlers(relayService, sugar, m, cfg.IsDevelopment())
	router, err := api.NewRouter(cfg, handlers, sugar, m)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("Server is running",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"sms_from", cfg.TwilioPhoneNumber,
			"business_phone_hash", utils.PhoneFingerprint(cfg.BusinessPhone),
			"whatsapp_template", cfg.WhatsAppContentSID != "",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Info("Shutdown signal received: closing HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("error shutting down server: %w", err)
		}
		sugar.Info("HTTP server closed")
		return nil
	})

	return g.Wait()
}

func warnOnSuspiciousNumbers(cfg *config.Config, sugar *zap.SugaredLogger) {
	if !utils.IsValidInternational(cfg.BusinessPhone) {
		sugar.Warnw("MY_PHONE_NUMBER does not look like a valid phone number", "normalized", utils.Normalize(cfg.BusinessPhone))
	}
	if !utils.IsValidInternational(cfg.PartnerWhatsApp) {
		sugar.Warnw("PARTNER_WHATSAPP does not look like a valid phone number")
	}
	if !utils.IsValidInternational(cfg.TwilioPhoneNumber) {
		sugar.Warnw("TWILIO_PHONE_NUMBER does not look like a valid phone number")
	}
}
