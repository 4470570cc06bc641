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

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	"portfolio-backend/internal/delivery/http/middleware"
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/lock"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/notify"
	"portfolio-backend/pkg/redis"
	"portfolio-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Portfolio Backend API
// @version         1.0
// @description     Contact form service for the portfolio site.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting portfolio backend", "port", cfg.Port, "env", cfg.AppEnv, "email_provider", cfg.EmailProvider)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	audit := security.InitSecurityLogger("portfolio-backend", cfg.AppEnv)
	defer func() { _ = audit.Sync() }()

	ctx := context.Background()

	// 3. Setup Redis (optional)
	var redisClient *goredis.Client
	var redisPing usecase.Pinger
	redisClient, err = redis.Connect(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Warn("Redis not configured, using in-memory rate limits and submit locks")
	case err != nil:
		logger.Log.Warn("Redis unavailable, using in-memory rate limits and submit locks", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
		redisPing = func(ctx context.Context) error { return redis.HealthCheck(ctx, redisClient) }
		logger.Log.Info("Connected to Redis")
	}

	// 4. Setup Email Sender
	sender, err := email.NewSender(ctx, email.Options{
		Provider: cfg.EmailProvider,
		EmailJS: email.EmailJSOptions{
			Endpoint: cfg.EmailJSAPIURL,
			Origin:   cfg.SiteURL,
		},
		SMTP: email.SMTPOptions{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.SMTPFromEmail,
			ToEmail:   cfg.ContactEmailTo,
		},
		SES: email.SESOptions{
			Region:    cfg.AWSRegion,
			AccessKey: cfg.AWSAccessKeyID,
			SecretKey: cfg.AWSSecretAccessKey,
			FromEmail: cfg.SESFromEmail,
			ToEmail:   cfg.ContactEmailTo,
		},
	})
	if err != nil {
		logger.Log.Error("Failed to set up email sender", "error", err)
		os.Exit(1)
	}
	if err := sender.CheckConfig(cfg.Delivery()); err != nil {
		logger.Log.Warn("Email delivery not fully configured - contact submissions will fail", "provider", sender.Name(), "error", err)
	}

	// 5. Setup UseCases
	contactUC := usecase.NewContactUsecase(usecase.ContactDeps{
		Sender:   sender,
		Guard:    lock.New(redisClient, cfg.SubmitLockTTL()),
		Delivery: cfg.Delivery(),
		Services: cfg.Services,
		Profile:  cfg.Profile(),
		Audit:    audit,
	})
	healthUC := usecase.NewHealthUsecase(sender, cfg.Delivery(), redisPing)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:   contactUC,
		HealthUC:    healthUC,
		Notifier:    notify.NewLogNotifier(logger.Log),
		RateLimiter: middleware.NewRateLimiter(redisClient, audit),
		Audit:       audit,
		Config:      cfg,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
