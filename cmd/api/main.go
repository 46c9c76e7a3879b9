package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neurogrid-backend/internal/client"
	"neurogrid-backend/internal/config"
	"neurogrid-backend/internal/logger"
	"neurogrid-backend/internal/metrics"
	"neurogrid-backend/internal/notifier"
	"neurogrid-backend/internal/repository"
	"neurogrid-backend/internal/server"
	"neurogrid-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log = log.With(zap.String("env", cfg.Environment.Name))
	metrics.Register()

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatal("Failed to init database", zap.Error(err))
	}

	courseRepo := repository.NewCourseRepository(db)
	if cfg.Database.Seed {
		if err := courseRepo.Seed(context.Background()); err != nil {
			log.Fatal("Failed to seed courses", zap.Error(err))
		}
	}

	events := notifier.NewLogNotifier(log)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := notifier.InitProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to init kafka producer", zap.Error(err))
		}
		defer producer.Close()
		events = notifier.NewKafkaNotifier(producer, cfg.Kafka.Topic, log)
	}

	stripeClient := client.NewStripeClient(&cfg.Stripe)

	paymentRepo := repository.NewPaymentRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	progressRepo := repository.NewProgressRepository(db)

	checkoutService := service.NewCheckoutService(
		db, stripeClient, cfg.Checkout,
		paymentRepo,
		entitlementRepo,
		enrollmentRepo,
		bookingRepo,
		events,
		log,
	)
	progressService := service.NewProgressService(progressRepo, courseRepo, events, cfg.Retry, log)
	courseService := service.NewCourseService(courseRepo, entitlementRepo, progressService)
	bookingService := service.NewBookingService(bookingRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(checkoutService, courseService, bookingService, []byte(cfg.Auth.JWTSecret), log)

	log.Info("Starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
