package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/zvrva/skyfare/config"
	"github.com/zvrva/skyfare/internal/bootstrap"
	"github.com/zvrva/skyfare/internal/cache"
	"github.com/zvrva/skyfare/internal/kafka"
	"github.com/zvrva/skyfare/internal/repository"
	"github.com/zvrva/skyfare/internal/service/booking"
	"github.com/zvrva/skyfare/internal/service/flights"
	"github.com/zvrva/skyfare/internal/service/pricing"
	"github.com/zvrva/skyfare/internal/service/wallet"
	"github.com/zvrva/skyfare/internal/storage"
	"github.com/zvrva/skyfare/internal/ticket"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Worker.FlightsCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	ticketStore, err := storage.NewFileStore(cfg.Tickets.Dir)
	if err != nil {
		logger.WithError(err).Fatal("init ticket store")
	}

	walletRepo := repository.NewWalletRepository(pool, cfg.Wallet.StartingBalance, cfg.Wallet.Currency)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	surgeRepo := repository.NewSurgeRepository(pool)

	ledger := wallet.NewWalletService(walletRepo, logger)
	tracker := pricing.NewAttemptTracker(
		attemptRepo,
		time.Duration(cfg.Pricing.AttemptWindowMinutes)*time.Minute,
		time.Duration(cfg.Pricing.AttemptRetentionMinutes)*time.Minute,
	)
	engine := pricing.NewSurgeEngine(
		surgeRepo,
		tracker,
		cfg.Pricing.SurgeThreshold,
		cfg.Pricing.SurgeMultiplier,
		time.Duration(cfg.Pricing.SurgeTTLMinutes)*time.Minute,
		logger,
		pricing.WithEventPublisher(producer, cfg.Kafka.BookingEventsTopic),
	)
	flightService := flights.NewFlightService(flightRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		ledger,
		engine,
		ticket.NewTextRenderer(),
		ticketStore,
		logger,
		booking.WithEventPublisher(producer, cfg.Kafka.BookingEventsTopic),
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService, engine, ledger); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}
