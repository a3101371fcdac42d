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
	"github.com/zvrva/skyfare/internal/email"
	"github.com/zvrva/skyfare/internal/kafka"
	"github.com/zvrva/skyfare/internal/repository"
	"github.com/zvrva/skyfare/internal/service/pricing"
)

// surgePurgeBuffer keeps expired surge rows around briefly before physical
// deletion; price reads already treat them as inert.
const surgePurgeBuffer = time.Minute

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	attemptRepo := repository.NewAttemptRepository(pool)
	surgeRepo := repository.NewSurgeRepository(pool)

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
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, sender.Send); err != nil {
			logger.WithError(err).Info("consumer stopped")
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SweepIntervalMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			removed, err := tracker.SweepExpired(ctx)
			if err != nil {
				logger.WithError(err).Error("sweep attempts")
			} else if removed > 0 {
				logger.WithField("removed", removed).Info("swept expired attempts")
			}

			purged, err := engine.PurgeExpired(ctx, surgePurgeBuffer)
			if err != nil {
				logger.WithError(err).Error("purge surge states")
			} else if purged > 0 {
				logger.WithField("purged", purged).Info("purged expired surge states")
			}
		case s := <-sig:
			logger.WithField("signal", s.String()).Info("shutting down worker")
			return
		}
	}
}
