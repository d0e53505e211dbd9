// Command api serves the vehicle-number rental marketplace HTTP API.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/auth"
	"github.com/vnrental/backend/internal/company"
	"github.com/vnrental/backend/internal/config"
	"github.com/vnrental/backend/internal/db"
	"github.com/vnrental/backend/internal/events"
	"github.com/vnrental/backend/internal/handlers"
	"github.com/vnrental/backend/internal/oauth"
	"github.com/vnrental/backend/internal/payment"
	"github.com/vnrental/backend/internal/vehicle"
	"go.uber.org/zap"
)

// eventSink is satisfied by both the Kafka producer and the no-op fallback.
type eventSink interface {
	Produce(eventType events.EventType, entityID uuid.UUID, payload any)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	repo, err := db.NewRepository(cfg.Database.DSN())
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer repo.Close()

	var eventProducer eventSink = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.KafkaTopic)
		if err != nil {
			logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
		}
		defer kp.Close()
		eventProducer = kp
	} else {
		logger.Warn("no Kafka brokers configured, events disabled")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	authService := auth.NewService(repo, tokens, eventProducer, logger)
	companyService := company.NewService(repo, eventProducer, logger)
	vehicleService := vehicle.NewService(repo, eventProducer, logger)
	paymentService := payment.NewService(repo, eventProducer, logger)

	bridge := oauth.NewBridge(
		[]*oauth.Client{
			oauth.NewKakao(cfg.Kakao(), logger),
			oauth.NewGoogle(cfg.Google(), logger),
		},
		oauth.NewMergeByEmail(repo, logger),
		tokens,
		logger,
	)

	server := handlers.NewServer(cfg, tokens, handlers.Services{
		Auth:      authService,
		OAuth:     bridge,
		Companies: companyService,
		Vehicles:  vehicleService,
		Payments:  paymentService,
	}, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	server.Stop()
}
