package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/api"
	"github.com/carson-networks/finance-server/internal/advisor"
	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/events/kafka"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/pricing"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage/provider"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.WithField("storageBackend", envConfig.StorageBackend).Info("finance-server starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	authn, err := auth.NewAuthenticator(envConfig.JWTSecret, envConfig.JWTIssuer)
	if err != nil {
		logger.WithError(err).Fatal("auth.NewAuthenticator")
		return
	}

	store, err := provider.NewStorage(ctx, envConfig)
	if err != nil {
		logger.WithError(err).Fatal("provider.NewStorage")
		return
	}
	defer store.Close()

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if len(envConfig.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(envConfig.KafkaBrokers, envConfig.KafkaTopicPrefix)
		logger.WithField("brokers", envConfig.KafkaBrokers).Info("events publishing to kafka")
	}
	defer publisher.Close()

	adv, err := advisor.New(ctx, advisor.Config{
		APIKey:           envConfig.GeminiAPIKey,
		Model:            envConfig.GeminiModel,
		FailureThreshold: envConfig.AdvisorFailureThreshold,
		ResetTimeout:     envConfig.AdvisorResetTimeout,
	})
	if err != nil {
		logger.WithError(err).Fatal("advisor.New")
		return
	}

	op := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers, publisher)
	op.Start()
	defer op.Stop()

	svc := service.NewService(store, op, service.Options{
		DefaultCurrency: envConfig.DefaultCurrency,
		Prices:          pricing.NewRandomWalk(uint64(time.Now().UnixNano())),
		Advisor:         adv,
	})

	httpRest := api.Rest{
		Logger:   logger,
		Port:     envConfig.HTTPPort,
		Service:  svc,
		Operator: op,
		Auth:     authn,
		Currency: envConfig.DefaultCurrency,
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("finance-server stopped with error")
	}
}
