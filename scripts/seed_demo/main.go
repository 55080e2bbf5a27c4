package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/operator"
	"github.com/carson-networks/finance-server/internal/pricing"
	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/provider"
)

// Fills an empty user with sample accounts, transactions and holdings.
func main() {
	userID := flag.String("user", "", "user id to seed")
	flag.Parse()

	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}
	logger := logging.SetupLogging(env.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, err := provider.NewStorage(ctx, env)
	if err != nil {
		logger.WithError(err).Fatal("provider.NewStorage")
		return
	}
	defer store.Close()

	op := operator.NewOperatorDelegator(store, 1, nil)
	op.Start()
	defer op.Stop()

	svc := service.NewService(store, op, service.Options{
		DefaultCurrency: env.DefaultCurrency,
		Prices:          pricing.NewRandomWalk(uint64(time.Now().UnixNano())),
	})
	if err := svc.Demo.Seed(ctx, storage.Session{UserID: *userID}); err != nil {
		logger.WithError(err).WithField("userID", *userID).Error("Demo.Seed")
		return
	}
	logger.WithField("userID", *userID).Info("demo data seeded")
}
