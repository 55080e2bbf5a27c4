package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/storage/postgres"
)

// Applies the embedded postgres migrations without starting the server.
func main() {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}
	logging.SetupLogging(env.LogLevel)

	store, err := postgres.Open(env.PostgresConnectionString())
	if err != nil {
		logrus.WithError(err).Fatal("postgres.Open")
		return
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.DB().PingContext(ctx); err != nil {
		logrus.WithError(err).WithField("address", env.PostgresAddress).Fatal("db.PingContext")
		return
	}

	if err := postgres.Migrate(store.DB()); err != nil {
		logrus.WithError(err).Fatal("postgres.Migrate")
		return
	}
}
