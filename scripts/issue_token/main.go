package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	server_config "github.com/carson-networks/finance-server/internal/config"
	"github.com/carson-networks/finance-server/internal/auth"
)

// Prints a bearer token for a user, signed with the server's JWT settings.
func main() {
	userID := flag.String("user", "", "user id to put in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("ProcessEnvironmentVariables")
		return
	}

	authn, err := auth.NewAuthenticator(env.JWTSecret, env.JWTIssuer)
	if err != nil {
		logrus.WithError(err).Fatal("auth.NewAuthenticator")
		return
	}

	token, err := authn.Issue(*userID, *ttl)
	if err != nil {
		logrus.WithError(err).Fatal("Issue")
		return
	}
	fmt.Fprintln(os.Stdout, token)
}
