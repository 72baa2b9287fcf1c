// Command token prints a bearer token accepted by the API's write routes.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yigit/coursedesk/internal/bootstrap"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/pkg/auth"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

func main() {
	configPath := flag.String("config", config.GetEnv("COURSEDESK_CONFIG", "configs/config.yaml"), "path to the config file")
	subject := flag.String("sub", "admin", "token subject")
	flag.Parse()

	// stdout carries only the token
	logger.Configure(logger.Config{Level: logger.InfoLevel, Pretty: true, Output: os.Stderr})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Auth.Secret == "" {
		logger.Fatal().Msg("auth.secret is not configured")
	}

	token, expiresAt, err := auth.NewJWTService(bootstrap.JWTConfig(cfg)).GenerateToken(*subject)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate token")
	}

	fmt.Fprintln(os.Stdout, token)
	logger.Info().Str("sub", *subject).Str("expiresAt", expiresAt.Format(time.RFC3339)).Msg("Token issued")
}
