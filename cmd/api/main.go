package main

import (
	"context"
	"os"

	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/pkg/logger"
	"github.com/yigit/coursedesk/internal/server"
)

// @title CourseDesk API
// @version 1.0
// @description CRUD API for courses
// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for write access ("Bearer <token>")

func main() {
	configPath := config.GetEnv("COURSEDESK_CONFIG", "configs/config.yaml")

	srv, err := server.NewServer(context.Background(), configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal arrives
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
