package main

import (
	"os"

	"github.com/dkravchenko/schoolfood/internal/pkg/logger"
	"github.com/dkravchenko/schoolfood/internal/server"
)

// @title School Food Accounting API
// @version 1.0
// @description Personalized accounting of school food payments: administrators top up student accounts, guardians and students check balances and payment history.

// @host localhost:8080
// @BasePath /api
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
