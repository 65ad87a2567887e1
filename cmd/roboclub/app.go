package main

import (
	"github.com/deppfellow/robotics-club/internal/config"
	"github.com/deppfellow/robotics-club/internal/logger"
	"github.com/rs/zerolog"
)

// app is the part of startup every subcommand shares.
type app struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

func loadApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return &app{cfg: cfg, log: log, loggerService: loggerService}, nil
}

func (a *app) close() {
	a.loggerService.Shutdown()
}
