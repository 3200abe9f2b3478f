package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/conduit-go/userstore/internal/config"
	"github.com/conduit-go/userstore/internal/logger"
	"github.com/conduit-go/userstore/internal/repository/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping storage", "error", err)
	}

	logger.Info("schema is up to date")
}
