package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/vocabbot/internal/bot"
	"github.com/example/vocabbot/internal/database"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load variables from .env if present; real env wins
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment")
	}

	cfg, err := bot.ConfigFromEnv()
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	b, err := bot.New(cfg, db)
	if err != nil {
		logrus.Fatalf("Failed to create bot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logrus.Infof("Received signal: %v", sig)
		b.Stop()
		cancel()
	}()

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		logrus.Fatalf("Bot error: %v", err)
	}
	logrus.Info("Bot stopped successfully")
}
