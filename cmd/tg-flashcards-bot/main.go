// cmd/tg-flashcards-bot/main.go
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/akulagin/tg-flashcards-bot/pkg/bot/handlers"
	"github.com/akulagin/tg-flashcards-bot/pkg/bot/quiz"
	"github.com/akulagin/tg-flashcards-bot/pkg/config"
	"github.com/akulagin/tg-flashcards-bot/pkg/db"
	"github.com/akulagin/tg-flashcards-bot/pkg/logger"
	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "error", err)
	}

	configPath := os.Getenv("FLASHCARDS_CONFIG")
	if configPath == "" {
		configPath = "config.json"
	}
	if err := config.LoadConfig(configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	if err := db.SeedDefaults(); err != nil {
		logger.Error("failed to seed default vocabulary", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []bot.Option{
		bot.WithDefaultHandler(handlers.DefaultHandler),
	}
	b, err := bot.New(config.AppConfig.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, handlers.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/cards", bot.MatchTypeExact, handlers.HandleStart)

	go quiz.DefaultManager.StartSweeper(ctx)

	logger.Info("Starting bot...")
	b.Start(ctx)
}
