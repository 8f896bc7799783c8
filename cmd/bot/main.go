package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)

	mainLogger := logger.Component("main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
		"chat_id":     cfg.TelegramChatID,
	}).Info("Configuration loaded")

	// Initialize Telegram Bot (send-only, no update polling)
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.HTTPTimeout)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	notifier := app.NewChatNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, logger.Component("notifier"))
	mainLogger.Info("Telegram notifier initialized.")

	source := practicum.NewClient(cfg.PracticumEndpoint, cfg.PracticumToken, cfg.HTTPTimeout, logger.Component("practicum"))
	poller := app.NewPoller(source, notifier, logger.Component("poller"))

	pollScheduler := scheduler.NewPollScheduler(poller, cfg.PollInterval, app.InitialState(time.Now()), logger.Component("scheduler"))
	pollScheduler.Start()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	pollScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
