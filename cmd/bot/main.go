package main

import (
	"context"
	"os/signal"
	"syscall"

	"vacation-planner/internal/app"
	"vacation-planner/internal/config"
	"vacation-planner/internal/handler"
	"vacation-planner/pkg/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("Initializing config...")
	cfg := config.GetConfig()
	cfg.ConfigureLogger()
	logrus.Info("Config initialized...")

	if cfg.TelegramToken == "" {
		logrus.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.Close()

	client, err := telegram.NewClient(cfg.TelegramToken, cfg.TelegramDebug)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create Telegram client")
	}
	logrus.Infof("Authorized on account %s", client.Bot.Self.UserName)

	botHandler := handler.NewHandler(
		client.Bot,
		application.UserService,
		application.VacationService,
		logrus.WithField("component", "bot"),
	)

	updates := client.Updates()
	done := make(chan struct{})
	go func() {
		botHandler.HandleUpdates(ctx, updates)
		close(done)
	}()

	logrus.Info("Bot started. Press Ctrl+C to stop.")
	<-ctx.Done()

	client.Stop()
	<-done
	logrus.Info("Bot stopped gracefully")
}
