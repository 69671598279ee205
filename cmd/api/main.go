package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"vacation-planner/internal/api"
	"vacation-planner/internal/app"
	"vacation-planner/internal/auth"
	"vacation-planner/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.GetConfig()
	cfg.ConfigureLogger()

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET is not set, using the development secret")
	}
	if !logrus.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.Close()

	tokens := auth.NewTokenManager(cfg.JWTSecret, "", cfg.JWTTTL)
	router := api.NewRouter(application.UserService, application.VacationService, tokens, api.Options{
		CORSOrigins:     cfg.CORSOrigins,
		LoginRatePerSec: cfg.LoginRatePerSec,
		LoginBurst:      cfg.LoginBurst,
		Logger:          logrus.WithField("component", "http"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP API listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down HTTP API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown failed")
	}
	logrus.Info("HTTP API stopped")
}
