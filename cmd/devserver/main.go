// Package main serves the API over plain HTTP for local development,
// against LocalStack (AWS_ENDPOINT_URL) or in-memory stores (DEV_IN_MEMORY=true).
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kylejryan/image-groups/internal/app"
	"github.com/kylejryan/image-groups/internal/config"
	"github.com/kylejryan/image-groups/internal/logging"
)

func main() {
	a, err := build()
	if err != nil {
		log.Fatal(err)
	}
	defer a.Log.Sync() //nolint:errcheck

	srv := &http.Server{
		Addr:         a.Env.DevAddr,
		Handler:      a.Gateway().Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		a.Log.Info("dev server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	a.Log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.Log.Error("forced shutdown", zap.Error(err))
	}
}

func build() (*app.App, error) {
	if os.Getenv("DEV_IN_MEMORY") != "true" {
		return app.New(context.Background())
	}
	env, err := config.Load()
	if err != nil {
		return nil, err
	}
	l, err := logging.New(env.LogLevel)
	if err != nil {
		return nil, err
	}
	return app.NewInMemory(env, l), nil
}
