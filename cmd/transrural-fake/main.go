// Command transrural-fake serves the in-memory TransRural API with demo
// data, for developing and demoing the console without the real backend.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"transrural/internal/config"
	"transrural/internal/fakeapi"
	"transrural/pkg/logger"
)

func main() {
	cfg := config.Load()

	addr := pflag.String("addr", cfg.AppAddr, "listen address")
	seed := pflag.Bool("seed", true, "load the demo fixture")
	pflag.Parse()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	log := logger.New(cfg.ServiceName+"-fake", cfg.LoggerLevel)

	store := fakeapi.NewStore()
	if *seed {
		store.Seed(time.Now())
		log.Info("demo fixture loaded")
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           fakeapi.NewServer(store, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("fake API listening", logger.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", logger.Error(err))
		os.Exit(1)
	}

	log.Info("server stopped")
}
