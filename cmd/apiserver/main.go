package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pickup/internal/app/config"
)

var configPath = flag.String("config", "config/config.yaml", "config file path")

func main() {
	flag.Parse()

	// 1. load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. wire the app
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer cleanup()

	// 3. sync bridge in the background
	bridgeDone := make(chan struct{})
	go func() {
		defer close(bridgeDone)
		if err := app.Bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Errorf(ctx, "[App] sync bridge stopped: %v", err)
		}
	}()

	// 4. http server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
		// requests inherit ctx so live streams end on shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Infof(ctx, "[App] HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	// 5. graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		app.Logger.Infof(ctx, "[App] received %v, shutting down", sig)
	case err := <-serverErrChan:
		app.Logger.Errorf(ctx, "[App] HTTP server error: %v", err)
	}

	cancel()
	<-bridgeDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Warnf(shutdownCtx, "[App] HTTP server shutdown error: %v", err)
	}
	app.Logger.Infof(shutdownCtx, "[App] stopped")
}
