package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pickup/internal/printworker/config"
	"pickup/internal/printworker/domains/common"
	"pickup/internal/printworker/printer"
	"pickup/internal/printworker/worker"
	"pickup/pkg/lmstfy"
	"pickup/pkg/logger"
)

var configPath = flag.String("config", "./config/printworker.yaml", "config file path")

func main() {
	flag.Parse()

	// 1. load .env (optional) and the config file
	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// 2. logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. queue and printer
	queue := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token, 0)

	var p printer.Printer = printer.NewLogPrinter(zapLogger)
	if cfg.Printer.Mode == config.PrinterHTTP {
		p = printer.NewHTTPPrinter(cfg.Printer.BaseURL, cfg.Printer.DeviceID, cfg.Printer.Timeout)
	}

	// 4. manager
	mgr, err := worker.NewManagerInstance(cfg, queue, &common.Deps{Printer: p}, zapLogger)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}

	go func() {
		if err := mgr.Start(); err != nil {
			log.Fatalf("Manager start failed: %v", err)
		}
	}()
	log.Printf("%s started (env=%s, printer=%s)", cfg.App.Name, cfg.App.Env, cfg.Printer.Mode)

	// 5. wait for a signal, then drain
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down", sig)

	mgr.Shutdown()
	log.Println("Print worker exited")
}
