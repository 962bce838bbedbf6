package main

import (
	"flag"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/workscout/workscout/internal/app"
	"github.com/workscout/workscout/internal/config"
	"github.com/workscout/workscout/pkg/shutdown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer a.Close()

	logger := a.Logger

	signals := []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP}

	stopTargets := []shutdown.Stoppable{a.API}
	if cfg.MCP.Enabled {
		go func() {
			if err := a.MCP.Run(); err != nil {
				logger.Error("MCP server exited with error", "err", err)
			}
		}()
		stopTargets = append(stopTargets, a.MCP)
	}

	go shutdown.Graceful(signals, 10*time.Second, logger, stopTargets...)

	logger.Info("HTTP API starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	if err := a.API.Start(); err != nil {
		logger.Error("HTTP API exited with error", "err", err)
		os.Exit(1)
	}
	logger.Info("HTTP API stopped")
}
