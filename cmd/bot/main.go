package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/workscout/workscout/internal/app"
	"github.com/workscout/workscout/internal/bot"
	"github.com/workscout/workscout/internal/config"
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

	b, err := bot.New(cfg.Telegram, a.Search, a.Archive, logger)
	if err != nil {
		logger.Error("failed to start telegram bot", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer stop()

	if err := b.Run(ctx); err != nil {
		logger.Error("telegram bot exited with error", "err", err)
		os.Exit(1)
	}
}
