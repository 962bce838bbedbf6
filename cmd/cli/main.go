package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/workscout/workscout/internal/app"
	"github.com/workscout/workscout/internal/cli"
	"github.com/workscout/workscout/internal/config"
)

func main() {
	// -config is stripped before the command flags are parsed
	configPath := ""
	args := make([]string, 0, len(os.Args)-1)
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "-config" && i+1 < len(os.Args) {
			configPath = os.Args[i+1]
			i++
			continue
		}
		if v, ok := strings.CutPrefix(os.Args[i], "-config="); ok {
			configPath = v
			continue
		}
		args = append(args, os.Args[i])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.New(a.Search, a.Archive, os.Stdout).Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
