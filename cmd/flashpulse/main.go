package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vytor/flashpulse/internal/apiclient"
	"github.com/vytor/flashpulse/internal/cli"
	"github.com/vytor/flashpulse/internal/config"
	"github.com/vytor/flashpulse/internal/logger"
)

func main() {
	cfg := config.Load()

	// Diagnostics go to stderr and stay quiet unless LOG_LEVEL asks for more.
	level := logger.WARN
	if l, ok := logger.LookupLevel(os.Getenv("LOG_LEVEL")); ok {
		level = l
	}
	logger.SetDefault(logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(level),
	))

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "flashpulse: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(cfg.APIBaseURL())
	root := cli.NewRootCmd(cfg, client)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "flashpulse: %v\n", err)
		stop()
		os.Exit(1)
	}
}
