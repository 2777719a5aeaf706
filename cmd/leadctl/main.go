// Package main provides leadctl, the command-line admin view over the lead
// store: list, inspect, re-status, delete and export captured inquiries.
package main

import (
	"context"
	"fmt"
	"os"

	"alevatex/internal/app"
	"alevatex/internal/config"
	"alevatex/internal/logging"
)

func main() {
	open := func(ctx context.Context) (*app.App, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		return app.Open(ctx, cfg, log, nil)
	}
	if err := rootCmd(open).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
