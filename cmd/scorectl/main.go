// Command scorectl is the operator CLI for the credit scoring service.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().Run(ctx, os.Args); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}
