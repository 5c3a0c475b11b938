package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show decision thresholds and the score range",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.Statistics(ctx)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			return encode(cmd, resp)
		},
	}
}

func modelInfoCommand() *cli.Command {
	return &cli.Command{
		Name:  "model-info",
		Usage: "Show loaded model metadata (admin)",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.ModelInfo(ctx)
			if err != nil {
				return fmt.Errorf("model-info: %w", err)
			}
			return encode(cmd, resp)
		},
	}
}
