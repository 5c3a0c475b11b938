package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func portfolioCommand() *cli.Command {
	return &cli.Command{
		Name:  "portfolio",
		Usage: "Inspect recorded predictions",
		Commands: []*cli.Command{
			{
				Name:  "clients",
				Usage: "List recorded predictions",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Only the most recent N entries; 0 lists all",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient(cmd)
					if err != nil {
						return err
					}
					resp, err := c.PortfolioClients(ctx, int(cmd.Int("limit")))
					if err != nil {
						return fmt.Errorf("portfolio clients: %w", err)
					}
					return encode(cmd, resp)
				},
			},
			{
				Name:  "stats",
				Usage: "Aggregate recorded predictions",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					c, err := newClient(cmd)
					if err != nil {
						return err
					}
					resp, err := c.PortfolioStatistics(ctx)
					if err != nil {
						return fmt.Errorf("portfolio stats: %w", err)
					}
					return encode(cmd, resp)
				},
			},
		},
	}
}
