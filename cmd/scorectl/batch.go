package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/client"
	"github.com/Isaksend/credit-score/internal/infrastructure/artifact"
)

// batchSummary is the batch command output: the counters plus a sample of
// the results.
type batchSummary struct {
	Sample     []dto.BatchItem `json:"sample"`
	Total      int             `json:"total"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Score a batch of synthetic clients generated around the feature means",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Number of clients",
				Value:   30,
			},
			&cli.StringFlag{
				Name:  "models-dir",
				Usage: "Directory holding feature_means.json",
				Value: "models",
			},
			&cli.IntFlag{
				Name:  "seed",
				Usage: "Random seed; 0 uses the current time",
			},
			&cli.IntFlag{
				Name:  "sample",
				Usage: "Number of results to print",
				Value: 3,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			n := int(cmd.Int("count"))
			if n < 1 {
				return fmt.Errorf("--count must be positive")
			}

			catalog, err := artifact.LoadCatalog(cmd.String("models-dir"))
			if err != nil {
				return err
			}
			means := make(map[string]float64, catalog.Len())
			for i, name := range catalog.Names() {
				means[name] = catalog.DefaultAt(i)
			}

			seed := uint64(cmd.Int("seed"))
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			clients := client.NewGenerator(means, seed).Clients(n)

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			resp, err := c.PredictBatch(ctx, clients)
			if err != nil {
				return fmt.Errorf("batch: %w", err)
			}

			sample := max(0, min(int(cmd.Int("sample")), len(resp.Predictions)))
			return encode(cmd, batchSummary{
				Total:      resp.Total,
				Successful: resp.Successful,
				Failed:     resp.Failed,
				Sample:     resp.Predictions[:sample],
			})
		},
	}
}
