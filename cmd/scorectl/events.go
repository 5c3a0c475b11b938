package main

import (
	"context"
	"fmt"
	"slices"

	"github.com/urfave/cli/v3"

	"github.com/Isaksend/credit-score/pkg/events"
	pkgkafka "github.com/Isaksend/credit-score/pkg/kafka"
)

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Work with scoring domain events",
		Commands: []*cli.Command{
			{
				Name:  "tail",
				Usage: "Print scoring events from Kafka as they arrive",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "brokers",
						Usage:    "Comma separated Kafka brokers",
						Sources:  cli.EnvVars("KAFKA_BROKERS"),
						Required: true,
					},
					&cli.StringFlag{
						Name:    "topic",
						Usage:   "Event topic",
						Value:   "scoring.events",
						Sources: cli.EnvVars("KAFKA_TOPIC"),
					},
					&cli.StringFlag{
						Name:  "group",
						Usage: "Consumer group; without one nothing is committed",
					},
					&cli.BoolFlag{
						Name:  "from-beginning",
						Usage: "Start at the oldest retained event",
					},
					&cli.IntFlag{
						Name:  "max",
						Usage: "Stop after N events; 0 follows until interrupted",
					},
					&cli.StringSliceFlag{
						Name:  "type",
						Usage: "Only print events of this type, repeatable",
					},
				},
				Action: tailEvents,
			},
		},
	}
}

func tailEvents(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printer := &eventPrinter{
		cmd:   cmd,
		types: cmd.StringSlice("type"),
		max:   int(cmd.Int("max")),
		done:  cancel,
	}

	consumer, err := pkgkafka.NewConsumer(pkgkafka.Config{
		Brokers:       pkgkafka.ParseBrokers(cmd.String("brokers")),
		ClientID:      "scorectl",
		ConsumerGroup: cmd.String("group"),
		FromBeginning: cmd.Bool("from-beginning"),
	}, cmd.String("topic"), printer.handle, logger)
	if err != nil {
		return fmt.Errorf("events tail: %w", err)
	}
	defer consumer.Close()

	return consumer.Start(ctx)
}

// eventPrinter decodes envelopes and writes the selected ones to the output.
type eventPrinter struct {
	cmd   *cli.Command
	types []string
	max   int
	seen  int
	done  context.CancelFunc
}

func (p *eventPrinter) handle(_ context.Context, msg pkgkafka.Message) error {
	env, err := events.DecodeEnvelope(msg.Value)
	if err != nil {
		return err
	}
	if !p.wants(env.Type) {
		return nil
	}
	if err := encode(p.cmd, env); err != nil {
		return err
	}
	p.seen++
	if p.max > 0 && p.seen >= p.max {
		p.done()
	}
	return nil
}

func (p *eventPrinter) wants(eventType string) bool {
	return len(p.types) == 0 || slices.Contains(p.types, eventType)
}
