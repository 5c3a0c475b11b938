package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/Isaksend/credit-score/internal/client"
	"github.com/Isaksend/credit-score/pkg/observability"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"

	serverFlag  = "server"
	tokenFlag   = "token"
	formatFlag  = "format"
	timeoutFlag = "timeout"
	debugFlag   = "debug"
)

var version = "v0.0.1-default"

// newApp builds the command tree. Flags are created per call so repeated runs
// in one process do not share parsed state.
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "scorectl",
		Usage:   "Operator CLI for the credit scoring service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    serverFlag,
				Usage:   "Scoring API base URL",
				Value:   "http://localhost:8000",
				Sources: cli.EnvVars("SCORECTL_SERVER"),
			},
			&cli.StringFlag{
				Name:    tokenFlag,
				Usage:   "Bearer token (see: scorectl login)",
				Sources: cli.EnvVars("SCORECTL_TOKEN"),
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
			&cli.DurationFlag{
				Name:  timeoutFlag,
				Usage: "HTTP request timeout",
				Value: 30 * time.Second,
			},
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			whoamiCommand(),
			predictCommand(),
			batchCommand(),
			statsCommand(),
			modelInfoCommand(),
			portfolioCommand(),
			hashPasswordCommand(),
			keygenCommand(),
			eventsCommand(),
		},
	}
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := "warn"
	if cmd.Bool(debugFlag) {
		level = "debug"
	}
	return observability.InitLogger(observability.LogConfig{
		Level:   level,
		Format:  "text",
		Service: "scorectl",
		Version: version,
		Output:  os.Stderr,
	})
}

func newClient(cmd *cli.Command) (*client.Client, error) {
	return client.New(cmd.String(serverFlag),
		client.WithToken(cmd.String(tokenFlag)),
		client.WithHTTPClient(&http.Client{Timeout: cmd.Duration(timeoutFlag)}),
	)
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func input(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// encode writes v to the command output in the selected format.
func encode(cmd *cli.Command, v any) error {
	w := output(cmd)
	switch f := strings.ToLower(cmd.String(formatFlag)); f {
	case formatYAML, "yml":
		// YAML keys follow the JSON field names.
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		return yaml.NewEncoder(w).Encode(generic)
	case formatJSON, "":
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}
