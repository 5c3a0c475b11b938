package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	grpcpresentation "github.com/Isaksend/credit-score/internal/presentation/grpc"
	"github.com/Isaksend/credit-score/pkg/tlsutil"
)

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:      "predict",
		Usage:     "Score one client",
		UsageText: "scorectl predict [--file client.json] [--set INCOME=85000 ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   `JSON file with a feature mapping or {"data": {...}}; "-" reads stdin`,
			},
			&cli.StringSliceFlag{
				Name:  "set",
				Usage: "Feature override as NAME=VALUE, repeatable",
			},
			&cli.BoolFlag{
				Name:  "slim",
				Usage: "Use the slim feature endpoint",
			},
			&cli.StringFlag{
				Name:  "grpc-addr",
				Usage: "Score over gRPC at host:port instead of HTTP",
			},
			&cli.BoolFlag{
				Name:  "grpc-tls",
				Usage: "Use TLS for the gRPC connection",
			},
			&cli.StringFlag{
				Name:  "grpc-ca",
				Usage: "CA certificate for the gRPC server",
			},
			&cli.BoolFlag{
				Name:  "grpc-insecure",
				Usage: "Skip gRPC server certificate verification",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			data, err := readClient(cmd)
			if err != nil {
				return err
			}

			if addr := cmd.String("grpc-addr"); addr != "" {
				if cmd.Bool("slim") {
					return fmt.Errorf("--slim is not available over gRPC")
				}
				return predictGRPC(ctx, cmd, addr, data)
			}

			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("slim") {
				resp, err := c.PredictSlim(ctx, data)
				if err != nil {
					return fmt.Errorf("predict: %w", err)
				}
				return encode(cmd, resp)
			}
			resp, err := c.Predict(ctx, data)
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}
			return encode(cmd, resp)
		},
	}
}

func predictGRPC(ctx context.Context, cmd *cli.Command, addr string, data map[string]any) error {
	var creds credentials.TransportCredentials = insecure.NewCredentials()
	if cmd.Bool("grpc-tls") {
		tlsCreds, err := tlsutil.ClientTLSConfig(cmd.String("grpc-ca"), cmd.Bool("grpc-insecure"))
		if err != nil {
			return err
		}
		creds = tlsCreds
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	if tok := cmd.String(tokenFlag); tok != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok)
	}
	ctx, cancel := context.WithTimeout(ctx, cmd.Duration(timeoutFlag))
	defer cancel()

	resp, err := grpcpresentation.NewScoringServiceClient(conn).Predict(ctx, &grpcpresentation.PredictRequest{Data: data})
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}
	return encode(cmd, resp)
}

// readClient assembles the feature mapping from --file and --set.
func readClient(cmd *cli.Command) (map[string]any, error) {
	data := map[string]any{}

	if path := cmd.String("file"); path != "" {
		var raw []byte
		var err error
		if path == "-" {
			raw, err = io.ReadAll(input(cmd))
		} else {
			raw, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("reading client file: %w", err)
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("decoding client file: %w", err)
		}
		if inner, ok := data["data"].(map[string]any); ok && len(data) == 1 {
			data = inner
		}
	}

	for _, kv := range cmd.StringSlice("set") {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, expected NAME=VALUE", kv)
		}
		data[strings.TrimSpace(name)] = parseValue(strings.TrimSpace(value))
	}
	return data, nil
}

// parseValue keeps numbers numeric and passes anything else as a string, so
// label-encoded categories can be given by name.
func parseValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
