package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Isaksend/credit-score/internal/infrastructure/userstore"
	"github.com/Isaksend/credit-score/pkg/auth"
)

const (
	usernameFlag = "username"
	passwordFlag = "password"
)

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     usernameFlag,
			Aliases:  []string{"u"},
			Usage:    "Account name",
			Required: true,
		},
		&cli.StringFlag{
			Name:    passwordFlag,
			Aliases: []string{"p"},
			Usage:   "Account password; read from stdin when omitted",
			Sources: cli.EnvVars("SCORECTL_PASSWORD"),
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Exchange credentials for an access token",
		Flags: credentialFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			tok, err := c.Login(ctx, cmd.String(usernameFlag), password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			return encode(cmd, tok)
		},
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the account behind the current token",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			me, err := c.Me(ctx)
			if err != nil {
				return fmt.Errorf("whoami: %w", err)
			}
			return encode(cmd, me)
		},
	}
}

func hashPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash-password",
		Usage: "Print a user store entry with a bcrypt password hash",
		Flags: append(credentialFlags(), &cli.StringFlag{
			Name:  "role",
			Usage: "Account role [admin, user]",
			Value: auth.RoleUser,
		}),
		Action: func(_ context.Context, cmd *cli.Command) error {
			role := cmd.String("role")
			if !auth.ValidRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			data, err := userstore.Encode(userstore.UserRecord{
				Username:     cmd.String(usernameFlag),
				PasswordHash: hash,
				Role:         role,
			})
			if err != nil {
				return err
			}
			_, err = output(cmd).Write(data)
			return err
		},
	}
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Write an RS256 key pair for JWT_PRIVATE_KEY_FILE and JWT_PUBLIC_KEY_FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output directory",
				Value: ".",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "File name prefix",
				Value: "jwt",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			privPEM, pubPEM, err := auth.GenerateKeyPair()
			if err != nil {
				return err
			}
			base := filepath.Join(cmd.String("out"), cmd.String("name"))
			if err := os.WriteFile(base+".pem", privPEM, 0o600); err != nil {
				return fmt.Errorf("writing private key: %w", err)
			}
			if err := os.WriteFile(base+".pub", pubPEM, 0o644); err != nil {
				return fmt.Errorf("writing public key: %w", err)
			}
			_, err = fmt.Fprintf(output(cmd), "private key: %s.pem\npublic key:  %s.pub\n", base, base)
			return err
		},
	}
}

// readPassword takes the password flag, or the first line of stdin.
func readPassword(cmd *cli.Command) (string, error) {
	if p := cmd.String(passwordFlag); p != "" {
		return p, nil
	}
	line, err := bufio.NewReader(input(cmd)).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New("password required: pass --password or pipe it on stdin")
	}
	p := strings.TrimRight(line, "\r\n")
	if p == "" {
		return "", errors.New("password must not be empty")
	}
	return p, nil
}
