package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/internal/domain/port"
	"github.com/Isaksend/credit-score/pkg/auth"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(username string, roles []string) (string, error)
	Expiration() time.Duration
}

// Login is the use case exchanging credentials for a bearer token.
type Login struct {
	users  port.UserStore
	issuer TokenIssuer
	logger *slog.Logger
}

// NewLogin creates a new Login use case.
func NewLogin(users port.UserStore, issuer TokenIssuer, logger *slog.Logger) *Login {
	return &Login{users: users, issuer: issuer, logger: logger}
}

// Execute verifies the credentials and issues a token. Unknown users and
// wrong passwords both yield auth.ErrInvalidCredentials.
func (uc *Login) Execute(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.TokenResponse{}, err
	}

	user, err := uc.users.FindByUsername(ctx, req.Username)
	switch {
	case errors.Is(err, port.ErrUserNotFound):
		_ = auth.VerifyPassword("", req.Password)
		uc.logger.InfoContext(ctx, "login rejected", slog.String("reason", "unknown user"))
		return dto.TokenResponse{}, auth.ErrInvalidCredentials
	case err != nil:
		return dto.TokenResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		uc.logger.InfoContext(ctx, "login rejected",
			slog.String("username", user.Username),
			slog.String("reason", "bad password"),
		)
		return dto.TokenResponse{}, err
	}

	token, err := uc.issuer.GenerateToken(user.Username, []string{user.Role})
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(uc.issuer.Expiration().Seconds()),
	}, nil
}
