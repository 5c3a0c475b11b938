package usecase

import (
	"context"
	"errors"

	"github.com/Isaksend/credit-score/internal/application/dto"
	"github.com/Isaksend/credit-score/pkg/auth"
)

// ErrUnauthenticated is returned when the context carries no verified claims.
var ErrUnauthenticated = errors.New("unauthenticated")

// GetCurrentUser is the use case describing the authenticated caller.
type GetCurrentUser struct{}

// NewGetCurrentUser creates a new GetCurrentUser use case.
func NewGetCurrentUser() *GetCurrentUser { return &GetCurrentUser{} }

// Execute reads the caller from the verified token claims in ctx.
func (uc *GetCurrentUser) Execute(ctx context.Context) (dto.UserResponse, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return dto.UserResponse{}, ErrUnauthenticated
	}
	return dto.UserResponse{
		Username: auth.UsernameFromContext(ctx),
		Role:     claims.PrimaryRole(),
	}, nil
}
