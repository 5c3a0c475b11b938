package port

import (
	"context"
	"errors"

	"github.com/Isaksend/credit-score/internal/domain/model"
	"github.com/Isaksend/credit-score/pkg/events"
)

// ErrUserNotFound is returned by a UserStore for unknown usernames.
var ErrUserNotFound = errors.New("user not found")

// ScoreModel is a pre-trained regressor producing a continuous credit score.
type ScoreModel interface {
	// Features returns the feature names in the order the model was trained on.
	Features() []string

	// PredictScore evaluates one scaled feature vector.
	PredictScore(ctx context.Context, scaled []float64) (float64, error)
}

// RiskModel is a pre-trained binary classifier for default risk.
type RiskModel interface {
	// Features returns the feature names in the order the model was trained on.
	Features() []string

	// PredictRisk evaluates one scaled feature vector and returns the class
	// label and the probability of default in [0,1].
	PredictRisk(ctx context.Context, scaled []float64) (class int, probability float64, err error)
}

// PortfolioRepository defines the persistence port for the portfolio log.
type PortfolioRepository interface {
	// Append records one entry at the end of the log.
	Append(ctx context.Context, entry model.PortfolioEntry) error

	// List returns entries in insertion order. A positive limit returns only
	// the most recent limit entries.
	List(ctx context.Context, limit int) ([]model.PortfolioEntry, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// UserStore looks up API accounts.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}
