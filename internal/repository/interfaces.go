package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/roaster/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous is returned when an ID prefix matches more than one run.
	ErrAmbiguous = errors.New("ambiguous id prefix")
)

// RunRepo stores pipeline runs and the roast results they produced.
// GetByID and Delete accept a full ID or a unique prefix of one, matched
// without regard to case.
type RunRepo interface {
	Create(ctx context.Context, run *domain.Run) error
	AddResults(ctx context.Context, runID string, results []domain.RoastResult) error
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	Results(ctx context.Context, runID string) ([]domain.RoastResult, error)
	Delete(ctx context.Context, id string) error
}
