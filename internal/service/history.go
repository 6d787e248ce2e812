package service

import (
	"context"
	"time"

	"github.com/alexanderramin/roaster/internal/db"
	"github.com/alexanderramin/roaster/internal/domain"
	"github.com/alexanderramin/roaster/internal/repository"
)

// RunDetail is a stored run with its roast results.
type RunDetail struct {
	Run     *domain.Run
	Results []domain.RoastResult
}

// HistoryService reads and prunes recorded runs.
type HistoryService interface {
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	Get(ctx context.Context, runID string) (*RunDetail, error)
	Delete(ctx context.Context, runID string) error
}

type historyService struct {
	runs     repository.RunRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewHistoryService(runs repository.RunRepo, uow db.UnitOfWork, observers ...UseCaseObserver) HistoryService {
	return &historyService{runs: runs, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *historyService) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	return s.runs.List(ctx, limit)
}

func (s *historyService) Get(ctx context.Context, runID string) (*RunDetail, error) {
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		return nil, err
	}
	results, err := s.runs.Results(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return &RunDetail{Run: run, Results: results}, nil
}

func (s *historyService) Delete(ctx context.Context, runID string) (err error) {
	startedAt := time.Now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			UseCase:   "delete-run",
			RunID:     runID,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
		})
	}()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteRunRepo(tx).Delete(ctx, runID)
	})
}
