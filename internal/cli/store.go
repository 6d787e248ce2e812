package cli

import (
	"database/sql"
	"fmt"

	"github.com/alexanderramin/roaster/internal/db"
	"github.com/alexanderramin/roaster/internal/repository"
	"github.com/alexanderramin/roaster/internal/service"
)

// openStore opens the run history database named in the config.
func (a *App) openStore() (*sql.DB, error) {
	conn, err := a.OpenStore(a.Config.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening run history: %w", err)
	}
	return conn, nil
}

// history returns a HistoryService over conn.
func (a *App) history(conn *sql.DB) service.HistoryService {
	return service.NewHistoryService(
		repository.NewSQLiteRunRepo(conn),
		db.NewSQLiteUnitOfWork(conn),
		service.NewLogUseCaseObserver(a.Log),
	)
}
