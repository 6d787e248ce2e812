// Package cli implements the roaster command line.
package cli

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/roaster/internal/config"
	"github.com/alexanderramin/roaster/internal/db"
	"github.com/alexanderramin/roaster/internal/llm"
	"github.com/alexanderramin/roaster/internal/logger"
)

// App carries the dependencies commands are built from. Fields are
// replaced in tests.
type App struct {
	// LoadConfig resolves the configuration for the --config flag value.
	LoadConfig func(path string) (config.Config, error)
	// OpenStore opens the run history database.
	OpenStore func(path string) (*sql.DB, error)
	// NewGenerator builds the text-generation backend.
	NewGenerator func(cfg config.GenerationConfig, log *logger.Logger) llm.Generator
	// In feeds interactive prompts.
	In io.Reader
	// IsInteractive reports whether forms and the browser may be shown.
	IsInteractive func() bool

	// Set by the root command before any subcommand runs.
	Config config.Config
	Log    *logger.Logger
}

// NewApp returns an App wired to the real config loader, database and
// generation backends.
func NewApp() *App {
	return &App{
		LoadConfig: config.Load,
		OpenStore:  db.OpenDB,
		NewGenerator: func(cfg config.GenerationConfig, log *logger.Logger) llm.Generator {
			var observer llm.Observer = llm.NoopObserver{}
			if cfg.LogCalls {
				observer = llm.NewLogObserver(logger.Component(log, "llm"))
			}
			return llm.NewFromConfig(cfg, observer, log)
		},
		In: os.Stdin,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// ExitError carries a process exit code for main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit codes.
const (
	ExitFailure = 1
	ExitInvalid = 2
)
