// Package logger wraps zerolog with process-wide defaults and run-scoped
// child loggers.
package logger

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string // "json" or "console"; empty picks console on a TTY
	Service      string
	Writer       io.Writer
	WithCaller   bool
	StaticFields map[string]string
}

// FromEnv builds Options from ROASTER_LOG_* variables.
func FromEnv() Options {
	opt := Options{
		Level:   strings.ToLower(envOr("ROASTER_LOG_LEVEL", "info")),
		Format:  strings.ToLower(os.Getenv("ROASTER_LOG_FORMAT")),
		Service: "roaster",
	}
	if v := os.Getenv("ROASTER_LOG_CALLER"); v != "" {
		opt.WithCaller, _ = strconv.ParseBool(v)
	}
	return opt
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

// Get returns the process-wide root logger.
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init configures zerolog and builds the root logger. Only the first call
// has any effect.
func Init(opt Options) {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		log := New(opt)
		root.Store(&log)
		inited.Store(true)
	})
}

// New builds a standalone logger from opt without touching the root.
func New(opt Options) Logger {
	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}

	format := opt.Format
	if format == "" {
		format = "json"
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "console"
		}
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	ctx := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		ctx = ctx.Str("service", opt.Service)
	}
	for k, v := range opt.StaticFields {
		ctx = ctx.Str(k, v)
	}

	log := ctx.Logger()
	if opt.WithCaller {
		log = log.With().Caller().Logger()
	}
	return log
}

// Nop returns a disabled logger.
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type ctxKey struct{ name string }

var keyRunID = ctxKey{"run_id"}

// WithRun annotates ctx with the pipeline run id.
func WithRun(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRunID, runID)
}

// RunID returns the run id stored by WithRun, if any.
func RunID(ctx context.Context) string {
	if s, ok := ctx.Value(keyRunID).(string); ok {
		return s
	}
	return ""
}

// C returns a child of l enriched with the run id from ctx.
func C(ctx context.Context, l *Logger) *Logger {
	if l == nil {
		l = Get()
	}
	id := RunID(ctx)
	if id == "" {
		return l
	}
	ll := l.With().Str("run_id", id).Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

// Component returns a child of l with a component field.
func Component(l *Logger, component string) *Logger {
	if l == nil {
		return Named(component)
	}
	ll := l.With().Str("component", component).Logger()
	return &ll
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
