package llm

import (
	"github.com/alexanderramin/roaster/internal/logger"
)

// CallEvent records metadata about a single generation call.
type CallEvent struct {
	Provider  string
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives events about generation calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a structured logger.
type LogObserver struct {
	log *logger.Logger
}

// NewLogObserver creates an Observer that logs events to log.
func NewLogObserver(log *logger.Logger) *LogObserver {
	if log == nil {
		log = logger.Named("generation")
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	status := "ok"
	ev := o.log.Info()
	if !event.Success {
		status = "err:" + event.ErrorCode
		ev = o.log.Warn()
	}
	ev.Str("provider", event.Provider).
		Str("model", event.Model).
		Int64("latency_ms", event.LatencyMs).
		Int("attempts", event.Attempts).
		Str("status", status).
		Msg("llm_call")
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
