// Package scheduler runs a task once a day at a wall-clock time.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alexanderramin/roaster/internal/logger"
)

// Task is the scheduled work. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context)

// Scheduler triggers a single daily task.
type Scheduler struct {
	cron     *cron.Cron
	location *time.Location
	log      *logger.Logger

	mu      sync.Mutex
	entryID cron.EntryID
	at      string

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Scheduler in the given IANA timezone. An empty timezone
// means the local zone.
func New(timezone string, log *logger.Logger) (*Scheduler, error) {
	loc := time.Local
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", timezone, err)
		}
	}
	if log == nil {
		log = logger.Nop()
	}

	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		location: loc,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Schedule runs task every day at hh:mm. A previous schedule is replaced.
func (s *Scheduler) Schedule(at string, task Task) error {
	hour, minute, err := parseClock(at)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	id, err := s.cron.AddFunc(spec, func() { task(s.ctx) })
	if err != nil {
		return fmt.Errorf("adding cron entry: %w", err)
	}
	s.entryID = id
	s.at = at

	s.log.Info().
		Str("at", at).
		Str("cron", spec).
		Str("timezone", s.location.String()).
		Msg("task scheduled")
	return nil
}

// Next is the next activation time, or the zero time when nothing is
// scheduled or the scheduler has not started.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// Location is the timezone activations are computed in.
func (s *Scheduler) Location() *time.Location { return s.location }

// Start begins dispatching in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts dispatching, cancels the task context and waits for a
// running task to return.
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	s.cancel()
	<-done.Done()
}

// parseClock extracts hour and minute from HH:MM.
func parseClock(at string) (int, int, error) {
	if len(at) != 5 || at[2] != ':' {
		return 0, 0, fmt.Errorf("invalid time %q: must be HH:MM", at)
	}
	hour, herr := strconv.Atoi(at[:2])
	minute, merr := strconv.Atoi(at[3:])
	if herr != nil || merr != nil {
		return 0, 0, fmt.Errorf("invalid time %q: must be HH:MM", at)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: hour 0-23, minute 0-59", at)
	}
	return hour, minute, nil
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug().Fields(keysAndValues).Msg("cron " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg("cron " + msg)
}
