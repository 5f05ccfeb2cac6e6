package audit

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Sweeper runs VerifyFull on a cron schedule and reports failures.
// It exists so long-running deployments notice journal tampering or
// corruption without waiting for an operator to run a manual check.
type Sweeper struct {
	log      *Log
	schedule string
	onResult func(Diagnostic)

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
	logger  *slog.Logger
}

// NewSweeper creates an integrity sweeper for the journal. schedule is
// standard cron syntax (e.g. "0 3 * * *" for daily at 3 AM). onResult,
// if non-nil, receives every sweep's diagnostic.
func NewSweeper(log *Log, schedule string, onResult func(Diagnostic)) *Sweeper {
	return &Sweeper{
		log:      log,
		schedule: schedule,
		onResult: onResult,
		logger:   slog.Default().With("component", "audit.sweeper"),
	}
}

// Start begins scheduled verification. An empty schedule disables the
// sweeper without error.
func (s *Sweeper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper already running")
	}
	if s.schedule == "" {
		s.logger.Info("integrity sweep schedule not configured, skipping")
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule integrity sweep: %w", err)
	}
	s.cron.Start()
	s.running = true

	s.logger.Info("integrity sweeper started", "schedule", s.schedule, "path", s.log.Path())
	return nil
}

// Stop halts scheduled verification and waits for an in-flight sweep.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Info("integrity sweeper stopped")
}

// Sweep runs one verification immediately, outside the schedule.
func (s *Sweeper) Sweep() Diagnostic {
	diag := s.log.DiagnoseFull()
	if diag.OK {
		s.logger.Info("integrity sweep passed", "path", s.log.Path())
	} else {
		s.logger.Error("integrity sweep failed",
			"path", s.log.Path(),
			"index", diag.Index,
			"reason", diag.Reason,
		)
	}
	if s.onResult != nil {
		s.onResult(diag)
	}
	return diag
}

func (s *Sweeper) sweep() {
	s.Sweep()
}
