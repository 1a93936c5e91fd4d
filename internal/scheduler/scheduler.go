package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"library-borrowing/internal/usecase/audit"
)

// Auditor is the job the scheduler runs; satisfied by *audit.Usecase.
type Auditor interface {
	Run(ctx context.Context) (*audit.Report, error)
}

// Scheduler runs the drift audit on a cron schedule (with seconds, UTC).
type Scheduler struct {
	cron    *cron.Cron
	auditor Auditor
	timeout time.Duration
	log     *slog.Logger
}

func New(a Auditor, timeout time.Duration, l *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		auditor: a,
		timeout: timeout,
		log:     l,
	}
}

// Register adds the audit job. An empty spec registers nothing.
func (s *Scheduler) Register(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.runAudit); err != nil {
		return fmt.Errorf("register audit job %q: %w", spec, err)
	}
	s.log.Info("audit job registered", "schedule", spec)
	return nil
}

func (s *Scheduler) runAudit() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.auditor.Run(ctx); err != nil {
		s.log.Error("audit failed", "err", err)
	}
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int { return len(s.cron.Entries()) }
