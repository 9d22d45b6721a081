// Package scheduler runs the periodic reconciliation job.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Reconciler is the part of the reconcile service the job needs.
type Reconciler interface {
	ReconcileAll(ctx context.Context) ([]model.ReconcileResult, error)
}

// Scheduler owns a cron runner with a single reconciliation entry.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration
}

// New registers the reconciliation job on spec (standard five-field cron or a
// descriptor such as "@every 1h"). Overlapping runs are skipped.
func New(spec string, r Reconciler, log *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		log:     log,
		timeout: 10 * time.Minute,
	}
	cl := cronLogger{log: log}
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		),
	)

	if _, err := s.cron.AddFunc(spec, func() { s.run(r) }); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) run(r Reconciler) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	results, err := r.ReconcileAll(ctx)
	if err != nil {
		s.log.Error("scheduled reconciliation failed", "error", err)
		return
	}
	s.log.Debug("scheduled reconciliation ran", "portfolios", len(results))
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the runner and waits for an in-flight job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// cronLogger routes cron's own messages (panics, skipped runs) to the
// application logger. Routine scheduling chatter goes to Debug.
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.log.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
