package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	JobPriceRefresh  = "price_refresh"
	JobBudgetRefresh = "budget_refresh"
	JobDebtReminder  = "debt_reminder"
)

// jobTimeout bounds a single run.
const jobTimeout = 5 * time.Minute

type PriceRefresher interface {
	RefreshMarketPrices(ctx context.Context) (int, error)
}

type BudgetRefresher interface {
	RefreshActiveBudgets(ctx context.Context) (int, error)
}

type ReminderSender interface {
	SendPaymentReminders(ctx context.Context, now time.Time, days int) (int, error)
}

type JobObserver interface {
	ObserveJobRun(job string, err error)
}

type Scheduler struct {
	cron     *cron.Cron
	observer JobObserver
	now      func() time.Time
}

func New(observer JobObserver) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		observer: observer,
		now:      time.Now,
	}
}

func (s *Scheduler) AddPriceRefresh(spec string, prices PriceRefresher) error {
	return s.add(JobPriceRefresh, spec, func(ctx context.Context) (int, error) {
		return prices.RefreshMarketPrices(ctx)
	})
}

func (s *Scheduler) AddBudgetRefresh(spec string, budgets BudgetRefresher) error {
	return s.add(JobBudgetRefresh, spec, func(ctx context.Context) (int, error) {
		return budgets.RefreshActiveBudgets(ctx)
	})
}

func (s *Scheduler) AddDebtReminders(spec string, days int, reminders ReminderSender) error {
	return s.add(JobDebtReminder, spec, func(ctx context.Context) (int, error) {
		return reminders.SendPaymentReminders(ctx, s.now(), days)
	})
}

func (s *Scheduler) add(name, spec string, job func(ctx context.Context) (int, error)) error {
	if _, err := s.cron.AddFunc(spec, func() { s.run(name, job) }); err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", name, err)
	}
	slog.Info("scheduled job registered", "job", name, "schedule", spec)
	return nil
}

func (s *Scheduler) run(name string, job func(ctx context.Context) (int, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	affected, err := job(ctx)
	if s.observer != nil {
		s.observer.ObserveJobRun(name, err)
	}
	if err != nil {
		slog.Error("scheduled job failed", "job", name, "error", err)
		return
	}
	slog.Info("scheduled job completed", "job", name, "affected", affected, "duration", time.Since(start))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
