package jobs

import (
	"fmt"
	"time"

	"venue-booking/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs the Runner's jobs on cron specs with seconds precision, in UTC.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

func NewScheduler(runner *Runner, config utils.SchedulerConfig, log *zap.Logger) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{name: "session_cleanup", spec: config.SessionCleanup, run: runner.CleanSessions},
		{name: "payment_reminder", spec: config.PaymentReminder, run: runner.RemindDuePayments},
	}

	for _, job := range jobs {
		if job.spec == "" {
			log.Info("Job disabled", zap.String("job", job.name))
			continue
		}
		if _, err := c.AddFunc(job.spec, job.run); err != nil {
			return nil, fmt.Errorf("register job %s with spec %q: %w", job.name, job.spec, err)
		}
	}

	return &Scheduler{cron: c, log: log.With(zap.String("service", "scheduler"))}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Cron scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Cron scheduler stopped")
}
