package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Refresher runs one dashboard refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Scheduler periodically refreshes the dashboard.
type Scheduler struct {
	scheduler *gocron.Scheduler
	target    Refresher
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. An interval of zero or less disables it.
func New(interval, timeout time.Duration, target Refresher) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		target:    target,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the periodic refresh job and starts the underlying scheduler.
// The first run happens one interval after Start.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh interval disabled; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Printf("INFO: scheduler: refreshing every %s", s.interval)
	return nil
}

func (s *Scheduler) run() {
	log.Println("scheduler: running dashboard refresh job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.target.Refresh(ctx)
	log.Println("scheduler: completed dashboard refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
