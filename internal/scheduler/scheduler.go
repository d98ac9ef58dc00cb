package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// EventLifecycleRepository advances event statuses along the time window.
// Both methods must guard on the source status so the transitions stay
// monotonic even if a job overlaps an operator's manual change.
type EventLifecycleRepository interface {
	ActivateDue(ctx context.Context, now time.Time) (int64, error)
	EndDue(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler periodically activates and ends events based on their start/end
// dates. CANCELLED events are never touched.
type Scheduler struct {
	repo  EventLifecycleRepository
	sched gocron.Scheduler
}

// New creates a Scheduler running the lifecycle job at the given interval.
func New(repo EventLifecycleRepository, interval time.Duration) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	s := &Scheduler{repo: repo, sched: sched}
	if _, err := sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.run),
	); err != nil {
		return nil, fmt.Errorf("register lifecycle job: %w", err)
	}
	return s, nil
}

// Start begins running the lifecycle job in the background.
func (s *Scheduler) Start() {
	s.sched.Start()
	log.Info().Msg("event lifecycle scheduler started")
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	now := time.Now().UTC()

	activated, err := s.repo.ActivateDue(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to activate due events")
	} else if activated > 0 {
		log.Info().Int64("count", activated).Msg("activated due events")
	}

	ended, err := s.repo.EndDue(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("failed to end due events")
	} else if ended > 0 {
		log.Info().Int64("count", ended).Msg("ended due events")
	}
}
