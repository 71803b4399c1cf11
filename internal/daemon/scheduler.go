package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	apperrors "github.com/Onyx-Digital-Dev/vacuum-launcher/internal/errors"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/logfields"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/metrics"
	"github.com/Onyx-Digital-Dev/vacuum-launcher/internal/state"
)

// Task is one periodic collection domain. Tick samples the domain and
// returns the mutation that writes the sample into the aggregate; a nil
// mutation means there is nothing to commit this round.
type Task struct {
	Name     string
	Interval time.Duration
	Tick     func(ctx context.Context) (func(*state.Aggregate), error)
}

// Scheduler drives the collection tasks on their individual cadences and
// funnels every sample through the store's non-blocking write.
type Scheduler struct {
	scheduler gocron.Scheduler
	store     *state.Store
	tasks     []Task
	logger    *slog.Logger
	recorder  metrics.Recorder
}

// NewScheduler creates a scheduler instance for the given tasks.
func NewScheduler(store *state.Store, tasks []Task, logger *slog.Logger, recorder metrics.Recorder) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CategoryDaemon, apperrors.SeverityFatal, "failed to create gocron scheduler")
	}

	return &Scheduler{
		scheduler: s,
		store:     store,
		tasks:     tasks,
		logger:    logger,
		recorder:  recorder,
	}, nil
}

// Start registers every task and begins ticking. Each job also fires once
// immediately so the store fills without waiting out the first interval.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, task := range s.tasks {
		task := task
		_, err := s.scheduler.NewJob(
			gocron.DurationJob(task.Interval),
			gocron.NewTask(func() { s.runTick(ctx, task) }),
			gocron.WithName(task.Name),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return apperrors.Wrap(err, apperrors.CategoryDaemon, apperrors.SeverityFatal, "failed to schedule collection task").
				WithContext("task", task.Name)
		}
		s.logger.Debug("Scheduled collection task",
			logfields.Domain(task.Name),
			logfields.Interval(task.Interval.String()))
	}

	s.logger.Info("Starting collection scheduler", slog.Int("tasks", len(s.tasks)))
	s.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for in-flight ticks.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("Stopping collection scheduler")
	return s.scheduler.Shutdown()
}

// runTick executes one collection round: sample, then attempt a single
// non-blocking commit. A held lock discards the sample; the next interval
// delivers a fresh one, so nothing is logged for the skip.
func (s *Scheduler) runTick(ctx context.Context, task Task) {
	start := time.Now()
	apply, err := task.Tick(ctx)
	s.recorder.ObserveCollectDuration(task.Name, time.Since(start))

	if err != nil {
		s.recorder.IncTickResult(task.Name, metrics.ResultFailed)
		s.logger.Warn("Collection failed, keeping previous value",
			logfields.Domain(task.Name),
			logfields.Error(err))
	}
	if apply == nil {
		if err == nil {
			s.recorder.IncTickResult(task.Name, metrics.ResultSuccess)
		}
		return
	}

	if !s.store.TryUpdate(apply) {
		s.recorder.IncTickResult(task.Name, metrics.ResultSkipped)
		return
	}
	if err == nil {
		s.recorder.IncTickResult(task.Name, metrics.ResultSuccess)
	}
	s.recorder.SetStateVersion(s.store.Version())
}
