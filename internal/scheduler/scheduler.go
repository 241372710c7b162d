// Package scheduler enqueues the club's recurring jobs on cron schedules:
// the daily overdue loan scan and the read-notification cleanup. The
// scheduler only enqueues; the task queue workers do the actual work, so
// a slow scan never blocks the cron loop.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/muhammedbesir/okuyamayanlar/internal/config"
	"github.com/muhammedbesir/okuyamayanlar/internal/tasks"
)

// Scheduler manages the periodic background jobs.
type Scheduler struct {
	taskClient *tasks.Client
	lending    config.Lending
	notifs     config.Notifications

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// New creates a scheduler that enqueues jobs on the given task client.
func New(taskClient *tasks.Client, lending config.Lending, notifs config.Notifications) *Scheduler {
	return &Scheduler{
		taskClient: taskClient,
		lending:    lending,
		notifs:     notifs,
		cron: cron.New(cron.WithParser(cron.NewParser(
			cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start registers the cron entries and begins the schedule loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.taskClient == nil {
		log.Printf("Scheduler: task queue disabled, skipping")
		return nil
	}

	if _, err := s.cron.AddFunc(s.lending.OverdueScanSchedule, s.enqueueOverdueScan); err != nil {
		return fmt.Errorf("invalid overdue scan schedule %q: %w", s.lending.OverdueScanSchedule, err)
	}

	if _, err := s.cron.AddFunc(s.notifs.CleanupSchedule, s.enqueueNotificationCleanup); err != nil {
		return fmt.Errorf("invalid notification cleanup schedule %q: %w", s.notifs.CleanupSchedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Scheduler: overdue scan %q, notification cleanup %q",
		s.lending.OverdueScanSchedule, s.notifs.CleanupSchedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for running entries.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Scheduler: stopped")
}

// IsRunning returns whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRuns returns the upcoming fire times of the registered entries.
func (s *Scheduler) NextRuns() []time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	times := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		times = append(times, entry.Next)
	}
	return times
}

// RunOverdueScanNow enqueues an immediate overdue scan.
func (s *Scheduler) RunOverdueScanNow() error {
	if s.taskClient == nil {
		return fmt.Errorf("task queue not configured")
	}
	_, err := s.taskClient.Add(tasks.OverdueScanTask{}).Save()
	return err
}

func (s *Scheduler) enqueueOverdueScan() {
	if _, err := s.taskClient.Add(tasks.OverdueScanTask{}).Save(); err != nil {
		log.Printf("Scheduler: failed to enqueue overdue scan: %v", err)
	}
}

func (s *Scheduler) enqueueNotificationCleanup() {
	task := tasks.CleanupNotificationsTask{RetentionDays: s.notifs.RetentionDays}
	if _, err := s.taskClient.Add(task).Save(); err != nil {
		log.Printf("Scheduler: failed to enqueue notification cleanup: %v", err)
	}
}
