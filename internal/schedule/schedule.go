// Package schedule runs the periodic jobs on independent cron entries.
package schedule

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the cron instance driving the sweep, digest, and report
// jobs. Every entry is wrapped with SkipIfStillRunning, so a tick that
// fires while the previous tick of the same job is still going is skipped;
// entries never block each other.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a scheduler in the given time zone.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
	}
}

// AddEvery registers a job on a fixed interval.
func (s *Scheduler) AddEvery(name string, interval time.Duration, job func() error) error {
	return s.add(name, fmt.Sprintf("@every %s", interval), job)
}

// AddDaily registers a job at the top of the given local hour.
func (s *Scheduler) AddDaily(name string, hour int, job func() error) error {
	return s.add(name, fmt.Sprintf("0 %d * * *", hour), job)
}

func (s *Scheduler) add(name, spec string, job func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := job(); err != nil {
			log.Printf("%s job failed: %v", name, err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling %s (%s): %w", name, spec, err)
	}
	log.Printf("Scheduled %s: %s", name, spec)
	return nil
}

// Start begins running entries in their own goroutines.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
