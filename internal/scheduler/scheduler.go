// Package scheduler runs housekeeping jobs on cron schedules while the API
// server is up. Each job can also be run once by name from the CLI.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
)

// Job holds a schedule and the work to run. An empty schedule registers the
// job for manual runs only.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// Scheduler wraps a cron runner with the named jobs it was built from
type Scheduler struct {
	cron    *cron.Cron
	jobs    map[string]Job
	timeout time.Duration
}

// New validates every schedule and registers the jobs. Nothing runs until Start.
func New(timeout time.Duration, jobs ...Job) (*Scheduler, error) {
	logger := cron.PrintfLogger(log.New(os.Stderr, "cron: ", log.LstdFlags))
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		jobs:    make(map[string]Job, len(jobs)),
		timeout: timeout,
	}

	for _, job := range jobs {
		if _, dup := s.jobs[job.Name]; dup {
			return nil, fmt.Errorf("scheduler: duplicate job %s", job.Name)
		}
		s.jobs[job.Name] = job
		if job.Schedule == "" {
			continue
		}
		name := job.Name
		if _, err := s.cron.AddFunc(job.Schedule, func() { s.runLogged(name) }); err != nil {
			return nil, fmt.Errorf("scheduler: job %s: %w", job.Name, err)
		}
	}

	return s, nil
}

// Start begins running scheduled jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish or ctx to end
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Names lists the registered jobs in alphabetical order
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes one job immediately
func (s *Scheduler) Run(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("scheduler: unknown job %s", name)
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return job.Run(ctx)
}

func (s *Scheduler) runLogged(name string) {
	start := time.Now()
	if err := s.Run(context.Background(), name); err != nil {
		log.Printf("cron: job %s failed after %v: %v", name, time.Since(start), err)
		return
	}
	log.Printf("cron: job %s finished in %v", name, time.Since(start))
}
