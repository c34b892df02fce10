package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// Job is a named refresh task.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler periodically runs the kiosk's refresh jobs (camp weather,
// prayer timings).
type Scheduler struct {
	scheduler *gocron.Scheduler
	jobs      []Job
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler.
func New(jobs []Job, interval time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		jobs:      jobs,
		interval:  interval,
		timeout:   30 * time.Second,
	}
}

// Start schedules the periodic run and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.jobs) == 0 {
		log.Println("scheduler: no jobs configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 10
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.RunOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce runs every job concurrently and waits for them to finish.
func (s *Scheduler) RunOnce() {
	log.Println("scheduler: running refresh jobs")

	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			if err := job.Run(ctx); err != nil {
				log.Printf("scheduler: %s failed: %v", job.Name, err)
			}
		}(job)
	}
	wg.Wait()
	log.Println("scheduler: completed refresh jobs")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
