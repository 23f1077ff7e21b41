// Package schedule runs orderdesk's periodic background jobs, such as
// sweeping idle rate-limit buckets and refreshing the catalog cache.
//
// Usage:
//
//	s := schedule.New()
//	s.Every(time.Minute).Name("limiter:sweep").Run(func(ctx context.Context) error {
//	    limiter.Sweep(time.Now())
//	    return nil
//	})
//	s.Every(30 * time.Second).Name("catalog:refresh").WithoutOverlapping().Run(refresh)
//
//	go s.Start(ctx) // returns when ctx is cancelled
package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
)

// Task is one run of a job. A returned error is logged; the job stays
// scheduled.
type Task func(ctx context.Context) error

type entry struct {
	id        string
	interval  time.Duration
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
	runs    int
}

// Entry describes a registered job (for the CLI and tests).
type Entry struct {
	ID       string
	Interval time.Duration
	LastRun  time.Time
	Runs     int
}

func (e Entry) String() string {
	return fmt.Sprintf("%s  [every %s]", e.ID, e.Interval)
}

// ------------------- Scheduler -------------------

// Scheduler dispatches due jobs on every tick. The zero value is not usable;
// call New.
type Scheduler struct {
	tick time.Duration

	mu      sync.Mutex
	entries []*entry
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTick sets how often due jobs are checked (default one second).
func WithTick(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tick = d
		}
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{tick: time.Second}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Every starts a builder for a job repeated every d.
func (s *Scheduler) Every(d time.Duration) *Builder {
	return &Builder{s: s, e: &entry{interval: d}}
}

// Entries lists registered jobs ordered by id.
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		e.mu.Lock()
		out = append(out, Entry{ID: e.id, Interval: e.interval, LastRun: e.lastRun, Runs: e.runs})
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Start dispatches jobs until ctx is cancelled, then waits for running jobs
// to return. Jobs receive ctx and should stop when it is done.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	logger.Info("schedule: started", "jobs", len(s.Entries()))

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("schedule: stopped")
			return
		case now := <-ticker.C:
			s.mu.Lock()
			current := append([]*entry(nil), s.entries...)
			s.mu.Unlock()

			for _, e := range current {
				if e.due(now) {
					s.dispatch(ctx, e, now)
				}
			}
		}
	}
}

// ------------------- Builder -------------------

// Builder configures one job before Run registers it.
type Builder struct {
	s *Scheduler
	e *entry
}

// Name sets the job id used in logs and listings.
func (b *Builder) Name(id string) *Builder {
	b.e.id = id
	return b
}

// WithoutOverlapping skips a run while the previous one is still going.
func (b *Builder) WithoutOverlapping() *Builder {
	b.e.noOverlap = true
	return b
}

// Run registers the job. The first run happens one interval after Start.
func (b *Builder) Run(task Task) {
	b.e.task = task

	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if b.e.id == "" {
		b.e.id = fmt.Sprintf("job-%d", len(b.s.entries)+1)
	}
	b.s.entries = append(b.s.entries, b.e)
}

// ------------------- Dispatch -------------------

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastRun.IsZero() {
		e.lastRun = now
		return false
	}
	return now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping run", "job", e.id)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("schedule: job panicked", "job", e.id, "panic", r)
			}
			e.mu.Lock()
			e.running = false
			e.runs++
			e.mu.Unlock()
		}()

		start := time.Now()
		if err := e.task(ctx); err != nil {
			logger.Warn("schedule: job failed", "job", e.id, "error", err, "elapsed", time.Since(start))
			return
		}
		logger.Debug("schedule: job done", "job", e.id, "elapsed", time.Since(start))
	}()
}
