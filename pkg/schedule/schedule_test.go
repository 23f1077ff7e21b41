package schedule_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/pkg/schedule"
)

func start(t *testing.T, s *schedule.Scheduler) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestJobRunsRepeatedly(t *testing.T) {
	s := schedule.New(schedule.WithTick(5 * time.Millisecond))
	var n atomic.Int32
	s.Every(10 * time.Millisecond).Name("count").Run(func(context.Context) error {
		n.Add(1)
		return nil
	})
	start(t, s)

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestFailingAndPanickingJobsStayScheduled(t *testing.T) {
	s := schedule.New(schedule.WithTick(5 * time.Millisecond))
	var fails, panics atomic.Int32
	s.Every(10 * time.Millisecond).Name("fails").Run(func(context.Context) error {
		fails.Add(1)
		return errors.New("backend down")
	})
	s.Every(10 * time.Millisecond).Name("panics").Run(func(context.Context) error {
		panics.Add(1)
		panic("boom")
	})
	start(t, s)

	assert.Eventually(t, func() bool { return fails.Load() >= 2 && panics.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestWithoutOverlapping(t *testing.T) {
	s := schedule.New(schedule.WithTick(2 * time.Millisecond))
	var active, maxActive, runs atomic.Int32
	s.Every(2 * time.Millisecond).Name("slow").WithoutOverlapping().Run(func(context.Context) error {
		cur := active.Add(1)
		for {
			prev := maxActive.Load()
			if cur <= prev || maxActive.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		active.Add(-1)
		runs.Add(1)
		return nil
	})
	start(t, s)

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.EqualValues(t, 1, maxActive.Load())
}

func TestStartWaitsForRunningJobs(t *testing.T) {
	s := schedule.New(schedule.WithTick(2 * time.Millisecond))
	started := make(chan struct{}, 1)
	var finished atomic.Bool
	s.Every(2 * time.Millisecond).WithoutOverlapping().Run(func(ctx context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		finished.Store(true)
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}
	cancel()
	<-done
	assert.True(t, finished.Load())
}

func TestEntriesAreNamedAndSorted(t *testing.T) {
	s := schedule.New()
	noop := func(context.Context) error { return nil }
	s.Every(time.Minute).Name("limiter:sweep").Run(noop)
	s.Every(30 * time.Second).Name("catalog:refresh").Run(noop)
	s.Every(time.Hour).Run(noop)

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "catalog:refresh", entries[0].ID)
	assert.Equal(t, "job-3", entries[1].ID)
	assert.Equal(t, "limiter:sweep", entries[2].ID)
	assert.Equal(t, "catalog:refresh  [every 30s]", entries[0].String())
	assert.Zero(t, entries[0].Runs)
}
