package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrBatchTooLarge is returned when a stage carries more quota calls than
// the provider accepts per window.
var ErrBatchTooLarge = errors.New("scheduler: batch exceeds quota")

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real-time SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Task is one unit of work. It stores its own result; tasks of a group must
// write to disjoint slots.
type Task func(ctx context.Context)

// Stage is one quota batch plus the unthrottled work that overlaps it.
type Stage struct {
	Name      string
	Quota     []Task
	Alongside []Task
}

// Scheduler spaces quota batches by a fixed cooldown. A quota batch runs
// fully in parallel and is joined before the cooldown starts; alongside tasks
// start with their stage and are joined at the end of the run. The cooldown
// only separates two non-empty quota batches.
type Scheduler struct {
	BatchSize int
	Cooldown  time.Duration
	Sleep     SleepFunc
}

// Partition splits items into consecutive batches of at most size.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// Run executes stages in order. It returns ctx.Err() if the context is
// cancelled during a cooldown, or an error if any task panicked; in both
// cases every started task has returned.
func (s *Scheduler) Run(ctx context.Context, stages ...Stage) error {
	for _, st := range stages {
		if s.BatchSize > 0 && len(st.Quota) > s.BatchSize {
			return fmt.Errorf("%w: stage %q has %d calls, limit %d", ErrBatchTooLarge, st.Name, len(st.Quota), s.BatchSize)
		}
	}
	sleep := s.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	g := &group{}

	prevQuota := false
	for _, st := range stages {
		if prevQuota && len(st.Quota) > 0 && s.Cooldown > 0 {
			if err := sleep(ctx, s.Cooldown); err != nil {
				g.wg.Wait()
				return err
			}
		}

		for _, t := range st.Alongside {
			g.goTask(ctx, st.Name, t)
		}

		batch := &group{}
		for _, t := range st.Quota {
			batch.goTask(ctx, st.Name, t)
		}
		batch.wg.Wait()
		g.merge(batch.err())
		if len(st.Quota) > 0 {
			prevQuota = true
		}
	}

	g.wg.Wait()
	return g.err()
}

// group is a WaitGroup that converts task panics into an error.
type group struct {
	wg    sync.WaitGroup
	mu    sync.Mutex
	first error
}

func (g *group) goTask(ctx context.Context, stage string, t Task) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.merge(fmt.Errorf("stage %q: task panicked: %v", stage, r))
			}
		}()
		t(ctx)
	}()
}

func (g *group) merge(err error) {
	if err == nil {
		return
	}
	g.mu.Lock()
	if g.first == nil {
		g.first = err
	}
	g.mu.Unlock()
}

func (g *group) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.first
}
