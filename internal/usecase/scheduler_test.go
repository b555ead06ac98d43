package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when Sleep is called.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 10, 14, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

func TestPartition(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Partition([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2, 3}}, Partition([]int{1, 2, 3}, 5))
	assert.Nil(t, Partition([]int{}, 5))
	assert.Nil(t, Partition([]int{1}, 0))
}

func TestSchedulerQuotaWindow(t *testing.T) {
	clock := newFakeClock()
	var mu sync.Mutex
	var stamps []time.Time
	call := func(context.Context) {
		mu.Lock()
		stamps = append(stamps, clock.Now())
		mu.Unlock()
	}

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = call
	}
	batches := Partition(tasks, 5)
	require.Len(t, batches, 2)

	s := &Scheduler{BatchSize: 5, Cooldown: 65 * time.Second, Sleep: clock.Sleep}
	require.NoError(t, s.Run(context.Background(),
		Stage{Name: "one", Quota: batches[0]},
		Stage{Name: "two", Quota: batches[1]},
	))

	require.Len(t, stamps, 10)
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	for i, start := range stamps {
		inWindow := 0
		for _, ts := range stamps[i:] {
			if ts.Sub(start) < time.Minute {
				inWindow++
			}
		}
		assert.LessOrEqual(t, inWindow, 5, "window starting at %s", start)
	}
}

func TestSchedulerAlongsideStartsWithStage(t *testing.T) {
	clock := newFakeClock()
	var mu sync.Mutex
	started := map[string]time.Time{}
	record := func(name string) {
		mu.Lock()
		started[name] = clock.Now()
		mu.Unlock()
	}
	// The alongside task signals once it has read the clock; the quota task
	// of the same stage waits for it so the cooldown cannot run first.
	pair := func(quota, alongside string) (Task, Task) {
		ready := make(chan struct{})
		return func(context.Context) {
				<-ready
				record(quota)
			}, func(context.Context) {
				record(alongside)
				close(ready)
			}
	}
	q1, series := pair("q1", "series")
	q2, intl := pair("q2", "intl")

	s := &Scheduler{BatchSize: 5, Cooldown: 65 * time.Second, Sleep: clock.Sleep}
	require.NoError(t, s.Run(context.Background(),
		Stage{Name: "one", Quota: []Task{q1}, Alongside: []Task{series}},
		Stage{Name: "two", Quota: []Task{q2}, Alongside: []Task{intl}},
	))

	assert.Equal(t, started["q1"], started["series"])
	assert.Equal(t, started["q2"], started["intl"])
	assert.Equal(t, 65*time.Second, started["q2"].Sub(started["q1"]))
}

func TestSchedulerSkipsCooldownWithoutQuota(t *testing.T) {
	var sleeps int32
	s := &Scheduler{BatchSize: 5, Cooldown: time.Hour, Sleep: func(context.Context, time.Duration) error {
		atomic.AddInt32(&sleeps, 1)
		return nil
	}}
	var ran int32
	task := func(context.Context) { atomic.AddInt32(&ran, 1) }

	require.NoError(t, s.Run(context.Background(),
		Stage{Name: "one", Alongside: []Task{task}},
		Stage{Name: "two", Alongside: []Task{task}},
	))
	assert.EqualValues(t, 2, ran)
	assert.Zero(t, sleeps)
}

func TestSchedulerRejectsOversizedBatch(t *testing.T) {
	var ran int32
	task := func(context.Context) { atomic.AddInt32(&ran, 1) }
	s := &Scheduler{BatchSize: 2}

	err := s.Run(context.Background(), Stage{Name: "big", Quota: []Task{task, task, task}})
	assert.ErrorIs(t, err, ErrBatchTooLarge)
	assert.Zero(t, ran)
}

func TestSchedulerCancelledDuringCooldown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var second int32
	s := &Scheduler{BatchSize: 5, Cooldown: time.Minute, Sleep: Sleep}

	err := s.Run(ctx,
		Stage{Name: "one", Quota: []Task{func(context.Context) { cancel() }}},
		Stage{Name: "two", Quota: []Task{func(context.Context) { atomic.AddInt32(&second, 1) }}},
	)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, second)
}

func TestSchedulerRecoversTaskPanic(t *testing.T) {
	s := &Scheduler{BatchSize: 5}
	var ok int32
	err := s.Run(context.Background(), Stage{
		Name:      "one",
		Quota:     []Task{func(context.Context) { panic("boom") }},
		Alongside: []Task{func(context.Context) { atomic.AddInt32(&ok, 1) }},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.EqualValues(t, 1, ok)
}
