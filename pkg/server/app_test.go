package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBrief/internal/domain/models"
	"MarketBrief/pkg/config"
)

type stubGenerator struct {
	date string
	err  error
}

func (g *stubGenerator) Generate(_ context.Context, date string) (*models.GenerateResult, error) {
	g.date = date
	if g.err != nil {
		return nil, g.err
	}
	return &models.GenerateResult{ReportID: "rep-1", RunID: "run-1"}, nil
}

func TestRunOnceClosesInReverseOrder(t *testing.T) {
	gen := &stubGenerator{}
	app := New(config.Default(), nil, gen, nil)

	var order []string
	app.OnClose("cache", func() error { order = append(order, "cache"); return nil })
	app.OnClose("sink", func() error { order = append(order, "sink"); return nil })

	res, err := app.RunOnce(context.Background(), "2025-10-14")
	require.NoError(t, err)
	assert.Equal(t, "rep-1", res.ReportID)
	assert.Equal(t, "2025-10-14", gen.date)
	assert.Equal(t, []string{"sink", "cache"}, order)
}

func TestRunOnceReturnsGeneratorError(t *testing.T) {
	app := New(config.Default(), nil, &stubGenerator{err: errors.New("boom")}, nil)
	closed := false
	app.OnClose("kafka", func() error { closed = true; return nil })

	_, err := app.RunOnce(context.Background(), "")
	assert.EqualError(t, err, "boom")
	assert.True(t, closed)
}

func TestCloseJoinsErrors(t *testing.T) {
	app := New(config.Default(), nil, &stubGenerator{}, nil)
	app.OnClose("redis", func() error { return errors.New("redis gone") })
	app.OnClose("clickhouse", func() error { return errors.New("ch gone") })

	err := app.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close redis: redis gone")
	assert.Contains(t, err.Error(), "close clickhouse: ch gone")

	assert.NoError(t, app.Close(), "closers run once")
}

func TestServeStopsOnContextCancel(t *testing.T) {
	cfg := config.Default()
	cfg.Server.Port = 0
	app := New(cfg, nil, &stubGenerator{}, nil)
	closed := make(chan struct{})
	app.OnClose("sink", func() error { close(closed); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
	<-closed
}
