package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *captureWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &captureWriter{}
	p := newProducer(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "report.generated", []byte("2025-10-14"), map[string]string{"report_id": "42"}))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "report.generated", w.msgs[0].Topic)
	assert.Equal(t, []byte("2025-10-14"), w.msgs[0].Key)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "42", got["report_id"])

	require.NoError(t, p.PublishMessage(context.Background(), "logs", "raw"))
	assert.Equal(t, []byte("raw"), w.msgs[1].Value)
	assert.Nil(t, w.msgs[1].Key)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &captureWriter{err: errors.New("leader not available")}
	p := newProducer(w, "gzip")

	err := p.Publish(context.Background(), "t", nil, []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
}
