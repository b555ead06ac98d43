package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketBrief/internal/domain/models"
)

type recordingProducer struct {
	topic string
	key   []byte
	value interface{}
}

func (p *recordingProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	p.topic, p.key, p.value = topic, key, value
	return nil
}

func TestKafkaReportPublisherKeysByDate(t *testing.T) {
	prod := &recordingProducer{}
	pub := NewKafkaReportPublisher(prod, "report.generated")

	ev := models.ReportEvent{ReportID: "1", RunID: "r", ReportDate: "2025-10-14", GeneratedAt: time.Now()}
	require.NoError(t, pub.PublishReport(context.Background(), ev))

	assert.Equal(t, "report.generated", prod.topic)
	assert.Equal(t, []byte("2025-10-14"), prod.key)
	assert.Equal(t, ev, prod.value)
}
