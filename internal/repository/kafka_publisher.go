package repository

import (
	"context"

	"MarketBrief/internal/domain/models"
)

type messagePublisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
}

// KafkaReportPublisher emits a ReportEvent per stored report, keyed by
// report date so reruns of the same day land on one partition.
type KafkaReportPublisher struct {
	producer messagePublisher
	topic    string
}

func NewKafkaReportPublisher(producer messagePublisher, topic string) *KafkaReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) PublishReport(ctx context.Context, ev models.ReportEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.ReportDate), ev)
}
