package events

import (
	"context"
	"fmt"
	"schoolclasses/pkg/kafka"
	kafka_config "schoolclasses/pkg/kafka/config"
	kafka_middleware "schoolclasses/pkg/kafka/middleware"
	"schoolclasses/pkg/logger"
	"schoolclasses/pkg/middleware"
	"schoolclasses/pkg/model"
)

const SchemaVersion = "1"

type messageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messageProducer
	metrics  *kafka_middleware.Metrics
	log      *logger.Logger
}

// NewKafkaPublisher writes seat events to the configured seat events topic,
// keyed by class id so that events for one class stay ordered.
func NewKafkaPublisher(cfg *kafka_config.Config, log *logger.Logger, metrics *kafka_middleware.Metrics) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, cfg.SeatEventsTopic, "", log)
	if err != nil {
		return nil, fmt.Errorf("failed to create seat event producer: %w", err)
	}

	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
		if metrics != nil {
			producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics))
		}
	}

	log.Info("Seat event publisher ready", "topic", producer.Topic(), "brokers", cfg.Brokers)

	return newKafkaPublisher(producer, metrics, log), nil
}

func newKafkaPublisher(producer messageProducer, metrics *kafka_middleware.Metrics, log *logger.Logger) *kafkaPublisher {
	return &kafkaPublisher{producer: producer, metrics: metrics, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event model.SeatEvent) error {
	if !model.IsKnownSeatEventType(event.Type) {
		return fmt.Errorf("unknown seat event type %q", event.Type)
	}

	msg, err := kafka.NewMessage().
		WithKey(event.ClassID).
		WithValue(event).
		WithEventID(event.ID).
		WithEventType(event.Type).
		WithSource(Source).
		WithSchemaVersion(SchemaVersion).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithTimestamp(event.OccurredAt).
		BuildE()
	if err != nil {
		return err
	}

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	if p.metrics != nil {
		p.log.Info("Seat event publisher closing", p.metrics.Snapshot().LogAttrs()...)
	}
	return p.producer.Close()
}
