package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/coastal-erosion-api/internal/config"
	"github.com/couchcryptid/coastal-erosion-api/internal/domain"
	"github.com/couchcryptid/coastal-erosion-api/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

const writeBatchTimeout = 10 * time.Millisecond

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces stored event reports to the reports topic so downstream
// consumers can react to new citizen observations.
type Publisher struct {
	writer  messageWriter
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured reports topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	return &Publisher{writer: newWriter(cfg), metrics: metrics, logger: logger}
}

// newWriter flushes each message immediately and makes a single attempt.
func newWriter(cfg *config.Config) *kafkago.Writer {
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaReportsTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchSize:              1,
		BatchTimeout:           writeBatchTimeout,
		MaxAttempts:            1,
	}
}

// PublishReport writes one report keyed by its id, so all messages for a
// report land on the same partition.
func (p *Publisher) PublishReport(ctx context.Context, report domain.EventReport) error {
	msg, err := serializeToMessage(report)
	if err == nil {
		err = p.writer.WriteMessages(ctx, msg)
	}
	p.metrics.ReportsPublished.WithLabelValues(observability.Outcome(err)).Inc()
	if err != nil {
		return fmt.Errorf("publish event report %d: %w", report.ID, err)
	}
	p.logger.Debug("event report published", "report_id", report.ID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an EventReport into a Kafka message.
func serializeToMessage(report domain.EventReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(report.ID, 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(report.EventType)},
			{Key: "created_at", Value: []byte(report.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
