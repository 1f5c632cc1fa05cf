package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ReportStatusEvent is the payload published when a report changes status
type ReportStatusEvent struct {
	ReportID   int       `json:"report_id"`
	OldStatus  string    `json:"old_status,omitempty"`
	NewStatus  string    `json:"new_status"`
	OwnerID    *int      `json:"owner_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes report lifecycle events to Kafka topics
type Producer struct {
	writers  map[string]*kafka.Writer
	brokers  []string
	clientID string
	logger   *zap.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, clientID string, logger *zap.Logger) *Producer {
	return &Producer{
		writers:  make(map[string]*kafka.Writer),
		brokers:  brokers,
		clientID: clientID,
		logger:   logger,
	}
}

// getWriter returns a Kafka writer for the specified topic
func (p *Producer) getWriter(topic string) *kafka.Writer {
	if writer, exists := p.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(p.brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Transport: &kafka.Transport{
			ClientID: p.clientID,
		},
	}

	p.writers[topic] = writer
	return writer
}

// PublishStatusChange sends a status-change event to a Kafka topic, keyed by
// report id
func (p *Producer) PublishStatusChange(ctx context.Context, topic string, event ReportStatusEvent) error {
	writer := p.getWriter(topic)

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal status event",
			zap.String("topic", topic),
			zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(event.ReportID)),
		Value: value,
		Time:  time.Now(),
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish status event",
			zap.String("topic", topic),
			zap.Int("report_id", event.ReportID),
			zap.Error(err))
		return err
	}

	p.logger.Debug("Status event published",
		zap.String("topic", topic),
		zap.Int("report_id", event.ReportID))

	return nil
}

// Close closes all Kafka writers
func (p *Producer) Close() error {
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil {
			p.logger.Error("Failed to close Kafka writer",
				zap.String("topic", topic),
				zap.Error(err))
		}
	}
	return nil
}
