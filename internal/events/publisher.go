// Package events publishes fasting lifecycle events for downstream consumers such as
// notification delivery.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/terraincognita07/fastfit/internal/services"
)

const cycleClosedEventType = "fasting.cycle_closed"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes cycle events to a single topic keyed by user id, so one user's
// events stay ordered within a partition.
type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
		},
		timeout: 5 * time.Second,
	}
}

func newPublisherWithWriter(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, timeout: 5 * time.Second}
}

func (publisher *KafkaPublisher) PublishCycleClosed(ctx context.Context, event services.CycleClosedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode cycle closed event: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, publisher.timeout)
	defer cancel()

	message := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.UserID), 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(cycleClosedEventType)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}
	if err := publisher.writer.WriteMessages(writeCtx, message); err != nil {
		return fmt.Errorf("write cycle closed event: %w", err)
	}
	return nil
}

func (publisher *KafkaPublisher) Close() error {
	return publisher.writer.Close()
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishCycleClosed(context.Context, services.CycleClosedEvent) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}

type Publisher interface {
	services.CycleEventPublisher
	Close() error
}

func NewPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(brokers, topic)
}
