package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/carson-networks/finance-server/internal/events"
)

// Publisher writes each event to "<prefix>.<event type>", keyed by user so one
// user's events stay ordered within a partition.
type Publisher struct {
	writer *kafka.Writer
	prefix string
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topicPrefix string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			MaxAttempts:            3,
			WriteTimeout:           5 * time.Second,
			AllowAutoTopicCreation: true,
		},
		prefix: topicPrefix,
	}
}

func (p *Publisher) Publish(ctx context.Context, evs ...events.Event) error {
	if len(evs) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(evs))
	for _, ev := range evs {
		msg, err := toMessage(p.prefix, ev)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}
	return p.writer.WriteMessages(ctx, messages...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func topicFor(prefix string, t events.Type) string {
	if prefix == "" {
		return string(t)
	}
	return prefix + "." + string(t)
}

func toMessage(prefix string, ev events.Event) (kafka.Message, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: encode %s: %w", ev.Type, err)
	}
	return kafka.Message{
		Topic: topicFor(prefix, ev.Type),
		Key:   []byte(ev.UserID),
		Value: data,
		Time:  ev.OccurredAt,
	}, nil
}
