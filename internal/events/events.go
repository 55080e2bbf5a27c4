// Package events describes what the server announces after a write commits.
package events

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type Type string

const (
	TransactionPosted Type = "transaction_posted"
	TradeApplied      Type = "trade_applied"
	HoldingRepriced   Type = "holding_repriced"
)

// Event is one committed change. Payload is JSON-encoded by publishers.
type Event struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

// Publisher delivers events. Delivery is best effort; callers log failures
// and carry on.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// LogPublisher writes events to the log. It is used when no broker is configured.
type LogPublisher struct {
	logger *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, events ...Event) error {
	for _, ev := range events {
		p.logger.WithFields(logrus.Fields{
			"eventType": ev.Type,
			"userID":    ev.UserID,
		}).Debug("events.Publish")
	}
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
