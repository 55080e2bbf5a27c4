package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-server/internal/events"
)

func TestToMessage(t *testing.T) {
	occurred := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ev := events.Event{
		Type:       events.TradeApplied,
		UserID:     "user-1",
		OccurredAt: occurred,
		Payload:    map[string]string{"symbol": "AAPL"},
	}

	msg, err := toMessage("finance", ev)
	require.NoError(t, err)

	assert.Equal(t, "finance.trade_applied", msg.Topic)
	assert.Equal(t, []byte("user-1"), msg.Key)
	assert.True(t, msg.Time.Equal(occurred))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "trade_applied", decoded["type"])
	assert.Equal(t, "user-1", decoded["userId"])
	assert.Equal(t, "AAPL", decoded["payload"].(map[string]any)["symbol"])
}

func TestTopicFor_NoPrefix(t *testing.T) {
	assert.Equal(t, "holding_repriced", topicFor("", events.HoldingRepriced))
}

func TestToMessage_UnencodablePayload(t *testing.T) {
	_, err := toMessage("finance", events.Event{Type: events.TransactionPosted, Payload: make(chan int)})
	assert.Error(t, err)
}

func TestPublish_NoEventsIsNoop(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, "finance")
	defer p.Close()

	assert.NoError(t, p.Publish(context.Background()))
}
