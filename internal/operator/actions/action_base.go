package actions

import (
	"context"
	"time"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// IEventSource is implemented by actions that announce what they committed.
// Events is only called after a successful commit.
type IEventSource interface {
	Events() []events.Event
}

// Clock is embedded by actions that stamp times. A nil Now means time.Now.
type Clock struct {
	Now func() time.Time
}

func (c Clock) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
