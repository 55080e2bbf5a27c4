package operator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

const (
	queueSize      = 1000
	outboxSize     = 1000
	publishTimeout = 5 * time.Second
)

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
// Events of committed actions are published by a separate goroutine so a slow
// broker never holds a worker.
type OperatorDelegator struct {
	storage    *storage.Storage
	publisher  events.Publisher
	queue      chan ActionItem
	outbox     chan []events.Event
	numWorkers int
	wg         sync.WaitGroup
	pubWG      sync.WaitGroup
	stopOnce   sync.Once
}

func NewOperatorDelegator(s *storage.Storage, numWorkers int, publisher events.Publisher) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	d := &OperatorDelegator{
		storage:    s,
		publisher:  publisher,
		queue:      make(chan ActionItem, queueSize),
		numWorkers: numWorkers,
	}
	if publisher != nil {
		d.outbox = make(chan []events.Event, outboxSize)
	}
	return d
}

func (d *OperatorDelegator) Start() {
	if d.outbox != nil {
		d.pubWG.Add(1)
		go func() {
			defer d.pubWG.Done()
			d.runPublisher()
		}()
	}

	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queue, d.outbox)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop drains the queue, then publishes whatever the workers left in the outbox.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
		if d.outbox != nil {
			close(d.outbox)
			d.pubWG.Wait()
		}
	})
}

func (d *OperatorDelegator) runPublisher() {
	for evs := range d.outbox {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := d.publisher.Publish(ctx, evs...)
		cancel()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"userID": evs[0].UserID,
				"events": len(evs),
			}).Error("OperatorDelegator.publish")
		}
	}
}

// Process runs action for session on a worker and waits for its outcome. The
// action's results are readable from the action once Process returns nil.
//
// If ctx ends while the item is still queued, the action never runs and
// ctx.Err() is returned. Once a worker has picked the item up, Process waits
// for it: the worker rolls back if ctx ended before the commit, so the error
// returned always matches whether the write happened.
func (d *OperatorDelegator) Process(ctx context.Context, session storage.Session, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		session:  session,
		action:   action,
		response: respCh,
		state:    new(atomic.Int32),
	}

	select {
	case d.queue <- item:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
	}

	if item.abandon() {
		return ctx.Err()
	}
	return (<-respCh).err
}

// QueueDepth reports how many actions are waiting for a worker.
func (d *OperatorDelegator) QueueDepth() int {
	return len(d.queue)
}
