package operator

import (
	"context"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	storage *storage.Storage
	queue   chan ActionItem
	outbox  chan<- []events.Event
}

// NewOperator creates a worker. Committed events go to outbox; a nil outbox
// discards them.
func NewOperator(s *storage.Storage, queue chan ActionItem, outbox chan<- []events.Event) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		outbox:  outbox,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		// The caller gave up while the item sat in the queue and has
		// already been told so.
		if !item.claim() {
			continue
		}
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) error {
	if err := item.ctx.Err(); err != nil {
		return err
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.WithFields(logrus.Fields{
			"userID": item.session.UserID,
			"action": spew.Sdump(item.action),
		}).Debug("Operator.processItem")
	}

	writer, err := o.storage.Write(item.ctx, item.session)
	if err != nil {
		return err
	}

	err = item.action.Perform(item.ctx, writer)
	if err == nil {
		// Cancellation up to the commit rolls the action back.
		err = item.ctx.Err()
	}
	if err != nil {
		_ = writer.Rollback()
		return err
	}

	if err = writer.Commit(); err != nil {
		_ = writer.Rollback()
		return err
	}

	o.publish(item)
	return nil
}

// publish hands a committed action's events to the outbox without waiting.
// A full outbox drops them; the write has already happened.
func (o *Operator) publish(item ActionItem) {
	source, ok := item.action.(actions.IEventSource)
	if !ok || o.outbox == nil {
		return
	}

	evs := source.Events()
	if len(evs) == 0 {
		return
	}
	for i := range evs {
		evs[i].UserID = item.session.UserID
	}

	select {
	case o.outbox <- evs:
	default:
		logrus.WithFields(logrus.Fields{
			"userID": item.session.UserID,
			"events": len(evs),
		}).Error("Operator.publish: outbox full, events dropped")
	}
}

const (
	itemQueued int32 = iota
	itemClaimed
	itemAbandoned
)

type ActionItem struct {
	ctx      context.Context
	session  storage.Session
	action   actions.IAction
	response chan ActionItemResponse
	state    *atomic.Int32
}

// claim marks the item as taken by a worker. It fails if the caller already
// abandoned it.
func (i ActionItem) claim() bool {
	return i.state.CompareAndSwap(itemQueued, itemClaimed)
}

// abandon withdraws a queued item. It fails once a worker has claimed it.
func (i ActionItem) abandon() bool {
	return i.state.CompareAndSwap(itemQueued, itemAbandoned)
}

type ActionItemResponse struct {
	err error
}
