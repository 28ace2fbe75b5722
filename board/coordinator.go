package board

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/0n0123/kanban/domain"
)

// Coordinator applies inbound mutation batches to the store and fans the
// successful subset out to every connected client.
type Coordinator struct {
	store    Storage
	updaters map[string]updater
	out      Broadcaster
	logger   *log.Logger
}

func NewCoordinator(store Storage, out Broadcaster, logger *log.Logger) *Coordinator {
	return &Coordinator{
		store:    store,
		updaters: newUpdaters(store),
		out:      out,
		logger:   logger,
	}
}

// Handle processes one batch. Items are applied in array order; a failed
// item is logged and dropped, never aborting the rest of the batch. The
// survivors (possibly none) are broadcast under the inbound event name to
// all clients, the sender included. Unknown event names are dropped whole.
func (c *Coordinator) Handle(ctx context.Context, event string, msg domain.Message) {
	metrics, ctx := newBatchMetrics(ctx, c.logger, event)
	metrics.SetReceived(len(msg.Tasks))

	var result domain.Message
	switch {
	case event == domain.EventCreate:
		result = c.createAll(ctx, msg, metrics)
	default:
		u, ok := c.updaters[event]
		if !ok {
			c.logger.WithField("event", event).Warn("unknown event")
			metrics.Log(errUnknownEvent)
			return
		}
		result = c.updateAll(ctx, u, msg, metrics)
	}

	metrics.SetApplied(len(result.Tasks))
	metrics.Log(nil)
	c.out.Broadcast(event, result)
}

func (c *Coordinator) createAll(ctx context.Context, msg domain.Message, metrics *batchMetrics) domain.Message {
	result := domain.Message{Tasks: []domain.Task{}}
	for _, candidate := range msg.Tasks {
		created, err := c.store.Create(ctx, candidate)
		if err != nil {
			c.logger.WithError(err).Error("failed to create task")
			metrics.AddFailed()
			continue
		}
		c.logger.WithField("task", created.ID).Info("task created")
		result.Tasks = append(result.Tasks, created)
	}
	return result
}

func (c *Coordinator) updateAll(ctx context.Context, u updater, msg domain.Message, metrics *batchMetrics) domain.Message {
	result := domain.Message{Tasks: []domain.Task{}}
	for _, task := range msg.Tasks {
		if err := u.Apply(ctx, task); err != nil {
			c.logger.WithError(err).WithFields(log.Fields{
				"event": u.Event(),
				"task":  task.ID,
			}).Error("failed to update task")
			metrics.AddFailed()
			continue
		}
		result.Tasks = append(result.Tasks, task)
	}
	return result
}
