package board

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/0n0123/kanban/domain"
)

// Relay bridges broadcasts between board instances through a Redis channel
// so several processes can serve the same board. It wraps a local
// Broadcaster: local delivery happens first, then the frame is published
// for the other instances. Without a relay the hub alone is the broadcaster.
type Relay struct {
	rc      *redis.Client
	channel string
	source  string
	local   Broadcaster
	logger  *log.Logger
}

type relayMessage struct {
	Source string         `json:"source"`
	Event  string         `json:"event"`
	Data   domain.Message `json:"data"`
}

func NewRelay(rc *redis.Client, channel string, local Broadcaster, logger *log.Logger) *Relay {
	return &Relay{
		rc:      rc,
		channel: channel,
		source:  uuid.NewString(),
		local:   local,
		logger:  logger,
	}
}

// Broadcast delivers locally and publishes for the other instances.
// Publish failures are logged; the local clients already have the frame.
func (r *Relay) Broadcast(event string, msg domain.Message) {
	r.local.Broadcast(event, msg)
	data, err := sonic.ConfigStd.Marshal(relayMessage{Source: r.source, Event: event, Data: msg})
	if err != nil {
		r.logger.WithError(err).Error("failed to encode relay message")
		return
	}
	if err := r.rc.Publish(context.Background(), r.channel, data).Err(); err != nil {
		r.logger.WithError(err).Error("failed to publish relay message")
	}
}

// Run subscribes to the relay channel and applies messages published by
// other instances to the local broadcaster. It reconnects with a short
// backoff if the subscription drops, and returns when ctx is done.
func (r *Relay) Run(ctx context.Context) {
	for {
		sub := r.rc.Subscribe(ctx, r.channel)
		ch := sub.Channel()
	recv:
		for {
			select {
			case <-ctx.Done():
				sub.Close()
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				var rm relayMessage
				if err := sonic.ConfigStd.Unmarshal([]byte(msg.Payload), &rm); err != nil {
					r.logger.WithError(err).Error("unable to parse relay message")
					continue
				}
				if rm.Source == r.source {
					continue
				}
				r.local.Broadcast(rm.Event, rm.Data)
			}
		}
		sub.Close()
		if ctx.Err() != nil {
			return
		}
		r.logger.Error("relay channel closed, reconnecting")
		time.Sleep(time.Second)
	}
}
