// internal/realtime/hub.go
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// redisChannelPrefix namespaces hub traffic on the shared Redis instance
const redisChannelPrefix = "rt:"

// subscriberBuffer bounds how far a slow consumer may lag before events are
// dropped for it. Delivery is best-effort; a full buffer never blocks the
// publishing mutation.
const subscriberBuffer = 16

// Broadcaster is what domain services publish through. Kept narrow so
// services can be tested with a recording fake.
type Broadcaster interface {
	Publish(ctx context.Context, channelKey, event string, payload interface{})
}

// Subscription is one observer's handle on a channel
type Subscription struct {
	C   <-chan Event
	hub *Hub
	key string
	ch  chan Event
}

// Close removes the subscription from the hub
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Hub is the injectable connection registry: it fans committed snapshots out
// to every local subscriber of a channel and bridges between processes over
// Redis pub/sub. Lifecycle is tied to the serving process; Close tears down
// all subscribers.
type Hub struct {
	rdb *redis.Client
	log *logrus.Logger

	mu     sync.Mutex
	subs   map[string]map[chan Event]struct{}
	closed bool
}

// NewHub creates a hub. A nil Redis client keeps fan-out in-process only,
// which is what tests use.
func NewHub(rdb *redis.Client, log *logrus.Logger) *Hub {
	return &Hub{
		rdb:  rdb,
		log:  log,
		subs: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers an observer on a channel key
func (h *Hub) Subscribe(channelKey string) *Subscription {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return &Subscription{C: ch, hub: h, key: channelKey, ch: ch}
	}
	if h.subs[channelKey] == nil {
		h.subs[channelKey] = make(map[chan Event]struct{})
	}
	h.subs[channelKey][ch] = struct{}{}

	return &Subscription{C: ch, hub: h, key: channelKey, ch: ch}
}

func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[s.key]; ok {
		if _, ok := set[s.ch]; ok {
			delete(set, s.ch)
			close(s.ch)
		}
		if len(set) == 0 {
			delete(h.subs, s.key)
		}
	}
}

// Publish sends the event to all observers of the channel. Callers invoke it
// strictly after their transaction commits. Delivery failures are logged and
// swallowed; they never fail the originating mutation.
func (h *Hub) Publish(ctx context.Context, channelKey, event string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{
			"channel": channelKey,
			"event":   event,
		}).Error("Failed to marshal broadcast payload")
		return
	}

	evt := Event{
		Channel: channelKey,
		Name:    event,
		Payload: raw,
		At:      time.Now().UTC(),
	}

	if h.rdb == nil {
		h.deliver(evt)
		return
	}

	data, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal broadcast event")
		return
	}
	if err := h.rdb.Publish(ctx, redisChannelPrefix+channelKey, data).Err(); err != nil {
		// Best effort: local observers still get the event directly.
		h.log.WithError(err).WithField("channel", channelKey).Warn("Redis publish failed, delivering locally only")
		h.deliver(evt)
	}
}

// deliver fans an event out to local subscribers without blocking
func (h *Hub) deliver(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[evt.Channel] {
		select {
		case ch <- evt:
		default:
			// Subscriber is not keeping up; drop rather than block the
			// publisher. The next full snapshot supersedes this one anyway.
		}
	}
}

// Run consumes the Redis pattern subscription and fans incoming events out
// to local subscribers. Blocks until ctx is cancelled. No-op without Redis.
func (h *Hub) Run(ctx context.Context) error {
	if h.rdb == nil {
		<-ctx.Done()
		return nil
	}

	pubsub := h.rdb.PSubscribe(ctx, redisChannelPrefix+"*")
	defer pubsub.Close()

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			var evt Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				h.log.WithError(err).WithField("redis_channel", msg.Channel).Warn("Dropping malformed broadcast event")
				continue
			}
			h.deliver(evt)
		}
	}
}

// Close tears down every subscription. Publishes after Close are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for key, set := range h.subs {
		for ch := range set {
			close(ch)
		}
		delete(h.subs, key)
	}
}
