// Package events relays collection-change notifications to connected
// dashboards. Mutating services publish the name of the collection they
// touched; clients re-fetch the whole collection on each notification, no
// diffing is attempted.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel is the redis pub/sub channel carrying change notifications.
const Channel = "stationhub:changes"

// Event names a collection that changed.
type Event struct {
	Collection string    `json:"collection"`
	At         time.Time `json:"at"`
}

// Publisher fans change notifications out through redis so every app
// instance sees them.
type Publisher struct {
	client *redis.Client
	logger *slog.Logger
}

// NewPublisher constructs a Publisher. A nil client disables publishing.
func NewPublisher(client *redis.Client, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Changed publishes a notification for the collection. Failures are logged
// and dropped: a missed notification only delays the next full resync.
func (p *Publisher) Changed(ctx context.Context, collection string) {
	if p == nil || p.client == nil {
		return
	}
	payload, err := json.Marshal(Event{Collection: collection, At: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := p.client.Publish(ctx, Channel, payload).Err(); err != nil && p.logger != nil {
		p.logger.Warn("publish change event", slog.String("collection", collection), slog.Any("error", err))
	}
}
