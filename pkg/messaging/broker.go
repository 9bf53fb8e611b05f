package messaging

import (
	"context"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// RecordsChangedChannel carries notifications from the record sync
// process whenever a ward's records change. Subscribers use it to drop
// memoized aggregates; the next query recomputes from a fresh snapshot.
const RecordsChangedChannel = "ward.records.changed"

// RecordsChangedEvent is the payload published on RecordsChangedChannel.
type RecordsChangedEvent struct {
	Unit      string `json:"unit"`
	ChangedAt int64  `json:"changed_at"`
}
