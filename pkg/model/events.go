package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical wrapper for events published to NATS.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Game          Game            `json:"game"`
	League        string          `json:"league"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// SnapshotRefreshedEvent is emitted after a successful fetch is published.
type SnapshotRefreshedEvent struct {
	Category   string    `json:"category"`
	Mode       PriceMode `json:"mode"`
	EntryCount int       `json:"entry_count"`
	TopEntry   string    `json:"top_entry,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// ModeDegradedEvent is emitted when exchange pricing fails and the tracker
// falls back to stash data.
type ModeDegradedEvent struct {
	Category string    `json:"category"`
	From     PriceMode `json:"from"`
	To       PriceMode `json:"to"`
	Reason   string    `json:"reason,omitempty"`
}

// CategoryPrunedEvent is emitted when a category is removed from the catalog
// after the upstream reports it has no data.
type CategoryPrunedEvent struct {
	Category string `json:"category"`
	Reason   string `json:"reason,omitempty"`
}
