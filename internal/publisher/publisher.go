package publisher

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Wpsi1337/exile-tracker/pkg/model"
)

// Event subjects emitted by the tracker.
const (
	SubjectSnapshotRefreshed = "evt.price.snapshot_refreshed.v1"
	SubjectModeDegraded      = "evt.price.mode_degraded.v1"
	SubjectCategoryPruned    = "evt.price.category_pruned.v1"
)

// jetStream is the slice of nats.JetStreamContext the publisher needs.
type jetStream interface {
	PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher emits canonical event envelopes over NATS JetStream. It is an
// optional collaborator: a dashboard without a broker simply runs without one.
type Publisher struct {
	logger  *zap.Logger
	nc      *nats.Conn
	js      jetStream
	service string
}

// New creates a publisher on an established NATS connection.
func New(logger *zap.Logger, nc *nats.Conn, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{logger: logger, nc: nc, js: js, service: service}, nil
}

// publishEnvelope serializes and publishes one envelope. Publish failures log
// and return; the dashboard never blocks on the bus.
func (p *Publisher) publishEnvelope(subject string, env *model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("publisher.marshal_failed",
			zap.String("subject", subject),
			zap.Error(err))
		return err
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{env.EventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
			"game":           []string{string(env.Game)},
		},
	}

	if _, err := p.js.PublishMsg(msg); err != nil {
		p.logger.Error("publisher.publish_failed",
			zap.String("subject", subject),
			zap.String("event_type", env.EventType),
			zap.Error(err))
		return err
	}

	p.logger.Debug("publisher.publish_success",
		zap.String("subject", subject),
		zap.String("event_type", env.EventType))
	return nil
}

func (p *Publisher) envelope(eventType string, game model.Game, league string, payload any) *model.Envelope {
	data, _ := json.Marshal(payload)
	return &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		EventType:     eventType,
		Version:       "1.0.0",
		Game:          game,
		League:        league,
		Timestamp:     time.Now().UTC(),
		Payload:       data,
	}
}

// SnapshotRefreshed emits an event for every freshly fetched snapshot.
func (p *Publisher) SnapshotRefreshed(snap *model.Snapshot) {
	evt := model.SnapshotRefreshedEvent{
		Category:   snap.Category,
		Mode:       snap.Mode,
		EntryCount: len(snap.Entries),
		FetchedAt:  snap.FetchedAt,
	}
	if len(snap.Entries) > 0 {
		evt.TopEntry = snap.Entries[0].Name
	}
	env := p.envelope("price.snapshot_refreshed", snap.Game, snap.League, evt)
	_ = p.publishEnvelope(SubjectSnapshotRefreshed, env)
}

// ModeDegraded emits an event when exchange pricing falls back to stash.
func (p *Publisher) ModeDegraded(game model.Game, category string) {
	env := p.envelope("price.mode_degraded", game, "", model.ModeDegradedEvent{
		Category: category,
		From:     model.ModeExchange,
		To:       model.ModeStash,
		Reason:   "exchange pricing unavailable",
	})
	_ = p.publishEnvelope(SubjectModeDegraded, env)
}

// CategoryPruned emits an event when a category is dropped for lack of data.
func (p *Publisher) CategoryPruned(game model.Game, category string) {
	env := p.envelope("price.category_pruned", game, "", model.CategoryPrunedEvent{
		Category: category,
		Reason:   "no data",
	})
	_ = p.publishEnvelope(SubjectCategoryPruned, env)
}

// Drain flushes pending messages and closes the connection.
func (p *Publisher) Drain() {
	if p.nc != nil && p.nc.IsConnected() {
		_ = p.nc.Drain()
	}
}
