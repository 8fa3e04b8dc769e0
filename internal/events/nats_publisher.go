package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/lintasnet/fieldops/internal/config"
)

// NATSPublisher forwards events to a NATS subject per event type so other
// services (dashboards, SLA trackers) can consume ticket activity.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger *zap.Logger
}

// NewNATSPublisher connects to the configured NATS server. Returns nil when
// no URL is configured; the caller treats a nil publisher as disabled.
func NewNATSPublisher(cfg config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	if cfg.URL == "" {
		logger.Info("NATS_URL not provided; event fan-out disabled")
		return nil, nil
	}
	conn, err := nats.Connect(cfg.URL, nats.Name("fieldops"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	logger.Info("connected to nats", zap.String("url", cfg.URL))
	return &NATSPublisher{conn: conn, prefix: cfg.SubjectPrefix, logger: logger}, nil
}

// HandleEvent publishes the event as JSON on <prefix>.<type>. It satisfies
// EventHandler so it can be subscribed directly on the dispatcher.
func (p *NATSPublisher) HandleEvent(ctx context.Context, event Event) error {
	if p == nil || p.conn == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.ID, err)
	}
	subject := p.prefix + "." + string(event.Type)
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warn("nats publish failed",
			zap.String("subject", subject),
			zap.String("event_id", event.ID),
			zap.Error(err))
		return err
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p != nil && p.conn != nil {
		_ = p.conn.Drain()
	}
}
