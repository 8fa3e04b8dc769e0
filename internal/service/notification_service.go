package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/lintasnet/fieldops/internal/events"
)

// NotificationService turns committed ticket events into outbound
// notifications. Delivery is at-least-once from the dispatcher side, so the
// seen-set drops replays before they reach the webhook.
type NotificationService struct {
	seen    SeenSet
	webhook string
	client  *http.Client
	logger  *zap.Logger
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Seen       SeenSet
	WebhookURL string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewNotificationService constructs the service. A missing HTTP client gets
// a default with a short timeout so a slow webhook cannot stall handlers.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	client := deps.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NotificationService{
		seen:    deps.Seen,
		webhook: deps.WebhookURL,
		client:  client,
		logger:  deps.Logger,
	}
}

// HandleEvent satisfies events.EventHandler.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	already, err := s.seen.MarkSeen(ctx, string(event.Type)+":"+event.ID)
	if err != nil {
		// Dedupe backend trouble must not block delivery; worst case is a
		// duplicate notification.
		s.logger.Warn("notification dedupe check failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
	} else if already {
		s.logger.Debug("skipping duplicate notification",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return nil
	}

	s.logger.Info("ticket notification",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_role", string(event.Actor.Role)))

	if s.webhook == "" {
		return nil
	}
	return s.postWebhook(ctx, event)
}

func (s *NotificationService) postWebhook(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification %s: %w", event.ID, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhook, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			zap.String("event_id", event.ID),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook rejected notification",
			zap.String("event_id", event.ID),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
