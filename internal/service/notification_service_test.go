package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lintasnet/fieldops/internal/domain"
	"github.com/lintasnet/fieldops/internal/events"
)

func statusChangedEvent(id string) events.Event {
	return events.Event{
		ID:        id,
		Type:      events.EventTicketStatusChanged,
		TicketID:  "ticket-1",
		Actor:     domain.Actor{ID: "sup-1", Role: domain.RoleSupervisor},
		Timestamp: time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC),
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: "TKT-0042",
			OldStatus:    domain.TicketStatusOpen,
			NewStatus:    domain.TicketStatusAssigned,
		},
	}
}

func TestNotificationServicePostsWebhookOnce(t *testing.T) {
	var mu sync.Mutex
	var received []events.Event
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event events.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	svc := NewNotificationService(NotificationDependencies{
		Seen:       NewMemorySeenSet(time.Hour),
		WebhookURL: server.URL,
		Logger:     zap.NewNop(),
	})

	event := statusChangedEvent("evt-1")
	require.NoError(t, svc.HandleEvent(context.Background(), event))
	// Replay of the same event id is swallowed by the seen-set.
	require.NoError(t, svc.HandleEvent(context.Background(), event))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "evt-1", received[0].ID)
	assert.Equal(t, "ticket-1", received[0].TicketID)
}

func TestNotificationServiceReportsWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewNotificationService(NotificationDependencies{
		Seen:       NewMemorySeenSet(time.Hour),
		WebhookURL: server.URL,
		Logger:     zap.NewNop(),
	})

	err := svc.HandleEvent(context.Background(), statusChangedEvent("evt-2"))
	require.Error(t, err)
}

func TestNotificationServiceWithoutWebhookOnlyLogs(t *testing.T) {
	svc := NewNotificationService(NotificationDependencies{
		Seen:   NewMemorySeenSet(time.Hour),
		Logger: zap.NewNop(),
	})
	require.NoError(t, svc.HandleEvent(context.Background(), statusChangedEvent("evt-3")))
}
