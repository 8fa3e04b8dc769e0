package worker

import (
	"github.com/lintasnet/fieldops/internal/events"
	"github.com/lintasnet/fieldops/internal/service"
)

// ticketEventTypes lists every event the notification pipeline consumes.
var ticketEventTypes = []events.EventType{
	events.EventTicketStatusChanged,
	events.EventTicketAssigned,
	events.EventTeamLeadChanged,
}

// StartNotificationWorker subscribes the notification pipeline and the
// optional NATS fan-out to ticket events.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, publisher *events.NATSPublisher) {
	for _, eventType := range ticketEventTypes {
		if notifications != nil {
			dispatcher.Subscribe(eventType, notifications.HandleEvent)
		}
		if publisher != nil {
			dispatcher.Subscribe(eventType, publisher.HandleEvent)
		}
	}
}
