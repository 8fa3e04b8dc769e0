package events

import (
	"time"

	"github.com/lintasnet/fieldops/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTeamLeadChanged     EventType = "team_lead_changed"
)

// Event represents a domain event emitted after a committed transition.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  string       `json:"ticket_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	Notes        string              `json:"notes,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketNumber         string              `json:"ticket_number"`
	AssignedTechnicianID *string             `json:"assigned_technician_id,omitempty"`
	Team                 []domain.TeamMember `json:"team,omitempty"`
}

// TeamLeadChangedPayload payload.
type TeamLeadChangedPayload struct {
	TicketNumber string `json:"ticket_number"`
	NewLeadID    string `json:"new_lead_id"`
}
