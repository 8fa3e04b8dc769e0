package domain

import "time"

// TicketStatus enumerates lifecycle states for service tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusOnHold     TicketStatus = "on_hold"
	TicketStatusCompleted  TicketStatus = "completed"
	TicketStatusCancelled  TicketStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are legal from s.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusCompleted || s == TicketStatusCancelled
}

// TicketType enumerates the kinds of field-service jobs.
type TicketType string

const (
	TicketTypeInstallation    TicketType = "installation"
	TicketTypeMaintenance     TicketType = "maintenance"
	TicketTypeRepair          TicketType = "repair"
	TicketTypeUpgrade         TicketType = "upgrade"
	TicketTypeDowngrade       TicketType = "downgrade"
	TicketTypeRelocation      TicketType = "relocation"
	TicketTypeWifiSetup       TicketType = "wifi_setup"
	TicketTypeTroubleshooting TicketType = "troubleshooting"
)

// Ticket is the aggregate for field-service jobs.
type Ticket struct {
	ID                   string
	TicketNumber         string
	CustomerID           string
	PackageID            *string
	Type                 TicketType
	Status               TicketStatus
	Title                string
	Description          string
	AssignedTechnicianID *string
	Team                 []TeamMember
	CompletionData       *CompletionData
	StatusHistory        []StatusHistoryEntry
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CompletedAt          *time.Time
}

// Clone returns a deep copy so callers can build candidate states without
// touching the original aggregate.
func (t *Ticket) Clone() *Ticket {
	copied := *t
	if t.AssignedTechnicianID != nil {
		id := *t.AssignedTechnicianID
		copied.AssignedTechnicianID = &id
	}
	if t.PackageID != nil {
		id := *t.PackageID
		copied.PackageID = &id
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		copied.CompletedAt = &ts
	}
	copied.Team = append([]TeamMember(nil), t.Team...)
	copied.StatusHistory = append([]StatusHistoryEntry(nil), t.StatusHistory...)
	if t.CompletionData != nil {
		data := t.CompletionData.Clone()
		copied.CompletionData = &data
	}
	return &copied
}
