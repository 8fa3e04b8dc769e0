package domain

import "time"

// StatusHistoryEntry is an immutable audit trail record for one accepted
// transition. Entries are only ever appended, never edited or deleted.
type StatusHistoryEntry struct {
	ID           string
	TicketID     string
	OldStatus    TicketStatus
	NewStatus    TicketStatus
	ChangedBy    Actor
	TechnicianID *string
	Notes        string
	CreatedAt    time.Time
}
