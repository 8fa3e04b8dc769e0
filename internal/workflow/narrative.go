package workflow

import (
	"fmt"
	"time"

	"github.com/lintasnet/fieldops/internal/domain"
)

// Snapshot carries the display facts a narrative needs. It is assembled by
// the caller from the ticket and its directory lookups; the generator never
// performs I/O and never reads the clock itself.
type Snapshot struct {
	TicketNumber    string
	Type            domain.TicketType
	CustomerName    string
	CustomerAddress string
	PackageName     string
	TechnicianName  string
}

const narrativeTimeLayout = "2006-01-02 15:04"

type narrativeFunc func(s Snapshot, now time.Time) string

type statusTypeKey struct {
	status domain.TicketStatus
	typ    domain.TicketType
}

// typedNarratives is the most specific template tier, keyed by
// (newStatus, ticket type).
var typedNarratives = map[statusTypeKey]narrativeFunc{
	{domain.TicketStatusAssigned, domain.TicketTypeInstallation}: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Ticket %s assigned for new installation.\nCustomer: %s (%s)\nPackage: %s\nTechnician: %s\nAssigned at %s",
			s.TicketNumber, s.CustomerName, s.CustomerAddress, s.PackageName, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	{domain.TicketStatusCompleted, domain.TicketTypeInstallation}: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Installation completed for %s.\nAddress: %s\nPackage: %s\nTechnician: %s\nService activated, completion evidence recorded at %s",
			s.CustomerName, s.CustomerAddress, s.PackageName, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	{domain.TicketStatusCompleted, domain.TicketTypeMaintenance}: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Maintenance visit for %s finished.\nAddress: %s\nTechnician: %s\nLine measurements recorded at %s",
			s.CustomerName, s.CustomerAddress, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	{domain.TicketStatusCompleted, domain.TicketTypeRepair}: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Repair for %s finished.\nAddress: %s\nTechnician: %s\nService restored at %s",
			s.CustomerName, s.CustomerAddress, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	{domain.TicketStatusCompleted, domain.TicketTypeWifiSetup}: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Wifi setup for %s finished.\nAddress: %s\nTechnician: %s\nNew wireless credentials handed over at %s",
			s.CustomerName, s.CustomerAddress, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	{domain.TicketStatusInProgress, domain.TicketTypeInstallation}: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Installation work started for %s.\nAddress: %s\nTechnician: %s\nStarted at %s",
			s.CustomerName, s.CustomerAddress, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
}

// statusNarratives is the middle tier, keyed by newStatus alone.
var statusNarratives = map[domain.TicketStatus]narrativeFunc{
	domain.TicketStatusAssigned: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Ticket %s assigned.\nCustomer: %s (%s)\nTechnician: %s\nAssigned at %s",
			s.TicketNumber, s.CustomerName, s.CustomerAddress, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	domain.TicketStatusInProgress: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Work on ticket %s started.\nCustomer: %s (%s)\nTechnician: %s\nStarted at %s",
			s.TicketNumber, s.CustomerName, s.CustomerAddress, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	domain.TicketStatusOnHold: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Ticket %s placed on hold.\nCustomer: %s (%s)\nPaused at %s",
			s.TicketNumber, s.CustomerName, s.CustomerAddress, now.Format(narrativeTimeLayout))
	},
	domain.TicketStatusCompleted: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Ticket %s completed.\nCustomer: %s (%s)\nTechnician: %s\nClosed out at %s",
			s.TicketNumber, s.CustomerName, s.CustomerAddress, s.TechnicianName, now.Format(narrativeTimeLayout))
	},
	domain.TicketStatusCancelled: func(s Snapshot, now time.Time) string {
		return fmt.Sprintf("Ticket %s cancelled.\nCustomer: %s (%s)\nCancelled at %s",
			s.TicketNumber, s.CustomerName, s.CustomerAddress, now.Format(narrativeTimeLayout))
	},
}

// GenerateNarrative produces the human-readable note for a transition when
// the caller supplied none. Lookup falls back from (newStatus, type) to
// newStatus to a generic line, so every transition yields some text. Given
// identical inputs the output is byte-identical.
func GenerateNarrative(snapshot Snapshot, oldStatus, newStatus domain.TicketStatus, now time.Time) string {
	if fn, ok := typedNarratives[statusTypeKey{newStatus, snapshot.Type}]; ok {
		return fn(snapshot, now)
	}
	if fn, ok := statusNarratives[newStatus]; ok {
		return fn(snapshot, now)
	}
	return fmt.Sprintf("Ticket %s status changed from %s to %s at %s",
		snapshot.TicketNumber, oldStatus, newStatus, now.Format(narrativeTimeLayout))
}
