package workflow

import "github.com/lintasnet/fieldops/internal/domain"

// allowedTransitions is the base policy table: every legal edge of the
// ticket lifecycle, independent of role. completed and cancelled are
// terminal and have no outgoing edges; completed is reachable only from
// in_progress, so held work resumes before it closes out.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusOpen:       {domain.TicketStatusAssigned, domain.TicketStatusCancelled},
	domain.TicketStatusAssigned:   {domain.TicketStatusInProgress, domain.TicketStatusOnHold, domain.TicketStatusCancelled},
	domain.TicketStatusInProgress: {domain.TicketStatusCompleted, domain.TicketStatusOnHold, domain.TicketStatusCancelled},
	domain.TicketStatusOnHold:     {domain.TicketStatusInProgress, domain.TicketStatusCancelled},
	domain.TicketStatusCompleted:  {},
	domain.TicketStatusCancelled:  {},
}

// IsLegal reports whether the actor's role may move a ticket from current to
// target. Re-entering open is illegal for every role from every status; the
// table never contains such an edge, the explicit check keeps the invariant
// independent of table contents.
func IsLegal(current, target domain.TicketStatus, role domain.ActorRole) bool {
	if target == domain.TicketStatusOpen {
		return false
	}
	for _, candidate := range allowedTransitions[current] {
		if candidate == target {
			return true
		}
	}
	return false
}

// LegalTargets returns the base edge set for a status. Callers use it to
// render available actions; the returned slice must not be mutated.
func LegalTargets(current domain.TicketStatus) []domain.TicketStatus {
	return allowedTransitions[current]
}
