package workflow

import "github.com/lintasnet/fieldops/internal/domain"

// AssignmentMode selects between a lone technician and a job team.
type AssignmentMode string

const (
	AssignmentModeSingle AssignmentMode = "single"
	AssignmentModeTeam   AssignmentMode = "team"
)

// AssignmentRequest is the assignment payload attached to an "assigned"
// transition. TechnicianID is used in single mode, Members in team mode.
type AssignmentRequest struct {
	Mode         AssignmentMode
	TechnicianID string
	Members      []domain.TeamMember
}

// ResolvedAssignment is the validated assignment state to apply to the
// candidate ticket. For teams, AssignedTechnicianID holds the lead's id.
type ResolvedAssignment struct {
	AssignedTechnicianID *string
	Team                 []domain.TeamMember
}

// ResolveAssignment validates and constructs the assignment for a ticket
// entering assigned status. An omitted or empty selection means "keep the
// current assignment", which is only valid when the ticket already has one;
// a ticket that was never assigned requires at least one technician no
// matter which status it currently holds.
func ResolveAssignment(ticket *domain.Ticket, req *AssignmentRequest) (ResolvedAssignment, error) {
	if req == nil || isEmptySelection(req) {
		if ticket.AssignedTechnicianID == nil {
			return ResolvedAssignment{}, newError(ErrNoTechnicianSelected,
				"ticket %s has no technician and none were selected", ticket.TicketNumber)
		}
		return ResolvedAssignment{
			AssignedTechnicianID: ticket.AssignedTechnicianID,
			Team:                 append([]domain.TeamMember(nil), ticket.Team...),
		}, nil
	}

	switch req.Mode {
	case AssignmentModeSingle:
		id := req.TechnicianID
		return ResolvedAssignment{AssignedTechnicianID: &id}, nil
	case AssignmentModeTeam:
		return resolveTeam(req.Members)
	default:
		return ResolvedAssignment{}, newError(ErrNoTechnicianSelected,
			"unknown assignment mode %q", req.Mode)
	}
}

func resolveTeam(members []domain.TeamMember) (ResolvedAssignment, error) {
	seen := make(map[string]struct{}, len(members))
	leadCount := 0
	var leadID string
	for _, member := range members {
		if _, dup := seen[member.TechnicianID]; dup {
			return ResolvedAssignment{}, newError(ErrDuplicateTechnician,
				"technician %s listed more than once", member.TechnicianID)
		}
		seen[member.TechnicianID] = struct{}{}
		if member.Role == domain.TeamRoleLead {
			leadCount++
			leadID = member.TechnicianID
		}
	}
	// Initial team submission rejects ambiguous leads outright; the
	// promote-demotes rule applies only to edits of an existing team.
	if leadCount == 0 {
		return ResolvedAssignment{}, newError(ErrMissingLead, "team has no lead")
	}
	if leadCount > 1 {
		return ResolvedAssignment{}, newError(ErrMissingLead,
			"team has %d leads, exactly one required", leadCount)
	}
	return ResolvedAssignment{
		AssignedTechnicianID: &leadID,
		Team:                 append([]domain.TeamMember(nil), members...),
	}, nil
}

// PromoteLead switches a member of an existing team to lead, demoting any
// current lead to member in the same operation. The returned slice is a
// fresh copy; promoted reports whether the technician was found on the team.
func PromoteLead(team []domain.TeamMember, technicianID string) (updated []domain.TeamMember, promoted bool) {
	updated = append([]domain.TeamMember(nil), team...)
	target := -1
	for i, member := range updated {
		if member.TechnicianID == technicianID {
			target = i
			break
		}
	}
	if target < 0 {
		return updated, false
	}
	for i := range updated {
		if updated[i].Role == domain.TeamRoleLead {
			updated[i].Role = domain.TeamRoleMember
		}
	}
	updated[target].Role = domain.TeamRoleLead
	return updated, true
}

func isEmptySelection(req *AssignmentRequest) bool {
	switch req.Mode {
	case AssignmentModeSingle:
		return req.TechnicianID == ""
	case AssignmentModeTeam:
		return len(req.Members) == 0
	}
	return req.TechnicianID == "" && len(req.Members) == 0
}
