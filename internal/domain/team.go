package domain

// TeamRole enumerates roles within a multi-technician job team.
type TeamRole string

const (
	TeamRoleLead    TeamRole = "lead"
	TeamRoleMember  TeamRole = "member"
	TeamRoleSupport TeamRole = "support"
)

// TeamMember is a technician participating in a team assignment.
type TeamMember struct {
	TechnicianID string   `json:"technicianId"`
	Role         TeamRole `json:"role"`
}

// TeamLead returns the lead member of a team, if one exists.
func TeamLead(team []TeamMember) (TeamMember, bool) {
	for _, member := range team {
		if member.Role == TeamRoleLead {
			return member, true
		}
	}
	return TeamMember{}, false
}
