package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintasnet/fieldops/internal/domain"
)

func openTicket() *domain.Ticket {
	return &domain.Ticket{
		ID:           "t-1",
		TicketNumber: "TKT-0001",
		Type:         domain.TicketTypeInstallation,
		Status:       domain.TicketStatusOpen,
	}
}

func TestResolveAssignment_Single(t *testing.T) {
	resolved, err := ResolveAssignment(openTicket(), &AssignmentRequest{
		Mode:         AssignmentModeSingle,
		TechnicianID: "tech-7",
	})
	require.NoError(t, err)
	require.NotNil(t, resolved.AssignedTechnicianID)
	assert.Equal(t, "tech-7", *resolved.AssignedTechnicianID)
	assert.Empty(t, resolved.Team)
}

func TestResolveAssignment_FirstAssignmentRequiresTechnician(t *testing.T) {
	tests := []struct {
		name string
		req  *AssignmentRequest
	}{
		{"nil assignment", nil},
		{"single with empty id", &AssignmentRequest{Mode: AssignmentModeSingle}},
		{"team with no members", &AssignmentRequest{Mode: AssignmentModeTeam}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveAssignment(openTicket(), tt.req)
			require.Error(t, err)
			wfErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, ErrNoTechnicianSelected, wfErr.Kind)
		})
	}
}

func TestResolveAssignment_ReassignmentKeepsCurrent(t *testing.T) {
	ticket := openTicket()
	ticket.Status = domain.TicketStatusOnHold
	current := "tech-3"
	ticket.AssignedTechnicianID = &current
	ticket.Team = []domain.TeamMember{
		{TechnicianID: "tech-3", Role: domain.TeamRoleLead},
		{TechnicianID: "tech-4", Role: domain.TeamRoleMember},
	}

	resolved, err := ResolveAssignment(ticket, nil)
	require.NoError(t, err)
	require.NotNil(t, resolved.AssignedTechnicianID)
	assert.Equal(t, "tech-3", *resolved.AssignedTechnicianID)
	assert.Equal(t, ticket.Team, resolved.Team)
}

func TestResolveAssignment_NeverAssignedOnHoldStillRequiresTechnician(t *testing.T) {
	// A ticket that bounced to on_hold without ever getting a technician
	// cannot "keep current": there is nothing to keep.
	ticket := openTicket()
	ticket.Status = domain.TicketStatusOnHold

	_, err := ResolveAssignment(ticket, nil)
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNoTechnicianSelected, wfErr.Kind)
}

func TestResolveAssignment_Team(t *testing.T) {
	resolved, err := ResolveAssignment(openTicket(), &AssignmentRequest{
		Mode: AssignmentModeTeam,
		Members: []domain.TeamMember{
			{TechnicianID: "tech-1", Role: domain.TeamRoleLead},
			{TechnicianID: "tech-2", Role: domain.TeamRoleMember},
			{TechnicianID: "tech-3", Role: domain.TeamRoleSupport},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resolved.AssignedTechnicianID)
	assert.Equal(t, "tech-1", *resolved.AssignedTechnicianID, "lead id becomes the assigned technician")
	assert.Len(t, resolved.Team, 3)
}

func TestResolveAssignment_TeamLeadErrors(t *testing.T) {
	tests := []struct {
		name    string
		members []domain.TeamMember
		kind    ErrorKind
	}{
		{
			"no lead",
			[]domain.TeamMember{
				{TechnicianID: "tech-1", Role: domain.TeamRoleMember},
				{TechnicianID: "tech-2", Role: domain.TeamRoleSupport},
			},
			ErrMissingLead,
		},
		{
			"two leads is ambiguous",
			[]domain.TeamMember{
				{TechnicianID: "tech-1", Role: domain.TeamRoleLead},
				{TechnicianID: "tech-2", Role: domain.TeamRoleLead},
			},
			ErrMissingLead,
		},
		{
			"duplicate technician",
			[]domain.TeamMember{
				{TechnicianID: "tech-1", Role: domain.TeamRoleLead},
				{TechnicianID: "tech-1", Role: domain.TeamRoleMember},
			},
			ErrDuplicateTechnician,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveAssignment(openTicket(), &AssignmentRequest{
				Mode:    AssignmentModeTeam,
				Members: tt.members,
			})
			require.Error(t, err)
			wfErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, wfErr.Kind)
		})
	}
}

func TestPromoteLead_DemotesExistingLead(t *testing.T) {
	team := []domain.TeamMember{
		{TechnicianID: "tech-1", Role: domain.TeamRoleLead},
		{TechnicianID: "tech-2", Role: domain.TeamRoleMember},
		{TechnicianID: "tech-3", Role: domain.TeamRoleSupport},
	}

	updated, promoted := PromoteLead(team, "tech-2")
	require.True(t, promoted)

	leads := 0
	for _, member := range updated {
		if member.Role == domain.TeamRoleLead {
			leads++
			assert.Equal(t, "tech-2", member.TechnicianID)
		}
	}
	assert.Equal(t, 1, leads, "exactly one lead after promotion")
	assert.Equal(t, domain.TeamRoleMember, updated[0].Role, "old lead demoted to member")
	assert.Equal(t, domain.TeamRoleSupport, updated[2].Role, "support role untouched")

	// Input slice untouched.
	assert.Equal(t, domain.TeamRoleLead, team[0].Role)
}

func TestPromoteLead_UnknownTechnician(t *testing.T) {
	team := []domain.TeamMember{{TechnicianID: "tech-1", Role: domain.TeamRoleLead}}
	updated, promoted := PromoteLead(team, "tech-9")
	assert.False(t, promoted)
	assert.Equal(t, team, updated)
}
