package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintasnet/fieldops/internal/domain"
)

var engineClock = time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC)

func engineTicket(status domain.TicketStatus, typ domain.TicketType) *domain.Ticket {
	return &domain.Ticket{
		ID:           "t-100",
		TicketNumber: "TKT-0100",
		CustomerID:   "c-1",
		Type:         typ,
		Status:       status,
		CreatedAt:    engineClock.Add(-48 * time.Hour),
		UpdatedAt:    engineClock.Add(-24 * time.Hour),
	}
}

func adminActor() domain.Actor {
	return domain.Actor{ID: "staff-1", Role: domain.RoleAdmin}
}

// Scenario: open ticket assigned to a single technician.
func TestProposeTransition_AssignSingleTechnician(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusOpen, domain.TicketTypeInstallation)
	result, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusAssigned,
		Actor:        adminActor(),
		Assignment:   &AssignmentRequest{Mode: AssignmentModeSingle, TechnicianID: "tech-7"},
		Now:          engineClock,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Ticket.AssignedTechnicianID)
	assert.Equal(t, "tech-7", *result.Ticket.AssignedTechnicianID)
	assert.Equal(t, domain.TicketStatusAssigned, result.Ticket.Status)
	assert.Equal(t, domain.TicketStatusOpen, result.HistoryEntry.OldStatus)
	assert.Equal(t, domain.TicketStatusAssigned, result.HistoryEntry.NewStatus)
	require.NotNil(t, result.HistoryEntry.TechnicianID)
	assert.Equal(t, "tech-7", *result.HistoryEntry.TechnicianID)

	// Input ticket untouched.
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.AssignedTechnicianID)
	assert.Empty(t, ticket.StatusHistory)
}

// Scenario: assigning with no technician selection fails.
func TestProposeTransition_AssignWithoutTechnician(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusOpen, domain.TicketTypeInstallation)
	_, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusAssigned,
		Actor:        adminActor(),
		Now:          engineClock,
	})
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNoTechnicianSelected, wfErr.Kind)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
}

// Scenario: completing an installation without the OTDR photo fails and
// names the field.
func TestProposeTransition_IncompleteCompletionData(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusInProgress, domain.TicketTypeInstallation)
	input := validInstallationInput()
	delete(input.Photos, "otdrPhoto")

	_, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusCompleted,
		Actor:        adminActor(),
		Completion:   input,
		Now:          engineClock,
	})
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrIncompleteCompletionData, wfErr.Kind)
	assert.Equal(t, []string{"otdrPhoto"}, wfErr.Fields)
	assert.Nil(t, ticket.CompletionData)
	assert.Equal(t, domain.TicketStatusInProgress, ticket.Status)
}

func TestProposeTransition_CompleteInstallation(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusInProgress, domain.TicketTypeInstallation)
	result, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusCompleted,
		Actor:        adminActor(),
		Completion:   validInstallationInput(),
		Snapshot:     installationSnapshot(),
		Now:          engineClock,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusCompleted, result.Ticket.Status)
	require.NotNil(t, result.Ticket.CompletionData)
	assert.Equal(t, domain.TicketTypeInstallation, result.Ticket.CompletionData.Type)
	require.NotNil(t, result.Ticket.CompletedAt)
	assert.Equal(t, engineClock, *result.Ticket.CompletedAt)
	assert.Contains(t, result.HistoryEntry.Notes, "Installation completed")
}

// Scenario: terminal statuses reject every proposal.
func TestProposeTransition_TerminalStatusesReject(t *testing.T) {
	targets := []domain.TicketStatus{
		domain.TicketStatusOpen, domain.TicketStatusAssigned, domain.TicketStatusInProgress,
		domain.TicketStatusOnHold,
	}
	for _, from := range []domain.TicketStatus{domain.TicketStatusCompleted, domain.TicketStatusCancelled} {
		for _, target := range targets {
			ticket := engineTicket(from, domain.TicketTypeRepair)
			_, err := ProposeTransition(ticket, TransitionRequest{
				TargetStatus: target,
				Actor:        adminActor(),
				Now:          engineClock,
			})
			require.Error(t, err, "%s -> %s", from, target)
			wfErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, ErrIllegalTransition, wfErr.Kind)
		}
	}
}

// Scenario: technician tries to push an assigned ticket back to open.
func TestProposeTransition_ReopenBan(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusAssigned, domain.TicketTypeMaintenance)
	_, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusOpen,
		Actor:        domain.Actor{ID: "tech-2", Role: domain.RoleTechnician},
		Now:          engineClock,
	})
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrIllegalTransition, wfErr.Kind)
	assert.Contains(t, wfErr.Detail, "assigned -> open")
}

func TestProposeTransition_NoOp(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusInProgress, domain.TicketTypeRepair)
	_, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusInProgress,
		Actor:        adminActor(),
		Now:          engineClock,
	})
	require.Error(t, err)
	wfErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ErrNoOpTransition, wfErr.Kind)
}

func TestProposeTransition_CallerNoteWins(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusAssigned, domain.TicketTypeRepair)
	result, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusInProgress,
		Actor:        adminActor(),
		Note:         "  customer confirmed availability  ",
		Snapshot:     installationSnapshot(),
		Now:          engineClock,
	})
	require.NoError(t, err)
	assert.Equal(t, "customer confirmed availability", result.HistoryEntry.Notes)
}

func TestProposeTransition_BlankNoteGetsNarrative(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusAssigned, domain.TicketTypeRepair)
	snapshot := installationSnapshot()
	snapshot.Type = domain.TicketTypeRepair

	result, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusInProgress,
		Actor:        adminActor(),
		Note:         "   \n ",
		Snapshot:     snapshot,
		Now:          engineClock,
	})
	require.NoError(t, err)
	expected := GenerateNarrative(snapshot, domain.TicketStatusAssigned, domain.TicketStatusInProgress, engineClock)
	assert.Equal(t, expected, result.HistoryEntry.Notes)
}

func TestProposeTransition_HistoryAppends(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusOpen, domain.TicketTypeWifiSetup)

	first, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusAssigned,
		Actor:        adminActor(),
		Assignment:   &AssignmentRequest{Mode: AssignmentModeSingle, TechnicianID: "tech-5"},
		Now:          engineClock,
	})
	require.NoError(t, err)
	require.Len(t, first.Ticket.StatusHistory, 1)

	second, err := ProposeTransition(first.Ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusInProgress,
		Actor:        domain.Actor{ID: "tech-5", Role: domain.RoleTechnician},
		Now:          engineClock.Add(time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, second.Ticket.StatusHistory, 2)
	assert.Equal(t, domain.TicketStatusOpen, second.Ticket.StatusHistory[0].OldStatus)
	assert.Equal(t, domain.TicketStatusAssigned, second.Ticket.StatusHistory[1].OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, second.Ticket.StatusHistory[1].NewStatus)

	// First result's history untouched by the second proposal.
	assert.Len(t, first.Ticket.StatusHistory, 1)
}

func TestProposeTransition_TeamAssignmentSetsLead(t *testing.T) {
	ticket := engineTicket(domain.TicketStatusOpen, domain.TicketTypeInstallation)
	result, err := ProposeTransition(ticket, TransitionRequest{
		TargetStatus: domain.TicketStatusAssigned,
		Actor:        domain.Actor{ID: "sup-1", Role: domain.RoleSupervisor},
		Assignment: &AssignmentRequest{
			Mode: AssignmentModeTeam,
			Members: []domain.TeamMember{
				{TechnicianID: "tech-1", Role: domain.TeamRoleMember},
				{TechnicianID: "tech-2", Role: domain.TeamRoleLead},
			},
		},
		Now: engineClock,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Ticket.AssignedTechnicianID)
	assert.Equal(t, "tech-2", *result.Ticket.AssignedTechnicianID)
	assert.Len(t, result.Ticket.Team, 2)
}
