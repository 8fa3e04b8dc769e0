package workflow

import (
	"strings"
	"time"

	"github.com/lintasnet/fieldops/internal/domain"
)

// TransitionRequest is everything a proposed status change carries. The
// engine reads no ambient state: assignment, completion payload, note and
// clock all arrive here.
type TransitionRequest struct {
	TargetStatus domain.TicketStatus
	Actor        domain.Actor
	Note         string
	Assignment   *AssignmentRequest
	Completion   *CompletionInput
	Snapshot     Snapshot
	Now          time.Time
}

// TransitionResult pairs the updated ticket with the history entry produced
// for it. The caller must persist both atomically.
type TransitionResult struct {
	Ticket       *domain.Ticket
	HistoryEntry domain.StatusHistoryEntry
}

// ProposeTransition validates a status change end to end and returns the
// resulting ticket state plus its audit entry, or a typed error. The input
// ticket is never mutated; on failure no partial state escapes.
func ProposeTransition(ticket *domain.Ticket, req TransitionRequest) (*TransitionResult, error) {
	if req.TargetStatus == ticket.Status {
		return nil, newError(ErrNoOpTransition,
			"ticket %s is already %s", ticket.TicketNumber, ticket.Status)
	}
	if !IsLegal(ticket.Status, req.TargetStatus, req.Actor.Role) {
		return nil, newError(ErrIllegalTransition,
			"transition %s -> %s is not allowed for role %s", ticket.Status, req.TargetStatus, req.Actor.Role)
	}

	candidate := ticket.Clone()
	var transitionTechnician *string

	if req.TargetStatus == domain.TicketStatusAssigned {
		resolved, err := ResolveAssignment(ticket, req.Assignment)
		if err != nil {
			return nil, err
		}
		candidate.AssignedTechnicianID = resolved.AssignedTechnicianID
		candidate.Team = resolved.Team
		transitionTechnician = resolved.AssignedTechnicianID
	}

	if req.TargetStatus == domain.TicketStatusCompleted {
		data, err := ValidateCompletion(ticket.Type, req.Completion)
		if err != nil {
			return nil, err
		}
		candidate.CompletionData = data
		completedAt := req.Now
		candidate.CompletedAt = &completedAt
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		note = GenerateNarrative(req.Snapshot, ticket.Status, req.TargetStatus, req.Now)
	}

	entry := domain.StatusHistoryEntry{
		TicketID:     ticket.ID,
		OldStatus:    ticket.Status,
		NewStatus:    req.TargetStatus,
		ChangedBy:    req.Actor,
		TechnicianID: transitionTechnician,
		Notes:        note,
		CreatedAt:    req.Now,
	}

	candidate.Status = req.TargetStatus
	candidate.UpdatedAt = req.Now
	candidate.StatusHistory = append(candidate.StatusHistory, entry)

	return &TransitionResult{Ticket: candidate, HistoryEntry: entry}, nil
}
