package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/lintasnet/fieldops/internal/domain"
	"github.com/lintasnet/fieldops/internal/events"
	"github.com/lintasnet/fieldops/internal/observability"
	"github.com/lintasnet/fieldops/internal/repository"
	"github.com/lintasnet/fieldops/internal/workflow"
	apperrors "github.com/lintasnet/fieldops/pkg/util"
)

// TicketService coordinates the workflow engine with persistence, events
// and directory lookups. It owns the per-ticket serialization the engine
// itself does not perform.
type TicketService struct {
	tickets     repository.TicketRepository
	history     repository.TicketHistoryRepository
	technicians repository.TechnicianRepository
	customers   repository.CustomerRepository
	packages    repository.ServicePackageRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	locks       *ticketLocks
	clock       func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	HistoryRepo    repository.TicketHistoryRepository
	TechnicianRepo repository.TechnicianRepository
	CustomerRepo   repository.CustomerRepository
	PackageRepo    repository.ServicePackageRepository
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Clock          func() time.Time
}

// CreateTicketInput is the request payload for opening a new ticket.
type CreateTicketInput struct {
	CustomerID  string
	PackageID   *string
	Type        domain.TicketType
	Title       string
	Description string
}

// StatusChangeInput is the request payload for a transition proposal.
type StatusChangeInput struct {
	TargetStatus domain.TicketStatus
	Note         string
	Assignment   *workflow.AssignmentRequest
	Completion   *workflow.CompletionInput
}

// TicketListFilter describes listing filters before scoping.
type TicketListFilter struct {
	Statuses    []domain.TicketStatus
	Types       []domain.TicketType
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		history:     deps.HistoryRepo,
		technicians: deps.TechnicianRepo,
		customers:   deps.CustomerRepo,
		packages:    deps.PackageRepo,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		locks:       newTicketLocks(),
		clock:       clock,
	}
}

// CreateTicket opens a new ticket in status open. Assignment happens later
// through a status transition, never at creation time.
func (s *TicketService) CreateTicket(ctx context.Context, actor domain.Actor, input CreateTicketInput) (*domain.Ticket, error) {
	if actor.Role == domain.RoleTechnician {
		return nil, apperrors.NewForbidden("technicians cannot open tickets")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": input.CustomerID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.PackageID != nil {
		if _, err := s.packages.GetByID(ctx, *input.PackageID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("service package", map[string]any{"package_id": *input.PackageID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	ticket := &domain.Ticket{
		TicketNumber: generateTicketNumber(),
		CustomerID:   input.CustomerID,
		PackageID:    input.PackageID,
		Type:         input.Type,
		Status:       domain.TicketStatusOpen,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// generateTicketNumber builds a human-readable reference like TKT-1A2B3C4D.
func generateTicketNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "TKT-" + fragment
}

// ChangeStatus runs a transition proposal end to end: serialize per ticket,
// load a consistent snapshot, evaluate, commit atomically, publish. The
// stored ticket is untouched when the proposal is rejected.
func (s *TicketService) ChangeStatus(ctx context.Context, actor domain.Actor, ticketID string, input StatusChangeInput) (*domain.Ticket, *domain.StatusHistoryEntry, error) {
	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !s.actorCanAccess(actor, ticket) {
		return nil, nil, apperrors.NewForbidden("ticket not assigned to you")
	}

	snapshot, err := s.buildSnapshot(ctx, ticket, input.Assignment)
	if err != nil {
		return nil, nil, err
	}

	result, err := workflow.ProposeTransition(ticket, workflow.TransitionRequest{
		TargetStatus: input.TargetStatus,
		Actor:        actor,
		Note:         input.Note,
		Assignment:   input.Assignment,
		Completion:   input.Completion,
		Snapshot:     snapshot,
		Now:          s.clock(),
	})
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	if err := s.tickets.CommitTransition(ctx, result.Ticket, &result.HistoryEntry); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	s.metrics.RecordTransition(string(ticket.Status), string(result.Ticket.Status))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			TicketNumber: ticket.TicketNumber,
			OldStatus:    ticket.Status,
			NewStatus:    result.Ticket.Status,
			Notes:        result.HistoryEntry.Notes,
		},
	})
	if result.Ticket.Status == domain.TicketStatusAssigned {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.TicketAssignedPayload{
				TicketNumber:         ticket.TicketNumber,
				AssignedTechnicianID: result.Ticket.AssignedTechnicianID,
				Team:                 result.Ticket.Team,
			},
		})
	}

	return result.Ticket, &result.HistoryEntry, nil
}

// PromoteTeamLead switches the team lead on an existing team assignment.
// The previous lead is demoted in the same write, so the roster never holds
// two leads.
func (s *TicketService) PromoteTeamLead(ctx context.Context, actor domain.Actor, ticketID, technicianID string) (*domain.Ticket, error) {
	if !actor.Role.IsPrivileged() {
		return nil, apperrors.NewForbidden("insufficient role for team edits")
	}

	release := s.locks.Acquire(ticketID)
	defer release()

	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status.IsTerminal() {
		return nil, apperrors.NewConflict("ticket is closed", map[string]any{"status": ticket.Status})
	}
	if len(ticket.Team) == 0 {
		return nil, apperrors.NewConflict("ticket has no team assignment", nil)
	}

	updated, promoted := workflow.PromoteLead(ticket.Team, technicianID)
	if !promoted {
		return nil, apperrors.NewNotFound("team member", map[string]any{"technician_id": technicianID})
	}

	candidate := ticket.Clone()
	candidate.Team = updated
	leadID := technicianID
	candidate.AssignedTechnicianID = &leadID

	if err := s.tickets.UpdateTeam(ctx, candidate); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTeamLeadChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TeamLeadChangedPayload{
			TicketNumber: ticket.TicketNumber,
			NewLeadID:    technicianID,
		},
	})
	return candidate, nil
}

// ListTickets returns tickets visible to the actor.
func (s *TicketService) ListTickets(ctx context.Context, actor domain.Actor, filter TicketListFilter) ([]domain.Ticket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:    filter.Statuses,
		Types:       filter.Types,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	}
	// Technicians only see their own workload; back-office roles see all.
	if actor.Role == domain.RoleTechnician {
		id := actor.ID
		repoFilter.AssignedTechnicianID = &id
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket with its audit trail, enforcing access.
func (s *TicketService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.actorCanAccess(actor, ticket) {
		return nil, apperrors.NewForbidden("ticket not assigned to you")
	}
	entries, err := s.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.StatusHistory = entries
	return ticket, nil
}

// AvailableTransitions lists the base edges from the ticket's current
// status, for rendering action menus.
func (s *TicketService) AvailableTransitions(ctx context.Context, actor domain.Actor, ticketID string) ([]domain.TicketStatus, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.actorCanAccess(actor, ticket) {
		return nil, apperrors.NewForbidden("ticket not assigned to you")
	}
	return workflow.LegalTargets(ticket.Status), nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// actorCanAccess applies the role refinement: privileged roles and
// customer service act on any ticket, technicians only on tickets they are
// assigned to (directly or through the team).
func (s *TicketService) actorCanAccess(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.Role != domain.RoleTechnician {
		return true
	}
	if ticket.AssignedTechnicianID != nil && *ticket.AssignedTechnicianID == actor.ID {
		return true
	}
	for _, member := range ticket.Team {
		if member.TechnicianID == actor.ID {
			return true
		}
	}
	// Unassigned tickets are visible so a technician can pick work up, but
	// only while nobody else holds them.
	return ticket.AssignedTechnicianID == nil && len(ticket.Team) == 0
}

// buildSnapshot gathers the display facts the narrative generator needs.
// Directory misses degrade to blank fields rather than failing the
// transition; the narrative is best-effort display text.
func (s *TicketService) buildSnapshot(ctx context.Context, ticket *domain.Ticket, assignment *workflow.AssignmentRequest) (workflow.Snapshot, error) {
	snapshot := workflow.Snapshot{
		TicketNumber: ticket.TicketNumber,
		Type:         ticket.Type,
	}
	if customer, err := s.customers.GetByID(ctx, ticket.CustomerID); err == nil {
		snapshot.CustomerName = customer.Name
		snapshot.CustomerAddress = customer.Address
	}
	if ticket.PackageID != nil {
		if pkg, err := s.packages.GetByID(ctx, *ticket.PackageID); err == nil {
			snapshot.PackageName = pkg.Name
		}
	}
	if id := narrativeTechnicianID(ticket, assignment); id != "" {
		if tech, err := s.technicians.GetByID(ctx, id); err == nil {
			snapshot.TechnicianName = tech.FullName
		}
	}
	return snapshot, nil
}

// narrativeTechnicianID picks the technician the note should mention: the
// incoming assignment when one is being made, otherwise the current one.
func narrativeTechnicianID(ticket *domain.Ticket, assignment *workflow.AssignmentRequest) string {
	if assignment != nil {
		switch assignment.Mode {
		case workflow.AssignmentModeSingle:
			if assignment.TechnicianID != "" {
				return assignment.TechnicianID
			}
		case workflow.AssignmentModeTeam:
			if lead, ok := domain.TeamLead(assignment.Members); ok {
				return lead.TechnicianID
			}
		}
	}
	if ticket.AssignedTechnicianID != nil {
		return *ticket.AssignedTechnicianID
	}
	return ""
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
