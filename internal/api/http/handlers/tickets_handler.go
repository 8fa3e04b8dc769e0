package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lintasnet/fieldops/internal/api/dto"
	"github.com/lintasnet/fieldops/internal/auth"
	"github.com/lintasnet/fieldops/internal/domain"
	"github.com/lintasnet/fieldops/internal/service"
	"github.com/lintasnet/fieldops/internal/workflow"
)

// TicketsHandler handles staff ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// CreateTicket POST /staff/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CustomerID == "" || req.Title == "" {
		return fiber.NewError(http.StatusBadRequest, "customerId and title required")
	}

	ticket, err := h.tickets.CreateTicket(c.UserContext(), actor, service.CreateTicketInput{
		CustomerID:  req.CustomerID,
		PackageID:   req.PackageID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListTickets GET /staff/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	filter := parseTicketFilter(c)
	tickets, err := h.tickets.ListTickets(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /staff/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// AvailableTransitions GET /staff/tickets/:id/transitions.
func (h *TicketsHandler) AvailableTransitions(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	targets, err := h.tickets.AvailableTransitions(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": targets})
}

// ChangeStatus POST /staff/tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TargetStatus == "" {
		return fiber.NewError(http.StatusBadRequest, "targetStatus required")
	}

	ticket, entry, err := h.tickets.ChangeStatus(c.UserContext(), actor, c.Params("id"), service.StatusChangeInput{
		TargetStatus: req.TargetStatus,
		Note:         req.Note,
		Assignment:   assignmentInput(req.Assignment),
		Completion:   completionInput(req.CompletionData),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"ticket":  ticketDetail(ticket),
			"history": historyResponse(entry),
		},
	})
}

// PromoteLead POST /staff/tickets/:id/team/lead.
func (h *TicketsHandler) PromoteLead(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.PromoteLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.TechnicianID == "" {
		return fiber.NewError(http.StatusBadRequest, "technicianId required")
	}

	ticket, err := h.tickets.PromoteTeamLead(c.UserContext(), actor, c.Params("id"), req.TechnicianID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

func actorFromContext(c *fiber.Ctx) (domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Actor{}, fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return principal.Actor(), nil
}

func assignmentInput(req *dto.AssignmentRequest) *workflow.AssignmentRequest {
	if req == nil {
		return nil
	}
	members := make([]domain.TeamMember, 0, len(req.Members))
	for _, member := range req.Members {
		members = append(members, domain.TeamMember{
			TechnicianID: member.TechnicianID,
			Role:         member.Role,
		})
	}
	return &workflow.AssignmentRequest{
		Mode:         req.Mode,
		TechnicianID: req.TechnicianID,
		Members:      members,
	}
}

func completionInput(req *dto.CompletionRequest) *workflow.CompletionInput {
	if req == nil {
		return nil
	}
	input := &workflow.CompletionInput{
		OdpLocation:        req.OdpLocation,
		OdpDistance:        req.OdpDistance,
		FinalAttenuationDb: req.FinalAttenuationDb,
		WifiName:           req.WifiName,
		WifiPassword:       req.WifiPassword,
		ActivationDate:     req.ActivationDate,
		RepairDate:         req.RepairDate,
		NewPackageID:       req.NewPackageID,
		Notes:              req.Notes,
		Extra:              req.Extra,
	}
	if len(req.Photos) > 0 {
		input.Photos = make(map[string]domain.PhotoRef, len(req.Photos))
		for name, photo := range req.Photos {
			input.Photos[name] = domain.PhotoRef{
				StorageKey: photo.StorageKey,
				FileName:   photo.FileName,
				SizeBytes:  photo.SizeBytes,
			}
		}
	}
	return input
}

func parseTicketFilter(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statuses := c.Query("status"); statuses != "" {
		for _, part := range strings.Split(statuses, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if types := c.Query("type"); types != "" {
		for _, part := range strings.Split(types, ",") {
			filter.Types = append(filter.Types, domain.TicketType(strings.TrimSpace(part)))
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if createdFrom := parseTime(c.Query("created_from")); createdFrom != nil {
		filter.CreatedFrom = createdFrom
	}
	if createdTo := parseTime(c.Query("created_to")); createdTo != nil {
		filter.CreatedTo = createdTo
	}
	page := parseIntQuery(c, "page", 1)
	pageSize := parseIntQuery(c, "page_size", 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed
	}
	return nil
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:                   ticket.ID,
		TicketNumber:         ticket.TicketNumber,
		CustomerID:           ticket.CustomerID,
		PackageID:            ticket.PackageID,
		Type:                 ticket.Type,
		Status:               ticket.Status,
		Title:                ticket.Title,
		AssignedTechnicianID: ticket.AssignedTechnicianID,
		CreatedAt:            ticket.CreatedAt,
		UpdatedAt:            ticket.UpdatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket) dto.TicketDetailResponse {
	history := make([]dto.StatusHistoryResponse, 0, len(ticket.StatusHistory))
	for i := range ticket.StatusHistory {
		history = append(history, historyResponse(&ticket.StatusHistory[i]))
	}
	return dto.TicketDetailResponse{
		ID:                   ticket.ID,
		TicketNumber:         ticket.TicketNumber,
		CustomerID:           ticket.CustomerID,
		PackageID:            ticket.PackageID,
		Type:                 ticket.Type,
		Status:               ticket.Status,
		Title:                ticket.Title,
		Description:          ticket.Description,
		AssignedTechnicianID: ticket.AssignedTechnicianID,
		Team:                 ticket.Team,
		CompletionData:       ticket.CompletionData,
		StatusHistory:        history,
		CreatedAt:            ticket.CreatedAt,
		UpdatedAt:            ticket.UpdatedAt,
		CompletedAt:          ticket.CompletedAt,
	}
}

func historyResponse(entry *domain.StatusHistoryEntry) dto.StatusHistoryResponse {
	return dto.StatusHistoryResponse{
		ID:           entry.ID,
		OldStatus:    entry.OldStatus,
		NewStatus:    entry.NewStatus,
		ChangedBy:    entry.ChangedBy,
		TechnicianID: entry.TechnicianID,
		Notes:        entry.Notes,
		CreatedAt:    entry.CreatedAt,
	}
}
