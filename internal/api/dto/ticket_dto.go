package dto

import (
	"time"

	"github.com/lintasnet/fieldops/internal/domain"
	"github.com/lintasnet/fieldops/internal/workflow"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerID  string            `json:"customerId"`
	PackageID   *string           `json:"packageId"`
	Type        domain.TicketType `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
}

// StatusChangeRequest is the transition payload posted by staff clients.
type StatusChangeRequest struct {
	TargetStatus   domain.TicketStatus `json:"targetStatus"`
	Note           string              `json:"note"`
	Assignment     *AssignmentRequest  `json:"assignment,omitempty"`
	CompletionData *CompletionRequest  `json:"completionData,omitempty"`
}

// AssignmentRequest selects a technician or a job team.
type AssignmentRequest struct {
	Mode         workflow.AssignmentMode `json:"mode"`
	TechnicianID string                  `json:"technicianId,omitempty"`
	Members      []TeamMemberRequest     `json:"members,omitempty"`
}

// TeamMemberRequest is one roster entry in a team assignment.
type TeamMemberRequest struct {
	TechnicianID string          `json:"technicianId"`
	Role         domain.TeamRole `json:"role"`
}

// CompletionRequest carries the close-out form. Scalars come in as strings
// from the mobile form; photos as references to already-uploaded files.
type CompletionRequest struct {
	OdpLocation        string                     `json:"odpLocation,omitempty"`
	OdpDistance        string                     `json:"odpDistance,omitempty"`
	FinalAttenuationDb string                     `json:"finalAttenuationDb,omitempty"`
	WifiName           string                     `json:"wifiName,omitempty"`
	WifiPassword       string                     `json:"wifiPassword,omitempty"`
	ActivationDate     string                     `json:"activationDate,omitempty"`
	RepairDate         string                     `json:"repairDate,omitempty"`
	NewPackageID       string                     `json:"newPackageId,omitempty"`
	Notes              string                     `json:"notes,omitempty"`
	Photos             map[string]PhotoRefRequest `json:"photos,omitempty"`
	Extra              map[string]any             `json:"extra,omitempty"`
}

// PhotoRefRequest is an uploaded-file reference in a completion payload.
type PhotoRefRequest struct {
	StorageKey string `json:"storageKey"`
	FileName   string `json:"fileName"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// PromoteLeadRequest payload.
type PromoteLeadRequest struct {
	TechnicianID string `json:"technicianId"`
}

// TicketSummary response item for list endpoints.
type TicketSummary struct {
	ID                   string              `json:"id"`
	TicketNumber         string              `json:"ticketNumber"`
	CustomerID           string              `json:"customerId"`
	PackageID            *string             `json:"packageId,omitempty"`
	Type                 domain.TicketType   `json:"type"`
	Status               domain.TicketStatus `json:"status"`
	Title                string              `json:"title"`
	AssignedTechnicianID *string             `json:"assignedTechnicianId,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// TicketDetailResponse provides full ticket info including the audit trail.
type TicketDetailResponse struct {
	ID                   string                  `json:"id"`
	TicketNumber         string                  `json:"ticketNumber"`
	CustomerID           string                  `json:"customerId"`
	PackageID            *string                 `json:"packageId,omitempty"`
	Type                 domain.TicketType       `json:"type"`
	Status               domain.TicketStatus     `json:"status"`
	Title                string                  `json:"title"`
	Description          string                  `json:"description"`
	AssignedTechnicianID *string                 `json:"assignedTechnicianId,omitempty"`
	Team                 []domain.TeamMember     `json:"team,omitempty"`
	CompletionData       *domain.CompletionData  `json:"completionData,omitempty"`
	StatusHistory        []StatusHistoryResponse `json:"statusHistory"`
	CreatedAt            time.Time               `json:"createdAt"`
	UpdatedAt            time.Time               `json:"updatedAt"`
	CompletedAt          *time.Time              `json:"completedAt,omitempty"`
}

// StatusHistoryResponse is one audit-trail row.
type StatusHistoryResponse struct {
	ID           string              `json:"id"`
	OldStatus    domain.TicketStatus `json:"oldStatus"`
	NewStatus    domain.TicketStatus `json:"newStatus"`
	ChangedBy    domain.Actor        `json:"changedBy"`
	TechnicianID *string             `json:"technicianId,omitempty"`
	Notes        string              `json:"notes"`
	CreatedAt    time.Time           `json:"createdAt"`
}
