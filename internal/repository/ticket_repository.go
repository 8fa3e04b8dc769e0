package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lintasnet/fieldops/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	CustomerID           *string
	AssignedTechnicianID *string
	Statuses             []domain.TicketStatus
	Types                []domain.TicketType
	SearchTerm           *string
	CreatedFrom          *time.Time
	CreatedTo            *time.Time
	Limit                int
	Offset               int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// CommitTransition persists the updated ticket, its team and the new
	// history entry in a single transaction so the audit trail can never
	// drift from the ticket state.
	CommitTransition(ctx context.Context, ticket *domain.Ticket, entry *domain.StatusHistoryEntry) error
	// UpdateTeam replaces the team roster outside a status transition
	// (lead promotion edits).
	UpdateTeam(ctx context.Context, ticket *domain.Ticket) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, customer_id, package_id, type, status, title, description, assigned_technician_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.CustomerID,
		ticket.PackageID,
		ticket.Type,
		ticket.Status,
		ticket.Title,
		ticket.Description,
		ticket.AssignedTechnicianID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

const ticketColumns = `id, ticket_number, customer_id, package_id, type, status, title, description,
               assigned_technician_id, completion_data, created_at, updated_at, completed_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE ticket_number=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if err := r.loadTeam(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) loadTeam(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        SELECT technician_id, role FROM ticket_team_members
        WHERE ticket_id=$1 ORDER BY position ASC`
	rows, err := r.pool.Query(ctx, query, ticket.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var member domain.TeamMember
		if err := rows.Scan(&member.TechnicianID, &member.Role); err != nil {
			return err
		}
		ticket.Team = append(ticket.Team, member)
	}
	return rows.Err()
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.AssignedTechnicianID != nil {
		args = append(args, *filter.AssignedTechnicianID)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(assigned_technician_id=%s OR id IN (SELECT ticket_id FROM ticket_team_members WHERE technician_id=%s))",
			placeholder, placeholder))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, typ := range filter.Types {
			args = append(args, typ)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(ticket_number) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) CommitTransition(ctx context.Context, ticket *domain.Ticket, entry *domain.StatusHistoryEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	completionJSON, err := marshalCompletion(ticket.CompletionData)
	if err != nil {
		return err
	}

	const updateQuery = `
        UPDATE tickets SET status=$1, assigned_technician_id=$2, completion_data=$3,
            completed_at=$4, updated_at=$5
        WHERE id=$6`
	cmd, err := tx.Exec(ctx, updateQuery,
		ticket.Status,
		ticket.AssignedTechnicianID,
		completionJSON,
		ticket.CompletedAt,
		ticket.UpdatedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := replaceTeam(ctx, tx, ticket); err != nil {
		return err
	}

	const historyQuery = `
        INSERT INTO ticket_status_history (ticket_id, old_status, new_status, changed_by_id, changed_by_role, technician_id, notes, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	if err := tx.QueryRow(ctx, historyQuery,
		entry.TicketID,
		entry.OldStatus,
		entry.NewStatus,
		entry.ChangedBy.ID,
		entry.ChangedBy.Role,
		entry.TechnicianID,
		entry.Notes,
		entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) UpdateTeam(ctx context.Context, ticket *domain.Ticket) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `UPDATE tickets SET assigned_technician_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := tx.Exec(ctx, query, ticket.AssignedTechnicianID, ticket.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	if err := replaceTeam(ctx, tx, ticket); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func replaceTeam(ctx context.Context, tx pgx.Tx, ticket *domain.Ticket) error {
	if _, err := tx.Exec(ctx, `DELETE FROM ticket_team_members WHERE ticket_id=$1`, ticket.ID); err != nil {
		return err
	}
	const insertQuery = `
        INSERT INTO ticket_team_members (ticket_id, technician_id, role, position)
        VALUES ($1,$2,$3,$4)`
	for i, member := range ticket.Team {
		if _, err := tx.Exec(ctx, insertQuery, ticket.ID, member.TechnicianID, member.Role, i); err != nil {
			return err
		}
	}
	return nil
}

func marshalCompletion(data *domain.CompletionData) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	return json.Marshal(data)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var ticket domain.Ticket
	var completionJSON []byte
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.CustomerID,
		&ticket.PackageID,
		&ticket.Type,
		&ticket.Status,
		&ticket.Title,
		&ticket.Description,
		&ticket.AssignedTechnicianID,
		&completionJSON,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.CompletedAt,
	); err != nil {
		return nil, err
	}
	if len(completionJSON) > 0 {
		var data domain.CompletionData
		if err := json.Unmarshal(completionJSON, &data); err != nil {
			return nil, err
		}
		ticket.CompletionData = &data
	}
	return &ticket, nil
}
