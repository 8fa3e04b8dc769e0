package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lintasnet/fieldops/internal/domain"
)

// TechnicianRepository is the staff directory.
type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	GetByEmail(ctx context.Context, email string) (*domain.Technician, error)
	ListActive(ctx context.Context) ([]domain.Technician, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	const query = `
        SELECT id, employee_id, full_name, email, phone, password_hash, role, active, created_at, updated_at
        FROM technicians WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *technicianRepository) GetByEmail(ctx context.Context, email string) (*domain.Technician, error) {
	const query = `
        SELECT id, employee_id, full_name, email, phone, password_hash, role, active, created_at, updated_at
        FROM technicians WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	var tech domain.Technician
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&tech.ID,
		&tech.EmployeeID,
		&tech.FullName,
		&tech.Email,
		&tech.Phone,
		&tech.PasswordHash,
		&tech.Role,
		&tech.Active,
		&tech.CreatedAt,
		&tech.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *technicianRepository) ListActive(ctx context.Context) ([]domain.Technician, error) {
	const query = `
        SELECT id, employee_id, full_name, email, phone, password_hash, role, active, created_at, updated_at
        FROM technicians WHERE active=true ORDER BY full_name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.EmployeeID,
			&tech.FullName,
			&tech.Email,
			&tech.Phone,
			&tech.PasswordHash,
			&tech.Role,
			&tech.Active,
			&tech.CreatedAt,
			&tech.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}
