package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lintasnet/fieldops/internal/domain"
)

// ServicePackageRepository looks up subscription plans.
type ServicePackageRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServicePackage, error)
}

type servicePackageRepository struct {
	pool *pgxpool.Pool
}

// NewServicePackageRepository instantiates repository.
func NewServicePackageRepository(pool *pgxpool.Pool) ServicePackageRepository {
	return &servicePackageRepository{pool: pool}
}

func (r *servicePackageRepository) GetByID(ctx context.Context, id string) (*domain.ServicePackage, error) {
	const query = `
        SELECT id, name, speed_mbps, monthly_fee, is_active, description, created_at, updated_at
        FROM service_packages WHERE id=$1`
	var pkg domain.ServicePackage
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.SpeedMbps,
		&pkg.MonthlyFee,
		&pkg.IsActive,
		&pkg.Description,
		&pkg.CreatedAt,
		&pkg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &pkg, nil
}
