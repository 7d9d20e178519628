package repository

import (
	"context"

	dashboarddomain "github.com/smallbiznis/propertydesk/internal/dashboard/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() dashboarddomain.Repository {
	return &repo{}
}

func (r *repo) CountActiveTenancies(ctx context.Context, db *gorm.DB) (int64, error) {
	return count(ctx, db, `SELECT COUNT(*) AS total FROM tenancies WHERE active = 1`)
}

func (r *repo) CountNewTenants(ctx context.Context, db *gorm.DB, from, until string) (int64, error) {
	return count(ctx, db,
		`SELECT COUNT(DISTINCT tenant_id) AS total
		 FROM tenancies
		 WHERE start_date >= ? AND start_date < ?`,
		from, until,
	)
}

func (r *repo) CountMoveIns(ctx context.Context, db *gorm.DB, from, until string) (int64, error) {
	return count(ctx, db,
		`SELECT COUNT(*) AS total FROM tenancies WHERE start_date >= ? AND start_date < ?`,
		from, until,
	)
}

func (r *repo) CountMoveOuts(ctx context.Context, db *gorm.DB, from, until string) (int64, error) {
	return count(ctx, db,
		`SELECT COUNT(*) AS total FROM tenancies WHERE end_date >= ? AND end_date < ?`,
		from, until,
	)
}

func (r *repo) CountMaintenanceByStatus(ctx context.Context, db *gorm.DB) ([]dashboarddomain.StatusCount, error) {
	var rows []dashboarddomain.StatusCount
	err := db.WithContext(ctx).Raw(
		`SELECT status, COUNT(*) AS count FROM maintenance GROUP BY status`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func count(ctx context.Context, db *gorm.DB, query string, args ...any) (int64, error) {
	var total int64
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
