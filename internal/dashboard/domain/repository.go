package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CountActiveTenancies(ctx context.Context, db *gorm.DB) (int64, error)
	// CountNewTenants counts distinct tenants whose tenancy starts in [from, until).
	CountNewTenants(ctx context.Context, db *gorm.DB, from, until string) (int64, error)
	CountMoveIns(ctx context.Context, db *gorm.DB, from, until string) (int64, error)
	CountMoveOuts(ctx context.Context, db *gorm.DB, from, until string) (int64, error)
	CountMaintenanceByStatus(ctx context.Context, db *gorm.DB) ([]StatusCount, error)
}
