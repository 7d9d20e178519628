package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Property, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Property, error)
}
