package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]ApartmentView, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*ApartmentView, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}
