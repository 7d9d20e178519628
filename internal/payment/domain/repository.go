package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]PaymentView, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Payment, error)
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)

	// SumBetween totals amount_paid for payment_date in [from, to], both inclusive.
	SumBetween(ctx context.Context, db *gorm.DB, from, to string) (float64, error)
	ListAmountsSince(ctx context.Context, db *gorm.DB, from string) ([]DatedAmount, error)
	// CountUnpaidActive counts active tenancies with no payment whose for_month is in [from, until).
	CountUnpaidActive(ctx context.Context, db *gorm.DB, from, until string) (int64, error)
}
