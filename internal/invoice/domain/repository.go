package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	// List matches tenancyID and status when they are non-zero, newest bill first.
	List(ctx context.Context, db *gorm.DB, tenancyID int64, status InvoiceStatus) ([]Invoice, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Invoice, error)
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	// Update writes only the non-nil fields and reports the rows matched.
	Update(ctx context.Context, db *gorm.DB, id int64, amountPaid *float64, status *InvoiceStatus) (int64, error)

	InsertPayment(ctx context.Context, db *gorm.DB, payment *InvoicePayment) error
	FindPaymentByID(ctx context.Context, db *gorm.DB, id int64) (*InvoicePayment, error)
}
