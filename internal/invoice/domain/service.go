package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]Invoice, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	Create(ctx context.Context, req CreateRequest) (*Invoice, error)
	Update(ctx context.Context, req UpdateRequest) error

	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*InvoicePayment, error)
	GetPaymentByID(ctx context.Context, id string) (*InvoicePayment, error)
}

// ListFilter narrows the invoice list; empty fields match everything.
type ListFilter struct {
	TenancyID string `form:"tenancy_id"`
	Status    string `form:"status"`
}

// CreateRequest carries a new invoice. A zero TotalAmount is derived from the
// line amounts and a nil BalanceDue from the total less AmountPaid.
type CreateRequest struct {
	TenancyID             int64    `json:"tenancy_id"`
	InvoiceNumber         string   `json:"invoice_number"`
	MonthBilled           string   `json:"month_billed"`
	DateBilled            string   `json:"date_billed"`
	DueDate               string   `json:"due_date"`
	Status                string   `json:"status"`
	BalanceBroughtForward float64  `json:"balance_brought_forward"`
	Rent                  float64  `json:"rent"`
	Water                 float64  `json:"water"`
	Power                 float64  `json:"power"`
	Internet              float64  `json:"internet"`
	ServiceCharge         float64  `json:"service_charge"`
	Deposit               float64  `json:"deposit"`
	Damages               float64  `json:"damages"`
	TotalAmount           float64  `json:"total_amount"`
	AmountPaid            float64  `json:"amount_paid"`
	BalanceDue            *float64 `json:"balance_due"`
}

type UpdateRequest struct {
	InvoiceID  int64    `json:"invoice_id"`
	AmountPaid *float64 `json:"amount_paid"`
	Status     *string  `json:"status"`
}

type CreatePaymentRequest struct {
	InvoiceID     int64   `json:"invoice_id"`
	PaymentID     int64   `json:"payment_id"`
	AmountApplied float64 `json:"amount_applied"`
}

var (
	ErrInvalidID             = errors.New("invalid_invoice_id")
	ErrNotFound              = errors.New("invoice_not_found")
	ErrFieldsRequired        = errors.New("invoice_fields_required")
	ErrNoFieldsToUpdate      = errors.New("invoice_no_fields_to_update")
	ErrInvalidStatus         = errors.New("invalid_invoice_status")
	ErrInvalidDate           = errors.New("invalid_invoice_date")
	ErrInvalidAmount         = errors.New("invalid_invoice_amount")
	ErrInvalidPaymentID      = errors.New("invalid_invoice_payment_id")
	ErrPaymentFieldsRequired = errors.New("invoice_payment_fields_required")
	ErrPaymentNotFound       = errors.New("invoice_payment_not_found")
)

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func ParsePaymentID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidPaymentID
	}
	return id, nil
}
