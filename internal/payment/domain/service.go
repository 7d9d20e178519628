package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type Service interface {
	List(ctx context.Context, filter ListFilter) ([]PaymentView, error)
	GetByID(ctx context.Context, id string) (*Payment, error)
	Create(ctx context.Context, req CreateRequest) (*Payment, error)
	Delete(ctx context.Context, id string) error

	Revenue(ctx context.Context, req RevenueRequest) (float64, error)
	MonthlyRevenue(ctx context.Context, months *int) ([]MonthlyRevenue, error)
	// TrailingRevenue returns monthly totals for the configured trailing window, oldest first.
	TrailingRevenue(ctx context.Context) ([]float64, error)
	Overdue(ctx context.Context) (int64, error)
}

// ListFilter holds optional substring filters; empty fields match everything.
type ListFilter struct {
	PaymentID       string `form:"payment_id"`
	TenantName      string `form:"tenant_name"`
	ApartmentNumber string `form:"apartment_number"`
	PropertyName    string `form:"property_name"`
	PaymentDate     string `form:"payment_date"`
	ForMonth        string `form:"for_month"`
	InvoiceID       string `form:"invoice_id"`
}

type CreateRequest struct {
	TenancyID   int64   `json:"tenancy_id"`
	PaymentDate string  `json:"payment_date"`
	AmountPaid  float64 `json:"amount_paid"`
	ForMonth    string  `json:"for_month"`
	InvoiceID   *int64  `json:"invoice_id"`
}

type RevenueRequest struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

type MonthlyRevenue struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Value float64 `json:"value"`
}

var (
	ErrInvalidID      = errors.New("invalid_payment_id")
	ErrNotFound       = errors.New("payment_not_found")
	ErrFieldsRequired = errors.New("payment_fields_required")
	ErrInvalidAmount  = errors.New("invalid_amount_paid")
	ErrInvalidDate    = errors.New("invalid_payment_date")
	ErrInvalidMonths  = errors.New("invalid_months")
)

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
