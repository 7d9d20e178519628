package service

import (
	"context"
	"strings"

	invoicedomain "github.com/smallbiznis/propertydesk/internal/invoice/domain"
	"github.com/smallbiznis/propertydesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo invoicedomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo invoicedomain.Repository
}

func New(p Params) invoicedomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("invoice.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, filter invoicedomain.ListFilter) ([]invoicedomain.Invoice, error) {
	var tenancyID int64
	if raw := strings.TrimSpace(filter.TenancyID); raw != "" {
		id, err := invoicedomain.ParseID(raw)
		if err != nil {
			return nil, err
		}
		tenancyID = id
	}

	var status invoicedomain.InvoiceStatus
	if raw := strings.TrimSpace(filter.Status); raw != "" {
		status = invoicedomain.InvoiceStatus(raw)
		if !status.Valid() {
			return nil, invoicedomain.ErrInvalidStatus
		}
	}

	items, err := s.repo.List(ctx, s.db, tenancyID, status)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []invoicedomain.Invoice{}
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*invoicedomain.Invoice, error) {
	invoiceID, err := invoicedomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Invoice, error) {
	number := strings.TrimSpace(req.InvoiceNumber)
	rawMonth := strings.TrimSpace(req.MonthBilled)
	rawBilled := strings.TrimSpace(req.DateBilled)
	rawDue := strings.TrimSpace(req.DueDate)
	if req.TenancyID <= 0 || number == "" || rawMonth == "" || rawBilled == "" || rawDue == "" {
		return nil, invoicedomain.ErrFieldsRequired
	}

	monthBilled, err := parseMonth(rawMonth)
	if err != nil {
		return nil, err
	}
	dateBilled, err := db.ParseDate(rawBilled)
	if err != nil {
		return nil, invoicedomain.ErrInvalidDate
	}
	dueDate, err := db.ParseDate(rawDue)
	if err != nil {
		return nil, invoicedomain.ErrInvalidDate
	}

	status := invoicedomain.InvoiceStatusOpen
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = invoicedomain.InvoiceStatus(raw)
		if !status.Valid() {
			return nil, invoicedomain.ErrInvalidStatus
		}
	}

	invoice := &invoicedomain.Invoice{
		TenancyID:             req.TenancyID,
		InvoiceNumber:         number,
		MonthBilled:           monthBilled,
		DateBilled:            dateBilled,
		DueDate:               dueDate,
		Status:                status,
		BalanceBroughtForward: req.BalanceBroughtForward,
		Rent:                  req.Rent,
		Water:                 req.Water,
		Power:                 req.Power,
		Internet:              req.Internet,
		ServiceCharge:         req.ServiceCharge,
		Deposit:               req.Deposit,
		Damages:               req.Damages,
		TotalAmount:           req.TotalAmount,
		AmountPaid:            req.AmountPaid,
	}
	if invoice.Rent < 0 || invoice.Water < 0 || invoice.Power < 0 || invoice.Internet < 0 ||
		invoice.ServiceCharge < 0 || invoice.Deposit < 0 || invoice.Damages < 0 ||
		invoice.TotalAmount < 0 || invoice.AmountPaid < 0 {
		return nil, invoicedomain.ErrInvalidAmount
	}
	if invoice.TotalAmount == 0 {
		invoice.TotalAmount = invoice.Charges()
	}
	if req.BalanceDue != nil {
		invoice.BalanceDue = *req.BalanceDue
	} else {
		invoice.BalanceDue = invoice.TotalAmount - invoice.AmountPaid
	}

	if err := s.repo.Insert(ctx, s.db, invoice); err != nil {
		return nil, err
	}

	s.log.Info("invoice created",
		zap.Int64("invoice_id", invoice.InvoiceID),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int64("tenancy_id", invoice.TenancyID),
	)
	return invoice, nil
}

// Update records a new amount paid and/or status. A new amount paid also
// resets balance_due against the invoice total.
func (s *Service) Update(ctx context.Context, req invoicedomain.UpdateRequest) error {
	if req.InvoiceID <= 0 {
		return invoicedomain.ErrInvalidID
	}
	if req.AmountPaid == nil && req.Status == nil {
		return invoicedomain.ErrNoFieldsToUpdate
	}
	if req.AmountPaid != nil && *req.AmountPaid < 0 {
		return invoicedomain.ErrInvalidAmount
	}

	var status *invoicedomain.InvoiceStatus
	if req.Status != nil {
		v := invoicedomain.InvoiceStatus(strings.TrimSpace(*req.Status))
		if !v.Valid() {
			return invoicedomain.ErrInvalidStatus
		}
		status = &v
	}

	existing, err := s.repo.FindByID(ctx, s.db, req.InvoiceID)
	if err != nil {
		return err
	}
	if existing == nil {
		return invoicedomain.ErrNotFound
	}

	if _, err := s.repo.Update(ctx, s.db, req.InvoiceID, req.AmountPaid, status); err != nil {
		return err
	}

	s.log.Info("invoice updated", zap.Int64("invoice_id", req.InvoiceID))
	return nil
}

func (s *Service) CreatePayment(ctx context.Context, req invoicedomain.CreatePaymentRequest) (*invoicedomain.InvoicePayment, error) {
	if req.InvoiceID <= 0 || req.PaymentID <= 0 || req.AmountApplied == 0 {
		return nil, invoicedomain.ErrPaymentFieldsRequired
	}
	if req.AmountApplied < 0 {
		return nil, invoicedomain.ErrInvalidAmount
	}

	payment := &invoicedomain.InvoicePayment{
		InvoiceID:     req.InvoiceID,
		PaymentID:     req.PaymentID,
		AmountApplied: req.AmountApplied,
	}
	if err := s.repo.InsertPayment(ctx, s.db, payment); err != nil {
		return nil, err
	}

	s.log.Info("invoice payment applied",
		zap.Int64("invoice_payment_id", payment.InvoicePaymentID),
		zap.Int64("invoice_id", payment.InvoiceID),
		zap.Int64("payment_id", payment.PaymentID),
	)
	return payment, nil
}

func (s *Service) GetPaymentByID(ctx context.Context, id string) (*invoicedomain.InvoicePayment, error) {
	paymentID, err := invoicedomain.ParsePaymentID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindPaymentByID(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, invoicedomain.ErrPaymentNotFound
	}
	return item, nil
}

// parseMonth accepts YYYY-MM or a full date and normalises to the first of
// the month.
func parseMonth(value string) (db.Date, error) {
	if len(value) == len("2006-01") {
		value += "-01"
	}
	parsed, err := db.ParseDate(value)
	if err != nil {
		return db.Date{}, invoicedomain.ErrInvalidDate
	}
	return db.NewDate(parsed.Year(), parsed.Month(), 1), nil
}
