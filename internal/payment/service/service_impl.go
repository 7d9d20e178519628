package service

import (
	"context"
	"sort"
	"strings"

	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	"github.com/smallbiznis/propertydesk/pkg/calendar"
	"github.com/smallbiznis/propertydesk/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      paymentdomain.Repository
	Clock     clock.Clock
	Reporting *config.ReportingConfigHolder
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      paymentdomain.Repository
	clock     clock.Clock
	reporting *config.ReportingConfigHolder
}

func New(p Params) paymentdomain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("payment.service"),
		repo:      p.Repo,
		clock:     p.Clock,
		reporting: p.Reporting,
	}
}

func (s *Service) List(ctx context.Context, filter paymentdomain.ListFilter) ([]paymentdomain.PaymentView, error) {
	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []paymentdomain.PaymentView{}
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*paymentdomain.Payment, error) {
	paymentID, err := paymentdomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, paymentdomain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, req paymentdomain.CreateRequest) (*paymentdomain.Payment, error) {
	rawDate := strings.TrimSpace(req.PaymentDate)
	if req.TenancyID <= 0 || rawDate == "" || req.AmountPaid == 0 {
		return nil, paymentdomain.ErrFieldsRequired
	}
	if req.AmountPaid < 0 {
		return nil, paymentdomain.ErrInvalidAmount
	}

	paymentDate, err := db.ParseDate(rawDate)
	if err != nil {
		return nil, paymentdomain.ErrInvalidDate
	}

	forMonth, err := parseForMonth(req.ForMonth)
	if err != nil {
		return nil, err
	}

	var invoiceID *int64
	if req.InvoiceID != nil && *req.InvoiceID > 0 {
		invoiceID = req.InvoiceID
	}

	payment := &paymentdomain.Payment{
		TenancyID:   req.TenancyID,
		PaymentDate: paymentDate,
		AmountPaid:  req.AmountPaid,
		ForMonth:    forMonth,
		InvoiceID:   invoiceID,
	}
	if err := s.repo.Insert(ctx, s.db, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.Int64("payment_id", payment.PaymentID),
		zap.Int64("tenancy_id", payment.TenancyID),
	)
	return payment, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	paymentID, err := paymentdomain.ParseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, s.db, paymentID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return paymentdomain.ErrNotFound
	}
	return nil
}

// Revenue sums payments between the requested dates, inclusive. Missing
// bounds default to the current calendar month.
func (s *Service) Revenue(ctx context.Context, req paymentdomain.RevenueRequest) (float64, error) {
	window := calendar.MonthOf(s.clock.Now())
	from := window.Start
	to := window.End()

	if raw := strings.TrimSpace(req.StartDate); raw != "" {
		parsed, err := db.ParseDate(raw)
		if err != nil {
			return 0, paymentdomain.ErrInvalidDate
		}
		from = parsed
	}
	if raw := strings.TrimSpace(req.EndDate); raw != "" {
		parsed, err := db.ParseDate(raw)
		if err != nil {
			return 0, paymentdomain.ErrInvalidDate
		}
		to = parsed
	}

	return s.repo.SumBetween(ctx, s.db, from.String(), to.String())
}

// MonthlyRevenue returns at most months entries, oldest first, covering the
// current month and the months before it. Months without payments are omitted.
func (s *Service) MonthlyRevenue(ctx context.Context, months *int) ([]paymentdomain.MonthlyRevenue, error) {
	cfg := s.reportingConfig()

	n := cfg.RevenueDefaultMonths
	if months != nil {
		n = *months
	}
	if n < 1 {
		return nil, paymentdomain.ErrInvalidMonths
	}
	if n > cfg.RevenueMaxMonths {
		n = cfg.RevenueMaxMonths
	}

	from := calendar.MonthOf(s.clock.Now()).Shift(-n)
	rows, err := s.repo.ListAmountsSince(ctx, s.db, from.Start.String())
	if err != nil {
		return nil, err
	}

	out := groupRevenue(rows)
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *Service) TrailingRevenue(ctx context.Context) ([]float64, error) {
	n := s.reportingConfig().RevenueTrailingMonths
	from := calendar.MonthsBack(s.clock.Now(), n)

	rows, err := s.repo.ListAmountsSince(ctx, s.db, from.String())
	if err != nil {
		return nil, err
	}

	grouped := groupRevenue(rows)
	out := make([]float64, 0, len(grouped))
	for _, m := range grouped {
		out = append(out, m.Value)
	}
	return out, nil
}

// Overdue counts active tenancies that have no payment for the current month.
func (s *Service) Overdue(ctx context.Context) (int64, error) {
	window := calendar.MonthOf(s.clock.Now())
	return s.repo.CountUnpaidActive(ctx, s.db, window.Start.String(), window.Next.String())
}

func (s *Service) reportingConfig() config.ReportingConfig {
	if s.reporting == nil {
		return config.DefaultReportingConfig()
	}
	return s.reporting.Get()
}

func groupRevenue(rows []paymentdomain.DatedAmount) []paymentdomain.MonthlyRevenue {
	type key struct{ year, month int }
	totals := make(map[key]float64)
	for _, row := range rows {
		if row.PaymentDate.IsZero() {
			continue
		}
		k := key{year: row.PaymentDate.Year(), month: int(row.PaymentDate.Month())}
		totals[k] += row.AmountPaid
	}

	out := make([]paymentdomain.MonthlyRevenue, 0, len(totals))
	for k, v := range totals {
		out = append(out, paymentdomain.MonthlyRevenue{Year: k.year, Month: k.month, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// parseForMonth accepts YYYY-MM or a full date and normalises to the first
// of the month. Empty means no month was given.
func parseForMonth(value string) (db.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return db.Date{}, nil
	}
	if len(value) == len("2006-01") {
		value += "-01"
	}
	parsed, err := db.ParseDate(value)
	if err != nil {
		return db.Date{}, paymentdomain.ErrInvalidDate
	}
	return db.NewDate(parsed.Year(), parsed.Month(), 1), nil
}
