package service

import (
	"context"

	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	"github.com/smallbiznis/propertydesk/internal/observability/metrics"
	"github.com/smallbiznis/propertydesk/internal/water/aggregate"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/smallbiznis/propertydesk/pkg/calendar"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UsageService struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      waterdomain.Repository
	clock     clock.Clock
	reporting *config.ReportingConfigHolder
	metrics   *metrics.WaterMetrics
}

func NewUsageService(p Params) waterdomain.UsageService {
	return &UsageService{
		db:        p.DB,
		log:       p.Log.Named("water.usage.service"),
		repo:      p.Repo,
		clock:     p.Clock,
		reporting: p.Reporting,
		metrics:   p.Metrics,
	}
}

// Consumption totals the current calendar month. A zero total falls back to
// the previous month and the response is relabelled to it.
func (s *UsageService) Consumption(ctx context.Context) (*waterdomain.Consumption, error) {
	window := calendar.MonthOf(s.clock.Now())

	total, err := s.repo.SumConsumption(ctx, s.db, window.Start.String(), window.Next.String())
	if err != nil {
		return nil, err
	}

	if aggregate.ZeroTriggersPreviousMonth(total) {
		window = window.Previous()
		total, err = s.repo.SumConsumption(ctx, s.db, window.Start.String(), window.Next.String())
		if err != nil {
			return nil, err
		}
		s.metrics.IncConsumptionFallback()
		s.log.Debug("current month consumption is zero, reporting previous month",
			zap.String("month", window.Key()),
		)
	}

	return &waterdomain.Consumption{
		TotalConsumption: total,
		Month:            window.Key(),
		StartDate:        window.Start.String(),
		EndDate:          window.End().String(),
	}, nil
}

func (s *UsageService) MonthlySeries(ctx context.Context) ([]waterdomain.MonthlyConsumption, error) {
	months := config.DefaultReportingConfig().WaterSeriesMonths
	if s.reporting != nil {
		months = s.reporting.Get().WaterSeriesMonths
	}

	from := calendar.MonthsBack(s.clock.Now(), months)
	rows, err := s.repo.ListUsageSince(ctx, s.db, from.String())
	if err != nil {
		return nil, err
	}
	return aggregate.GroupByMonth(rows), nil
}

func (s *UsageService) MeterMonthly(ctx context.Context) (waterdomain.MeterMonthlyMap, error) {
	rows, err := s.repo.ListUsageByMeter(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return aggregate.BuildMeterMonthlyMap(rows), nil
}
