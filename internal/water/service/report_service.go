package service

import (
	"context"

	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	"github.com/smallbiznis/propertydesk/internal/water/aggregate"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/smallbiznis/propertydesk/internal/water/report"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReportService struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      waterdomain.Repository
	clock     clock.Clock
	reporting *config.ReportingConfigHolder
}

func NewReportService(p Params) waterdomain.ReportService {
	return &ReportService{
		db:        p.DB,
		log:       p.Log.Named("water.report.service"),
		repo:      p.Repo,
		clock:     p.Clock,
		reporting: p.Reporting,
	}
}

// Build joins every reading with its meter, apartment and property, keeps the
// latest reading per apartment and pivots the trailing months of usage.
func (s *ReportService) Build(ctx context.Context) (*waterdomain.Report, error) {
	window := config.DefaultReportingConfig().ReportWindowMonths
	if s.reporting != nil {
		window = s.reporting.Get().ReportWindowMonths
	}

	rows, err := s.repo.ListJoinedReadings(ctx, s.db)
	if err != nil {
		return nil, err
	}

	usage, err := s.repo.ListUsageByMeter(ctx, s.db)
	if err != nil {
		return nil, err
	}

	return report.Build(s.clock.Now(), window, rows, aggregate.BuildMeterMonthlyMap(usage)), nil
}
