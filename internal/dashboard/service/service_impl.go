package service

import (
	"context"

	apartmentdomain "github.com/smallbiznis/propertydesk/internal/apartment/domain"
	"github.com/smallbiznis/propertydesk/internal/clock"
	dashboarddomain "github.com/smallbiznis/propertydesk/internal/dashboard/domain"
	"github.com/smallbiznis/propertydesk/internal/observability/metrics"
	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	"github.com/smallbiznis/propertydesk/internal/water/aggregate"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/smallbiznis/propertydesk/pkg/calendar"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const revenueSeriesMonths = 12

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       dashboarddomain.Repository
	Clock      clock.Clock
	Apartments apartmentdomain.Service
	Payments   paymentdomain.Service
	Usage      waterdomain.UsageService
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       dashboarddomain.Repository
	clock      clock.Clock
	apartments apartmentdomain.Service
	payments   paymentdomain.Service
	usage      waterdomain.UsageService
	metrics    *metrics.Metrics
}

func New(p Params) dashboarddomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("dashboard.service"),
		repo:       p.Repo,
		clock:      p.Clock,
		apartments: p.Apartments,
		payments:   p.Payments,
		usage:      p.Usage,
		metrics:    p.Metrics,
	}
}

func (s *Service) ActiveTenancies(ctx context.Context) (int64, error) {
	return s.repo.CountActiveTenancies(ctx, s.db)
}

func (s *Service) NewTenants(ctx context.Context) (int64, error) {
	window := calendar.MonthOf(s.clock.Now())
	return s.repo.CountNewTenants(ctx, s.db, window.Start.String(), window.Next.String())
}

func (s *Service) Moves(ctx context.Context) (*dashboarddomain.Moves, error) {
	window := calendar.MonthOf(s.clock.Now())
	from, until := window.Start.String(), window.Next.String()

	moveIns, err := s.repo.CountMoveIns(ctx, s.db, from, until)
	if err != nil {
		return nil, err
	}
	moveOuts, err := s.repo.CountMoveOuts(ctx, s.db, from, until)
	if err != nil {
		return nil, err
	}
	return &dashboarddomain.Moves{MoveIns: moveIns, MoveOuts: moveOuts}, nil
}

// Maintenance buckets request counts by the four known statuses. Unknown
// statuses are ignored.
func (s *Service) Maintenance(ctx context.Context) (*dashboarddomain.MaintenanceCounts, error) {
	rows, err := s.repo.CountMaintenanceByStatus(ctx, s.db)
	if err != nil {
		return nil, err
	}

	counts := &dashboarddomain.MaintenanceCounts{}
	for _, row := range rows {
		switch row.Status {
		case dashboarddomain.MaintenanceStatusPending:
			counts.Pending += row.Count
		case dashboarddomain.MaintenanceStatusInProgress:
			counts.InProgress += row.Count
		case dashboarddomain.MaintenanceStatusCompleted:
			counts.Completed += row.Count
		case dashboarddomain.MaintenanceStatusCancelled:
			counts.Cancelled += row.Count
		}
	}
	return counts, nil
}

// Metrics loads every dashboard figure concurrently. The first failure
// cancels the remaining queries and no partial result is returned.
func (s *Service) Metrics(ctx context.Context) (*dashboarddomain.Metrics, error) {
	var (
		out         dashboarddomain.Metrics
		maintenance *dashboarddomain.MaintenanceCounts
		moves       *dashboarddomain.Moves
		consumption *waterdomain.Consumption
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		out.TotalApartments, err = s.apartments.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ActiveTenancies, err = s.ActiveTenancies(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalRevenue, err = s.payments.Revenue(gctx, paymentdomain.RevenueRequest{})
		return err
	})
	g.Go(func() (err error) {
		out.NewTenants, err = s.NewTenants(gctx)
		return err
	})
	g.Go(func() (err error) {
		maintenance, err = s.Maintenance(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.OverduePayments, err = s.payments.Overdue(gctx)
		return err
	})
	g.Go(func() (err error) {
		moves, err = s.Moves(gctx)
		return err
	})
	g.Go(func() (err error) {
		consumption, err = s.usage.Consumption(gctx)
		return err
	})
	g.Go(func() (err error) {
		months := revenueSeriesMonths
		out.MonthlyRevenue, err = s.payments.MonthlyRevenue(gctx, &months)
		return err
	})
	g.Go(func() (err error) {
		out.MonthlyWaterUsage, err = s.usage.MonthlySeries(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.metrics.RecordDashboardLoad(ctx, "error")
		s.log.Error("dashboard metrics failed", zap.Error(err))
		return nil, err
	}

	out.MaintenanceRequests = *maintenance
	out.MoveIns = moves.MoveIns
	out.MoveOuts = moves.MoveOuts
	out.WaterConsumption = consumption.TotalConsumption
	out.OccupancyRate = OccupancyRate(out.ActiveTenancies, out.TotalApartments)

	revenueSeries := make([]float64, 0, len(out.MonthlyRevenue))
	for _, point := range out.MonthlyRevenue {
		revenueSeries = append(revenueSeries, point.Value)
	}
	waterSeries := make([]float64, 0, len(out.MonthlyWaterUsage))
	for _, point := range out.MonthlyWaterUsage {
		waterSeries = append(waterSeries, point.TotalConsumption)
	}
	out.RevenueTrend = aggregate.SeriesTrend(out.TotalRevenue, revenueSeries)
	out.WaterTrend = aggregate.SeriesTrend(out.WaterConsumption, waterSeries)

	s.metrics.RecordDashboardLoad(ctx, "ok")
	return &out, nil
}

// OccupancyRate is active tenancies as a percentage of apartments, rounded to
// two decimals.
func OccupancyRate(active, apartments int64) float64 {
	if apartments == 0 {
		return 0
	}
	return aggregate.Round2(float64(active) / float64(apartments) * 100)
}
