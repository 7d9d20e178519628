package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	apartmentrepo "github.com/smallbiznis/propertydesk/internal/apartment/repository"
	apartmentservice "github.com/smallbiznis/propertydesk/internal/apartment/service"
	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	dashboarddomain "github.com/smallbiznis/propertydesk/internal/dashboard/domain"
	"github.com/smallbiznis/propertydesk/internal/dashboard/repository"
	"github.com/smallbiznis/propertydesk/internal/migration"
	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	paymentrepo "github.com/smallbiznis/propertydesk/internal/payment/repository"
	paymentservice "github.com/smallbiznis/propertydesk/internal/payment/service"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	waterrepo "github.com/smallbiznis/propertydesk/internal/water/repository"
	waterservice "github.com/smallbiznis/propertydesk/internal/water/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2024, time.March, 20, 9, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.ApplySQLiteSchema(context.Background(), db))
	return db
}

func newService(db *gorm.DB, usage waterdomain.UsageService) dashboarddomain.Service {
	fake := clock.NewFakeClock(now)
	reporting := config.NewStaticReportingConfigHolder(config.DefaultReportingConfig())

	if usage == nil {
		usage = waterservice.NewUsageService(waterservice.Params{
			DB:        db,
			Log:       zap.NewNop(),
			Repo:      waterrepo.Provide(),
			Clock:     fake,
			Reporting: reporting,
		})
	}

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Repo:  repository.Provide(),
		Clock: fake,
		Apartments: apartmentservice.New(apartmentservice.Params{
			DB:   db,
			Log:  zap.NewNop(),
			Repo: apartmentrepo.Provide(),
		}),
		Payments: paymentservice.New(paymentservice.Params{
			DB:        db,
			Log:       zap.NewNop(),
			Repo:      paymentrepo.Provide(),
			Clock:     fake,
			Reporting: reporting,
		}),
		Usage: usage,
	})
}

func seedPortfolio(t *testing.T, db *gorm.DB) {
	t.Helper()

	stmts := []string{
		`INSERT INTO properties (property_id, name) VALUES (1, 'Sunrise Court')`,
		`INSERT INTO apartments (apartment_id, property_id, apartment_number) VALUES
			(1, 1, 'A1'), (2, 1, 'A2'), (3, 1, 'A3'), (4, 1, 'A4')`,
		`INSERT INTO tenants (tenant_id, name) VALUES
			(1, 'Jane Wanjiru'), (2, 'Otieno Ochieng'), (3, 'Amina Hassan'), (4, 'Peter Kamau')`,
		`INSERT INTO tenancies (tenancy_id, apartment_id, tenant_id, start_date, end_date, active) VALUES
			(1, 1, 1, '2023-06-01', NULL, 1),
			(2, 2, 2, '2023-09-01', NULL, 1),
			(3, 3, 3, '2022-01-01', '2024-03-10', 0),
			(4, 4, 4, '2024-03-05', NULL, 1)`,
		`INSERT INTO payments (tenancy_id, payment_date, amount_paid, for_month) VALUES
			(1, '2024-02-03', 1000, '2024-02-01'),
			(1, '2024-03-05', 1200, '2024-03-01')`,
		`INSERT INTO maintenance (apartment_id, status) VALUES
			(1, 'Pending'), (2, 'Pending'), (3, 'Completed'), (4, 'In Progress'), (4, 'On Hold')`,
		`INSERT INTO water_meters (water_meter_id, apartment_id, meter_number) VALUES (1, 1, 'WM-001')`,
		`INSERT INTO water_readings (water_meter_id, reading_date, water_meter_reading) VALUES
			(1, '2024-01-31', 100), (1, '2024-02-28', 130), (1, '2024-03-15', 150)`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
}

func TestCounts(t *testing.T) {
	db := setupDB(t)
	seedPortfolio(t, db)
	svc := newService(db, nil)
	ctx := context.Background()

	active, err := svc.ActiveTenancies(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), active)

	newTenants, err := svc.NewTenants(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), newTenants)

	moves, err := svc.Moves(ctx)
	require.NoError(t, err)
	assert.Equal(t, &dashboarddomain.Moves{MoveIns: 1, MoveOuts: 1}, moves)

	maintenance, err := svc.Maintenance(ctx)
	require.NoError(t, err)
	assert.Equal(t, &dashboarddomain.MaintenanceCounts{Pending: 2, InProgress: 1, Completed: 1}, maintenance)
}

func TestMetrics(t *testing.T) {
	db := setupDB(t)
	seedPortfolio(t, db)
	svc := newService(db, nil)

	got, err := svc.Metrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), got.TotalApartments)
	assert.Equal(t, int64(3), got.ActiveTenancies)
	assert.Equal(t, 75.0, got.OccupancyRate)
	assert.Equal(t, 1200.0, got.TotalRevenue)
	assert.Equal(t, int64(2), got.OverduePayments)
	assert.Equal(t, int64(1), got.MoveIns)
	assert.Equal(t, int64(1), got.MoveOuts)
	assert.Equal(t, 20.0, got.WaterConsumption)
	assert.Equal(t, []paymentdomain.MonthlyRevenue{
		{Year: 2024, Month: 2, Value: 1000},
		{Year: 2024, Month: 3, Value: 1200},
	}, got.MonthlyRevenue)
	require.Len(t, got.MonthlyWaterUsage, 2)
	assert.Equal(t, 20.0, got.RevenueTrend)
	assert.Equal(t, -33.33, got.WaterTrend)
}

func TestMetricsEmptyDatabase(t *testing.T) {
	db := setupDB(t)
	svc := newService(db, nil)

	got, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.OccupancyRate)
	assert.Equal(t, 0.0, got.RevenueTrend)
	assert.Equal(t, 0.0, got.WaterTrend)
	assert.Empty(t, got.MonthlyRevenue)
}

type failingUsage struct {
	waterdomain.UsageService
}

func (failingUsage) Consumption(context.Context) (*waterdomain.Consumption, error) {
	return nil, errors.New("usage view unavailable")
}

func (failingUsage) MonthlySeries(ctx context.Context) ([]waterdomain.MonthlyConsumption, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestMetricsFailsWhole(t *testing.T) {
	db := setupDB(t)
	seedPortfolio(t, db)
	svc := newService(db, failingUsage{})

	got, err := svc.Metrics(context.Background())
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "usage view unavailable")
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0.0, OccupancyRate(3, 0))
	assert.Equal(t, 66.67, OccupancyRate(2, 3))
	assert.Equal(t, 100.0, OccupancyRate(5, 5))
}
