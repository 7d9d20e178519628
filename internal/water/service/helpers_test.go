package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/propertydesk/internal/clock"
	"github.com/smallbiznis/propertydesk/internal/config"
	"github.com/smallbiznis/propertydesk/internal/migration"
	"github.com/smallbiznis/propertydesk/internal/observability/metrics"
	"github.com/smallbiznis/propertydesk/internal/water/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.ApplySQLiteSchema(context.Background(), db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func newTestParams(t *testing.T, db *gorm.DB, now time.Time) (Params, *prometheus.Registry) {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	registry := prometheus.NewRegistry()
	waterMetrics := metrics.NewWaterMetrics(registry, metrics.Config{Environment: "test"})

	return Params{
		DB:        db,
		Log:       zap.NewNop(),
		GenID:     node,
		Repo:      repository.Provide(),
		Clock:     clock.NewFakeClock(now),
		Reporting: config.NewStaticReportingConfigHolder(config.DefaultReportingConfig()),
		Metrics:   waterMetrics,
	}, registry
}

// counterValue sums every series of name whose label matches; pass an empty
// label to sum them all.
func counterValue(t *testing.T, registry *prometheus.Registry, name, label, value string) float64 {
	t.Helper()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	var total float64
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if label != "" && !hasLabel(m, label, value) {
				continue
			}
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == name && pair.GetValue() == value {
			return true
		}
	}
	return false
}

func seedReading(t *testing.T, db *gorm.DB, meterID int64, date string, value float64) {
	t.Helper()
	if err := db.Exec(
		`INSERT INTO water_readings (water_meter_id, reading_date, water_meter_reading) VALUES (?, ?, ?)`,
		meterID, date, value,
	).Error; err != nil {
		t.Fatalf("seed reading: %v", err)
	}
}

func countReadings(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Raw(`SELECT COUNT(*) FROM water_readings`).Scan(&count).Error; err != nil {
		t.Fatalf("count readings: %v", err)
	}
	return count
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
func int64Ptr(v int64) *int64     { return &v }
