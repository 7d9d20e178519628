package service

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/propertydesk/internal/clock"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedScenario(t *testing.T, params Params) {
	t.Helper()
	seedReading(t, params.DB, 1, "2024-01-01", 100)
	seedReading(t, params.DB, 1, "2024-02-01", 130)
	seedReading(t, params.DB, 1, "2024-03-01", 130)
}

func TestConsumptionFallsBackToPreviousMonthOnZero(t *testing.T) {
	db := setupTestDB(t)
	params, registry := newTestParams(t, db, testNow)
	seedScenario(t, params)

	got, err := NewUsageService(params).Consumption(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &waterdomain.Consumption{
		TotalConsumption: 30,
		Month:            "2024-02",
		StartDate:        "2024-02-01",
		EndDate:          "2024-02-29",
	}, got)
	assert.Equal(t, 1.0, counterValue(t, registry, "propertydesk_water_consumption_fallback_total", "", ""))
}

func TestConsumptionReportsCurrentMonth(t *testing.T) {
	db := setupTestDB(t)
	params, registry := newTestParams(t, db, testNow)
	seedScenario(t, params)
	seedReading(t, db, 2, "2024-02-20", 10)
	seedReading(t, db, 2, "2024-03-10", 14.5)

	got, err := NewUsageService(params).Consumption(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4.5, got.TotalConsumption)
	assert.Equal(t, "2024-03", got.Month)
	assert.Equal(t, "2024-03-01", got.StartDate)
	assert.Equal(t, "2024-03-31", got.EndDate)
	assert.Equal(t, 0.0, counterValue(t, registry, "propertydesk_water_consumption_fallback_total", "", ""))
}

func TestConsumptionFallbackAcrossYearBoundary(t *testing.T) {
	db := setupTestDB(t)
	params, _ := newTestParams(t, db, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	seedReading(t, db, 1, "2023-11-30", 10)
	seedReading(t, db, 1, "2023-12-30", 25)

	got, err := NewUsageService(params).Consumption(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2023-12", got.Month)
	assert.Equal(t, 15.0, got.TotalConsumption)
}

func TestMonthlySeriesScenario(t *testing.T) {
	db := setupTestDB(t)
	params, _ := newTestParams(t, db, testNow)
	seedScenario(t, params)
	svc := NewUsageService(params)

	first, err := svc.MonthlySeries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []waterdomain.MonthlyConsumption{
		{Month: "2024-02", TotalConsumption: 30},
		{Month: "2024-03", TotalConsumption: 0},
	}, first)

	second, err := svc.MonthlySeries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMonthlySeriesHonoursLookback(t *testing.T) {
	db := setupTestDB(t)
	params, _ := newTestParams(t, db, testNow)
	seedScenario(t, params)
	params.Clock = clock.NewFakeClock(time.Date(2026, time.February, 15, 0, 0, 0, 0, time.UTC))

	got, err := NewUsageService(params).MonthlySeries(context.Background())
	require.NoError(t, err)
	// 2024-02-01 is before the 24 month lookback from 2026-02-15
	assert.Equal(t, []waterdomain.MonthlyConsumption{{Month: "2024-03", TotalConsumption: 0}}, got)
}

func TestMeterMonthlyLastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	params, _ := newTestParams(t, db, testNow)
	seedReading(t, db, 1, "2024-02-28", 100)
	seedReading(t, db, 1, "2024-03-02", 104)
	seedReading(t, db, 1, "2024-03-28", 111)
	seedReading(t, db, 2, "2024-01-15", 5)
	seedReading(t, db, 2, "2024-02-15", 8)

	got, err := NewUsageService(params).MeterMonthly(context.Background())
	require.NoError(t, err)

	// rows arrive end_date descending, so the 03-02 period is processed last
	assert.Equal(t, waterdomain.MeterMonthlyMap{
		1: {"2024-03": 4},
		2: {"2024-02": 3},
	}, got)
}
