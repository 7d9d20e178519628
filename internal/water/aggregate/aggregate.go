// Package aggregate turns usage periods into the monthly figures the
// dashboard and the water report consume. Every function is pure.
package aggregate

import (
	"math"
	"sort"

	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
)

// ZeroTriggersPreviousMonth reports whether a month total should be replaced
// by the previous month's. A real zero and a month without readings are
// indistinguishable here, so both fall back.
func ZeroTriggersPreviousMonth(total float64) bool {
	return total == 0
}

// GroupByMonth sums consumption per calendar month of end_date, ascending.
func GroupByMonth(rows []waterdomain.UsagePeriod) []waterdomain.MonthlyConsumption {
	totals := make(map[string]float64)
	for _, row := range rows {
		if row.EndDate.IsZero() {
			continue
		}
		totals[row.EndDate.MonthKey()] += row.WaterConsumption
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	out := make([]waterdomain.MonthlyConsumption, 0, len(months))
	for _, month := range months {
		out = append(out, waterdomain.MonthlyConsumption{
			Month:            month,
			TotalConsumption: totals[month],
		})
	}
	return out
}

// BuildMeterMonthlyMap keys every row by meter and end_date month. When two
// rows share a key the one processed later overwrites the earlier; values are
// never summed.
func BuildMeterMonthlyMap(rows []waterdomain.UsagePeriod) waterdomain.MeterMonthlyMap {
	out := make(waterdomain.MeterMonthlyMap)
	for _, row := range rows {
		if row.EndDate.IsZero() {
			continue
		}
		months, ok := out[row.WaterMeterID]
		if !ok {
			months = make(map[string]float64)
			out[row.WaterMeterID] = months
		}
		months[row.EndDate.MonthKey()] = row.WaterConsumption
	}
	return out
}

// Trend is the percentage change from previous to current, rounded to two
// decimals. It is 0 when previous is 0.
func Trend(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return Round2((current - previous) / previous * 100)
}

// SeriesTrend compares current with the second-to-last point of series. It is
// 0 when the series has fewer than two points.
func SeriesTrend(current float64, series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	return Trend(current, series[len(series)-2])
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
