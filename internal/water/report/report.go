// Package report shapes joined readings into the water table: one row per
// apartment with a trailing window of monthly consumption columns.
package report

import (
	"strconv"
	"time"

	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/smallbiznis/propertydesk/pkg/calendar"
)

const unknownLabel = "Unknown"

// CollapseLatest keeps one reading per apartment. A reading replaces the
// current pick only when its reading_date is strictly later, so on a tie the
// first one encountered stays. Readings without an apartment are dropped.
// Output order follows the first appearance of each apartment.
func CollapseLatest(rows []waterdomain.JoinedReading) []waterdomain.JoinedReading {
	index := make(map[int64]int)
	out := make([]waterdomain.JoinedReading, 0)
	for _, row := range rows {
		if row.ApartmentID == nil || *row.ApartmentID == 0 {
			continue
		}
		apartmentID := *row.ApartmentID
		pos, seen := index[apartmentID]
		if !seen {
			index[apartmentID] = len(out)
			out = append(out, row)
			continue
		}
		if row.ReadingDate.After(out[pos].ReadingDate.Time) {
			out[pos] = row
		}
	}
	return out
}

// Months returns the column headers for the trailing window, current month first.
func Months(now time.Time, n int) []waterdomain.ReportMonth {
	windows := calendar.Trailing(now, n)
	out := make([]waterdomain.ReportMonth, 0, len(windows))
	for _, w := range windows {
		out = append(out, waterdomain.ReportMonth{Key: w.Key(), Label: w.Label()})
	}
	return out
}

// Pivot attaches each collapsed row's meter usage to the month columns.
// Missing cells render as 0.00.
func Pivot(rows []waterdomain.JoinedReading, usage waterdomain.MeterMonthlyMap, months []waterdomain.ReportMonth) []waterdomain.ReportRow {
	out := make([]waterdomain.ReportRow, 0, len(rows))
	for _, row := range rows {
		byMonth := usage[row.WaterMeterID]
		cells := make(map[string]string, len(months))
		for _, month := range months {
			cells[month.Key] = FormatConsumption(byMonth[month.Key])
		}

		out = append(out, waterdomain.ReportRow{
			ReadingID:         row.ReadingID,
			WaterMeterID:      row.WaterMeterID,
			ApartmentID:       derefInt(row.ApartmentID),
			ApartmentNumber:   labelOrUnknown(row.ApartmentNumber),
			PropertyName:      labelOrUnknown(row.PropertyName),
			MeterNumber:       labelOrUnknown(row.MeterNumber),
			ReadingDate:       row.ReadingDate.String(),
			WaterMeterReading: row.WaterMeterReading,
			Consumption:       cells,
		})
	}
	return out
}

// Build runs collapse and pivot over a joined reading list.
func Build(now time.Time, window int, rows []waterdomain.JoinedReading, usage waterdomain.MeterMonthlyMap) *waterdomain.Report {
	months := Months(now, window)
	return &waterdomain.Report{
		Months: months,
		Rows:   Pivot(CollapseLatest(rows), usage, months),
	}
}

func FormatConsumption(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func labelOrUnknown(v *string) string {
	if v == nil || *v == "" {
		return unknownLabel
	}
	return *v
}

func derefInt(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
