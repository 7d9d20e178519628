package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListMeters(ctx context.Context, db *gorm.DB) ([]WaterMeter, error)
	FindMeterByID(ctx context.Context, db *gorm.DB, id int64) (*WaterMeter, error)
	InsertMeter(ctx context.Context, db *gorm.DB, meter *WaterMeter) error
	UpdateMeter(ctx context.Context, db *gorm.DB, meter *WaterMeter) error
	DeleteMeter(ctx context.Context, db *gorm.DB, id int64) (int64, error)

	ListReadings(ctx context.Context, db *gorm.DB) ([]ReadingView, error)
	FindReadingByID(ctx context.Context, db *gorm.DB, id int64) (*ReadingView, error)
	InsertReading(ctx context.Context, db *gorm.DB, reading *WaterReading) error
	InsertReadings(ctx context.Context, db *gorm.DB, readings []WaterReading) error
	UpdateReading(ctx context.Context, db *gorm.DB, reading *WaterReading) error
	DeleteReading(ctx context.Context, db *gorm.DB, id int64) (int64, error)

	// SumConsumption totals usage periods whose end_date is in [from, until).
	SumConsumption(ctx context.Context, db *gorm.DB, from, until string) (float64, error)
	// ListUsageSince returns usage periods ending on or after from, oldest first.
	ListUsageSince(ctx context.Context, db *gorm.DB, from string) ([]UsagePeriod, error)
	// ListUsageByMeter returns every usage period ordered by meter, then end_date descending.
	ListUsageByMeter(ctx context.Context, db *gorm.DB) ([]UsagePeriod, error)

	ListJoinedReadings(ctx context.Context, db *gorm.DB) ([]JoinedReading, error)
}
