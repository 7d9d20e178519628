package repository

import (
	"context"

	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() waterdomain.Repository {
	return &repo{}
}

func (r *repo) ListMeters(ctx context.Context, db *gorm.DB) ([]waterdomain.WaterMeter, error) {
	var items []waterdomain.WaterMeter
	err := db.WithContext(ctx).Raw(
		`SELECT water_meter_id, apartment_id, meter_number
		 FROM water_meters
		 ORDER BY water_meter_id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindMeterByID(ctx context.Context, db *gorm.DB, id int64) (*waterdomain.WaterMeter, error) {
	var meter waterdomain.WaterMeter
	err := db.WithContext(ctx).Raw(
		`SELECT water_meter_id, apartment_id, meter_number
		 FROM water_meters WHERE water_meter_id = ?`,
		id,
	).Scan(&meter).Error
	if err != nil {
		return nil, err
	}
	if meter.WaterMeterID == 0 {
		return nil, nil
	}
	return &meter, nil
}

func (r *repo) InsertMeter(ctx context.Context, db *gorm.DB, m *waterdomain.WaterMeter) error {
	return db.WithContext(ctx).Create(m).Error
}

func (r *repo) UpdateMeter(ctx context.Context, db *gorm.DB, m *waterdomain.WaterMeter) error {
	return db.WithContext(ctx).Exec(
		`UPDATE water_meters
		 SET apartment_id = ?, meter_number = ?
		 WHERE water_meter_id = ?`,
		m.ApartmentID,
		m.MeterNumber,
		m.WaterMeterID,
	).Error
}

func (r *repo) DeleteMeter(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM water_meters WHERE water_meter_id = ?`,
		id,
	)
	return res.RowsAffected, res.Error
}

const readingViewSelect = `SELECT wr.reading_id, wr.water_meter_id, wr.reading_date, wr.water_meter_reading,
		wm.meter_number, a.apartment_number
	 FROM water_readings wr
	 LEFT JOIN water_meters wm ON wr.water_meter_id = wm.water_meter_id
	 LEFT JOIN apartments a ON wm.apartment_id = a.apartment_id`

func (r *repo) ListReadings(ctx context.Context, db *gorm.DB) ([]waterdomain.ReadingView, error) {
	var items []waterdomain.ReadingView
	err := db.WithContext(ctx).Raw(
		readingViewSelect + ` ORDER BY wr.reading_date DESC, wr.reading_id DESC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindReadingByID(ctx context.Context, db *gorm.DB, id int64) (*waterdomain.ReadingView, error) {
	var item waterdomain.ReadingView
	err := db.WithContext(ctx).Raw(
		readingViewSelect+` WHERE wr.reading_id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ReadingID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) InsertReading(ctx context.Context, db *gorm.DB, reading *waterdomain.WaterReading) error {
	return db.WithContext(ctx).Create(reading).Error
}

// InsertReadings writes the batch as one multi-row INSERT and backfills the
// assigned reading ids into readings.
func (r *repo) InsertReadings(ctx context.Context, db *gorm.DB, readings []waterdomain.WaterReading) error {
	if len(readings) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&readings).Error
}

func (r *repo) UpdateReading(ctx context.Context, db *gorm.DB, reading *waterdomain.WaterReading) error {
	return db.WithContext(ctx).Exec(
		`UPDATE water_readings
		 SET water_meter_id = ?, reading_date = ?, water_meter_reading = ?
		 WHERE reading_id = ?`,
		reading.WaterMeterID,
		reading.ReadingDate,
		reading.WaterMeterReading,
		reading.ReadingID,
	).Error
}

func (r *repo) DeleteReading(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM water_readings WHERE reading_id = ?`,
		id,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) SumConsumption(ctx context.Context, db *gorm.DB, from, until string) (float64, error) {
	var total float64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(wu.water_consumption), 0) AS total_consumption
		 FROM water_usage wu
		 WHERE wu.end_date >= ? AND wu.end_date < ?`,
		from,
		until,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) ListUsageSince(ctx context.Context, db *gorm.DB, from string) ([]waterdomain.UsagePeriod, error) {
	var items []waterdomain.UsagePeriod
	err := db.WithContext(ctx).Raw(
		`SELECT water_meter_id, start_date, end_date, water_consumption
		 FROM water_usage
		 WHERE end_date >= ?
		 ORDER BY end_date ASC, water_meter_id ASC`,
		from,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListUsageByMeter(ctx context.Context, db *gorm.DB) ([]waterdomain.UsagePeriod, error) {
	var items []waterdomain.UsagePeriod
	err := db.WithContext(ctx).Raw(
		`SELECT water_meter_id, start_date, end_date, water_consumption
		 FROM water_usage
		 ORDER BY water_meter_id, end_date DESC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListJoinedReadings(ctx context.Context, db *gorm.DB) ([]waterdomain.JoinedReading, error) {
	var items []waterdomain.JoinedReading
	err := db.WithContext(ctx).Raw(
		`SELECT wr.reading_id, wr.water_meter_id, wr.reading_date, wr.water_meter_reading,
			wm.meter_number, a.apartment_id, a.apartment_number, p.name AS property_name
		 FROM water_readings wr
		 LEFT JOIN water_meters wm ON wr.water_meter_id = wm.water_meter_id
		 LEFT JOIN apartments a ON wm.apartment_id = a.apartment_id
		 LEFT JOIN properties p ON a.property_id = p.property_id
		 ORDER BY wr.reading_date DESC, wr.reading_id DESC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
