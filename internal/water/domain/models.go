package domain

import "github.com/smallbiznis/propertydesk/pkg/db"

// WaterMeter identifies a physical meter installed in one apartment.
type WaterMeter struct {
	WaterMeterID int64  `json:"water_meter_id" gorm:"column:water_meter_id;primaryKey;autoIncrement"`
	ApartmentID  int64  `json:"apartment_id" gorm:"column:apartment_id;not null"`
	MeterNumber  string `json:"meter_number" gorm:"column:meter_number;type:varchar(20);not null"`
}

func (WaterMeter) TableName() string { return "water_meters" }

// WaterReading is a cumulative point observation of one meter.
type WaterReading struct {
	ReadingID         int64   `json:"reading_id" gorm:"column:reading_id;primaryKey;autoIncrement"`
	WaterMeterID      int64   `json:"water_meter_id" gorm:"column:water_meter_id;not null"`
	ReadingDate       db.Date `json:"reading_date" gorm:"column:reading_date;type:date;not null"`
	WaterMeterReading float64 `json:"water_meter_reading" gorm:"column:water_meter_reading;not null"`
}

func (WaterReading) TableName() string { return "water_readings" }

// ReadingView is a reading labelled with its meter and apartment.
type ReadingView struct {
	ReadingID         int64   `json:"reading_id" gorm:"column:reading_id"`
	WaterMeterID      int64   `json:"water_meter_id" gorm:"column:water_meter_id"`
	ReadingDate       db.Date `json:"reading_date" gorm:"column:reading_date"`
	WaterMeterReading float64 `json:"water_meter_reading" gorm:"column:water_meter_reading"`
	MeterNumber       *string `json:"meter_number" gorm:"column:meter_number"`
	ApartmentNumber   *string `json:"apartment_number" gorm:"column:apartment_number"`
}

// UsagePeriod is one row of the water_usage view: the consumption between two
// consecutive readings of the same meter.
type UsagePeriod struct {
	WaterMeterID     int64   `json:"water_meter_id" gorm:"column:water_meter_id"`
	StartDate        db.Date `json:"start_date" gorm:"column:start_date"`
	EndDate          db.Date `json:"end_date" gorm:"column:end_date"`
	WaterConsumption float64 `json:"water_consumption" gorm:"column:water_consumption"`
}

// JoinedReading is a reading resolved through meter, apartment and property.
// Pointer fields are nil when the referenced row does not exist.
type JoinedReading struct {
	ReadingID         int64   `gorm:"column:reading_id"`
	WaterMeterID      int64   `gorm:"column:water_meter_id"`
	ReadingDate       db.Date `gorm:"column:reading_date"`
	WaterMeterReading float64 `gorm:"column:water_meter_reading"`
	MeterNumber       *string `gorm:"column:meter_number"`
	ApartmentID       *int64  `gorm:"column:apartment_id"`
	ApartmentNumber   *string `gorm:"column:apartment_number"`
	PropertyName      *string `gorm:"column:property_name"`
}
