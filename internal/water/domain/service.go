package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

type MeterService interface {
	List(ctx context.Context) ([]WaterMeter, error)
	Get(ctx context.Context, id string) (*WaterMeter, error)
	Create(ctx context.Context, req CreateMeterRequest) (*WaterMeter, error)
	Update(ctx context.Context, req UpdateMeterRequest) (*WaterMeter, error)
	Delete(ctx context.Context, id string) error
}

type ReadingService interface {
	List(ctx context.Context) ([]ReadingView, error)
	Get(ctx context.Context, id string) (*ReadingView, error)
	Create(ctx context.Context, req ReadingRequest) (*WaterReading, error)
	Update(ctx context.Context, id string, req ReadingRequest) (*WaterReading, error)
	Delete(ctx context.Context, id string) error
	BulkCreate(ctx context.Context, reqs []ReadingRequest) (*BulkResult, error)
}

type UsageService interface {
	Consumption(ctx context.Context) (*Consumption, error)
	MonthlySeries(ctx context.Context) ([]MonthlyConsumption, error)
	MeterMonthly(ctx context.Context) (MeterMonthlyMap, error)
}

type ReportService interface {
	Build(ctx context.Context) (*Report, error)
}

type CreateMeterRequest struct {
	ApartmentID int64  `json:"apartment_id"`
	MeterNumber string `json:"meter_number"`
}

type UpdateMeterRequest struct {
	ID          string  `json:"-"`
	ApartmentID *int64  `json:"apartment_id,omitempty"`
	MeterNumber *string `json:"meter_number,omitempty"`
}

// ReadingRequest keeps the reading value as a pointer so that an explicit
// zero is distinguishable from a missing field.
type ReadingRequest struct {
	WaterMeterID      int64    `json:"water_meter_id"`
	ReadingDate       string   `json:"reading_date"`
	WaterMeterReading *float64 `json:"water_meter_reading"`
}

type BulkResult struct {
	BatchID  string         `json:"batch_id"`
	Readings []WaterReading `json:"readings"`
}

type Consumption struct {
	TotalConsumption float64 `json:"totalConsumption"`
	Month            string  `json:"month"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
}

type MonthlyConsumption struct {
	Month            string  `json:"month"`
	TotalConsumption float64 `json:"totalConsumption"`
}

// MeterMonthlyMap maps meter id to month key (YYYY-MM) to consumption.
type MeterMonthlyMap map[int64]map[string]float64

type ReportMonth struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type ReportRow struct {
	ReadingID         int64             `json:"reading_id"`
	WaterMeterID      int64             `json:"water_meter_id"`
	ApartmentID       int64             `json:"apartment_id"`
	ApartmentNumber   string            `json:"apartment_number"`
	PropertyName      string            `json:"property_name"`
	MeterNumber       string            `json:"meter_number"`
	ReadingDate       string            `json:"reading_date"`
	WaterMeterReading float64           `json:"water_meter_reading"`
	Consumption       map[string]string `json:"consumption"`
}

type Report struct {
	Months []ReportMonth `json:"months"`
	Rows   []ReportRow   `json:"rows"`
}

var (
	ErrInvalidID            = errors.New("invalid_water_meter_id")
	ErrInvalidReadingID     = errors.New("invalid_reading_id")
	ErrMeterFieldsRequired  = errors.New("meter_fields_required")
	ErrMeterNumberTooLong   = errors.New("meter_number_too_long")
	ErrNoFieldsToUpdate     = errors.New("no_fields_to_update")
	ErrMeterNotFound        = errors.New("water_meter_not_found")
	ErrReadingFieldsMissing = errors.New("reading_fields_required")
	ErrInvalidReadingDate   = errors.New("invalid_reading_date")
	ErrNegativeReading      = errors.New("invalid_water_meter_reading")
	ErrReadingNotFound      = errors.New("water_reading_not_found")
	ErrEmptyBatch           = errors.New("empty_batch")
	ErrInvalidBatchItem     = errors.New("invalid_batch_item")
)

const MaxMeterNumberLength = 20

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
