package service

import (
	"context"
	"strings"
	"unicode/utf8"

	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MeterService struct {
	db   *gorm.DB
	log  *zap.Logger
	repo waterdomain.Repository
}

func NewMeterService(p Params) waterdomain.MeterService {
	return &MeterService{
		db:   p.DB,
		log:  p.Log.Named("water.meter.service"),
		repo: p.Repo,
	}
}

func (s *MeterService) List(ctx context.Context) ([]waterdomain.WaterMeter, error) {
	items, err := s.repo.ListMeters(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []waterdomain.WaterMeter{}
	}
	return items, nil
}

func (s *MeterService) Get(ctx context.Context, id string) (*waterdomain.WaterMeter, error) {
	meterID, err := waterdomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindMeterByID(ctx, s.db, meterID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, waterdomain.ErrMeterNotFound
	}
	return item, nil
}

func (s *MeterService) Create(ctx context.Context, req waterdomain.CreateMeterRequest) (*waterdomain.WaterMeter, error) {
	meterNumber := strings.TrimSpace(req.MeterNumber)
	if req.ApartmentID <= 0 || meterNumber == "" {
		return nil, waterdomain.ErrMeterFieldsRequired
	}
	if utf8.RuneCountInString(meterNumber) > waterdomain.MaxMeterNumberLength {
		return nil, waterdomain.ErrMeterNumberTooLong
	}

	m := &waterdomain.WaterMeter{
		ApartmentID: req.ApartmentID,
		MeterNumber: meterNumber,
	}
	if err := s.repo.InsertMeter(ctx, s.db, m); err != nil {
		return nil, err
	}

	s.log.Info("water meter created",
		zap.Int64("water_meter_id", m.WaterMeterID),
		zap.Int64("apartment_id", m.ApartmentID),
	)
	return m, nil
}

// Update applies only the fields present in req. Existence is checked before
// the empty-update rule so that an unknown id is always a 404.
func (s *MeterService) Update(ctx context.Context, req waterdomain.UpdateMeterRequest) (*waterdomain.WaterMeter, error) {
	meterID, err := waterdomain.ParseID(req.ID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindMeterByID(ctx, s.db, meterID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, waterdomain.ErrMeterNotFound
	}

	if req.ApartmentID == nil && req.MeterNumber == nil {
		return nil, waterdomain.ErrNoFieldsToUpdate
	}

	if req.ApartmentID != nil {
		if *req.ApartmentID <= 0 {
			return nil, waterdomain.ErrMeterFieldsRequired
		}
		item.ApartmentID = *req.ApartmentID
	}

	if req.MeterNumber != nil {
		meterNumber := strings.TrimSpace(*req.MeterNumber)
		if meterNumber == "" {
			return nil, waterdomain.ErrMeterFieldsRequired
		}
		if utf8.RuneCountInString(meterNumber) > waterdomain.MaxMeterNumberLength {
			return nil, waterdomain.ErrMeterNumberTooLong
		}
		item.MeterNumber = meterNumber
	}

	if err := s.repo.UpdateMeter(ctx, s.db, item); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindMeterByID(ctx, s.db, meterID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, waterdomain.ErrMeterNotFound
	}
	return updated, nil
}

func (s *MeterService) Delete(ctx context.Context, id string) error {
	meterID, err := waterdomain.ParseID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.DeleteMeter(ctx, s.db, meterID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return waterdomain.ErrMeterNotFound
	}
	return nil
}
