package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	obscontext "github.com/smallbiznis/propertydesk/internal/observability/context"
	"github.com/smallbiznis/propertydesk/internal/observability/logger"
	"github.com/smallbiznis/propertydesk/internal/observability/metrics"
	waterdomain "github.com/smallbiznis/propertydesk/internal/water/domain"
	"github.com/smallbiznis/propertydesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReadingService struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    waterdomain.Repository
	metrics *metrics.WaterMetrics
}

func NewReadingService(p Params) waterdomain.ReadingService {
	return &ReadingService{
		db:      p.DB,
		log:     p.Log.Named("water.reading.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *ReadingService) List(ctx context.Context) ([]waterdomain.ReadingView, error) {
	items, err := s.repo.ListReadings(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []waterdomain.ReadingView{}
	}
	return items, nil
}

func (s *ReadingService) Get(ctx context.Context, id string) (*waterdomain.ReadingView, error) {
	readingID, err := parseReadingID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindReadingByID(ctx, s.db, readingID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, waterdomain.ErrReadingNotFound
	}
	return item, nil
}

func (s *ReadingService) Create(ctx context.Context, req waterdomain.ReadingRequest) (*waterdomain.WaterReading, error) {
	reading, err := readingFromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.InsertReading(ctx, s.db, reading); err != nil {
		s.metrics.IncStoreError("insert_reading", err)
		return nil, err
	}

	s.metrics.AddReadingsIngested(metrics.IngestPathSingle, 1)
	return reading, nil
}

// Update validates before touching the store; a missing row is reported as
// not found, distinct from a validation failure.
func (s *ReadingService) Update(ctx context.Context, id string, req waterdomain.ReadingRequest) (*waterdomain.WaterReading, error) {
	readingID, err := parseReadingID(id)
	if err != nil {
		return nil, err
	}

	reading, err := readingFromRequest(req)
	if err != nil {
		return nil, err
	}
	reading.ReadingID = readingID

	existing, err := s.repo.FindReadingByID(ctx, s.db, readingID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, waterdomain.ErrReadingNotFound
	}

	if err := s.repo.UpdateReading(ctx, s.db, reading); err != nil {
		s.metrics.IncStoreError("update_reading", err)
		return nil, err
	}
	return reading, nil
}

func (s *ReadingService) Delete(ctx context.Context, id string) error {
	readingID, err := parseReadingID(id)
	if err != nil {
		return err
	}

	affected, err := s.repo.DeleteReading(ctx, s.db, readingID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return waterdomain.ErrReadingNotFound
	}
	return nil
}

// BulkCreate validates every element up front and inserts the batch in one
// transaction. The returned ids are the ones the store assigned. On MySQL
// these are contiguous only while no other writer interleaves with the
// multi-row insert (innodb_autoinc_lock_mode <= 1); that is assumed, not checked.
func (s *ReadingService) BulkCreate(ctx context.Context, reqs []waterdomain.ReadingRequest) (*waterdomain.BulkResult, error) {
	if len(reqs) == 0 {
		s.metrics.IncBulkBatch(metrics.BulkOutcomeRejected, 0)
		return nil, waterdomain.ErrEmptyBatch
	}

	readings := make([]waterdomain.WaterReading, 0, len(reqs))
	for i, req := range reqs {
		reading, err := readingFromRequest(req)
		if err != nil {
			s.metrics.IncBulkBatch(metrics.BulkOutcomeRejected, len(reqs))
			if errors.Is(err, waterdomain.ErrReadingFieldsMissing) {
				err = waterdomain.ErrInvalidBatchItem
			}
			return nil, fmt.Errorf("readings[%d]: %w", i, err)
		}
		readings = append(readings, *reading)
	}

	batchID := s.genID.Generate().String()
	ctx = obscontext.WithBatchID(ctx, batchID)
	log := logger.WithContext(ctx, s.log)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.InsertReadings(ctx, tx, readings)
	})
	if err != nil {
		s.metrics.IncBulkBatch(metrics.BulkOutcomeRolledBack, len(readings))
		s.metrics.IncStoreError("bulk_insert", err)
		log.Error("bulk reading insert rolled back",
			zap.Int("count", len(readings)),
			zap.String("error_code", db.ErrorCode(err)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.AddReadingsIngested(metrics.IngestPathBulk, len(readings))
	s.metrics.IncBulkBatch(metrics.BulkOutcomeCommitted, len(readings))
	log.Info("bulk readings inserted",
		zap.Int("count", len(readings)),
		zap.Int64("first_reading_id", readings[0].ReadingID),
	)

	return &waterdomain.BulkResult{
		BatchID:  batchID,
		Readings: readings,
	}, nil
}

func readingFromRequest(req waterdomain.ReadingRequest) (*waterdomain.WaterReading, error) {
	rawDate := strings.TrimSpace(req.ReadingDate)
	if req.WaterMeterID <= 0 || rawDate == "" || req.WaterMeterReading == nil {
		return nil, waterdomain.ErrReadingFieldsMissing
	}

	date, err := db.ParseDate(rawDate)
	if err != nil {
		return nil, waterdomain.ErrInvalidReadingDate
	}

	if *req.WaterMeterReading < 0 {
		return nil, waterdomain.ErrNegativeReading
	}

	return &waterdomain.WaterReading{
		WaterMeterID:      req.WaterMeterID,
		ReadingDate:       date,
		WaterMeterReading: *req.WaterMeterReading,
	}, nil
}

func parseReadingID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, waterdomain.ErrInvalidReadingID
	}
	return id, nil
}
