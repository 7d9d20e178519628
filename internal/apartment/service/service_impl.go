package service

import (
	"context"

	apartmentdomain "github.com/smallbiznis/propertydesk/internal/apartment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo apartmentdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo apartmentdomain.Repository
}

func New(p Params) apartmentdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("apartment.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]apartmentdomain.ApartmentView, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []apartmentdomain.ApartmentView{}
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*apartmentdomain.ApartmentView, error) {
	apartmentID, err := apartmentdomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, apartmentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apartmentdomain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, s.db)
}
