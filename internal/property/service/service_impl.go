package service

import (
	"context"

	propertydomain "github.com/smallbiznis/propertydesk/internal/property/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo propertydomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo propertydomain.Repository
}

func New(p Params) propertydomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("property.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]propertydomain.Property, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []propertydomain.Property{}
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*propertydomain.Property, error) {
	propertyID, err := propertydomain.ParseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, propertyID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, propertydomain.ErrNotFound
	}
	return item, nil
}
