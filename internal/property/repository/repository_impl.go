package repository

import (
	"context"

	propertydomain "github.com/smallbiznis/propertydesk/internal/property/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() propertydomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]propertydomain.Property, error) {
	var items []propertydomain.Property
	err := db.WithContext(ctx).Raw(
		`SELECT property_id, name, address, description, conservancy_fee
		 FROM properties
		 ORDER BY name ASC, property_id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*propertydomain.Property, error) {
	var item propertydomain.Property
	err := db.WithContext(ctx).Raw(
		`SELECT property_id, name, address, description, conservancy_fee
		 FROM properties WHERE property_id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.PropertyID == 0 {
		return nil, nil
	}
	return &item, nil
}
