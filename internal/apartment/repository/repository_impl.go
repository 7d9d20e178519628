package repository

import (
	"context"

	apartmentdomain "github.com/smallbiznis/propertydesk/internal/apartment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() apartmentdomain.Repository {
	return &repo{}
}

const apartmentViewSelect = `SELECT a.apartment_id, a.property_id, a.apartment_number, a.apartment_type,
		p.name AS property_name
	 FROM apartments a
	 LEFT JOIN properties p ON a.property_id = p.property_id`

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]apartmentdomain.ApartmentView, error) {
	var items []apartmentdomain.ApartmentView
	err := db.WithContext(ctx).Raw(
		apartmentViewSelect + ` ORDER BY a.property_id ASC, a.apartment_number ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*apartmentdomain.ApartmentView, error) {
	var item apartmentdomain.ApartmentView
	err := db.WithContext(ctx).Raw(
		apartmentViewSelect+` WHERE a.apartment_id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ApartmentID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Raw(`SELECT COUNT(*) AS total FROM apartments`).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
