package domain

type Apartment struct {
	ApartmentID     int64  `json:"apartment_id" gorm:"column:apartment_id;primaryKey;autoIncrement"`
	PropertyID      int64  `json:"property_id" gorm:"column:property_id;not null"`
	ApartmentNumber string `json:"apartment_number" gorm:"column:apartment_number;not null"`
	ApartmentType   string `json:"apartment_type" gorm:"column:apartment_type"`
}

func (Apartment) TableName() string { return "apartments" }

// ApartmentView carries the owning property's name for display.
type ApartmentView struct {
	Apartment
	PropertyName *string `json:"property_name" gorm:"column:property_name"`
}
