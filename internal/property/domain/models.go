package domain

// Property is a building or compound that apartments belong to.
type Property struct {
	PropertyID     int64   `json:"property_id" gorm:"column:property_id;primaryKey;autoIncrement"`
	Name           string  `json:"name" gorm:"column:name;not null"`
	Address        string  `json:"address" gorm:"column:address"`
	Description    *string `json:"description" gorm:"column:description"`
	ConservancyFee float64 `json:"conservancy_fee" gorm:"column:conservancy_fee"`
}

func (Property) TableName() string { return "properties" }
