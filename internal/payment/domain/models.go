package domain

import "github.com/smallbiznis/propertydesk/pkg/db"

// Payment is one rent payment made against a tenancy.
type Payment struct {
	PaymentID   int64   `json:"payment_id" gorm:"column:payment_id;primaryKey;autoIncrement"`
	TenancyID   int64   `json:"tenancy_id" gorm:"column:tenancy_id;not null"`
	PaymentDate db.Date `json:"payment_date" gorm:"column:payment_date;type:date;not null"`
	AmountPaid  float64 `json:"amount_paid" gorm:"column:amount_paid;not null"`
	ForMonth    db.Date `json:"for_month" gorm:"column:for_month;type:date"`
	InvoiceID   *int64  `json:"invoice_id" gorm:"column:invoice_id"`
}

func (Payment) TableName() string { return "payments" }

// PaymentView is a payment labelled with tenant, apartment and property.
type PaymentView struct {
	Payment
	TenantName      *string `json:"tenant_name" gorm:"column:tenant_name"`
	ApartmentNumber *string `json:"apartment_number" gorm:"column:apartment_number"`
	PropertyName    *string `json:"property_name" gorm:"column:property_name"`
}

// DatedAmount is the minimal projection used for monthly grouping.
type DatedAmount struct {
	PaymentDate db.Date `gorm:"column:payment_date"`
	AmountPaid  float64 `gorm:"column:amount_paid"`
}
