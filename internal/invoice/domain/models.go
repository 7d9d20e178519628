// Package domain contains persistence models for tenant invoicing.
package domain

import "github.com/smallbiznis/propertydesk/pkg/db"

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusOpen    InvoiceStatus = "Open"
	InvoiceStatusClosed  InvoiceStatus = "Closed"
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusClosed, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Invoice is one monthly bill issued to a tenancy.
type Invoice struct {
	InvoiceID             int64         `json:"invoice_id" gorm:"column:invoice_id;primaryKey;autoIncrement"`
	TenancyID             int64         `json:"tenancy_id" gorm:"column:tenancy_id;not null"`
	InvoiceNumber         string        `json:"invoice_number" gorm:"column:invoice_number;not null"`
	MonthBilled           db.Date       `json:"month_billed" gorm:"column:month_billed;type:date;not null"`
	DateBilled            db.Date       `json:"date_billed" gorm:"column:date_billed;type:date;not null"`
	DueDate               db.Date       `json:"due_date" gorm:"column:due_date;type:date;not null"`
	Status                InvoiceStatus `json:"status" gorm:"column:status;not null;default:'Open'"`
	BalanceBroughtForward float64       `json:"balance_brought_forward" gorm:"column:balance_brought_forward;not null;default:0"`
	Rent                  float64       `json:"rent" gorm:"column:rent;not null;default:0"`
	Water                 float64       `json:"water" gorm:"column:water;not null;default:0"`
	Power                 float64       `json:"power" gorm:"column:power;not null;default:0"`
	Internet              float64       `json:"internet" gorm:"column:internet;not null;default:0"`
	ServiceCharge         float64       `json:"service_charge" gorm:"column:service_charge;not null;default:0"`
	Deposit               float64       `json:"deposit" gorm:"column:deposit;not null;default:0"`
	Damages               float64       `json:"damages" gorm:"column:damages;not null;default:0"`
	TotalAmount           float64       `json:"total_amount" gorm:"column:total_amount;not null;default:0"`
	AmountPaid            float64       `json:"amount_paid" gorm:"column:amount_paid;not null;default:0"`
	BalanceDue            float64       `json:"balance_due" gorm:"column:balance_due;not null;default:0"`
}

func (Invoice) TableName() string { return "invoices" }

// Charges sums the billed line amounts, including the carried balance.
func (i Invoice) Charges() float64 {
	return i.BalanceBroughtForward + i.Rent + i.Water + i.Power + i.Internet +
		i.ServiceCharge + i.Deposit + i.Damages
}

// InvoicePayment applies part of a payment to an invoice.
type InvoicePayment struct {
	InvoicePaymentID int64   `json:"invoice_payment_id" gorm:"column:invoice_payment_id;primaryKey;autoIncrement"`
	InvoiceID        int64   `json:"invoice_id" gorm:"column:invoice_id;not null"`
	PaymentID        int64   `json:"payment_id" gorm:"column:payment_id;not null"`
	AmountApplied    float64 `json:"amount_applied" gorm:"column:amount_applied;not null"`
}

func (InvoicePayment) TableName() string { return "invoice_payments" }
