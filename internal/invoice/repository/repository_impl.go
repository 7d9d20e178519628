package repository

import (
	"context"
	"strings"

	invoicedomain "github.com/smallbiznis/propertydesk/internal/invoice/domain"
	"gorm.io/gorm"
)

const invoiceColumns = `invoice_id, tenancy_id, invoice_number, month_billed, date_billed, due_date, status,
	balance_brought_forward, rent, water, power, internet, service_charge, deposit, damages,
	total_amount, amount_paid, balance_due`

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, tenancyID int64, status invoicedomain.InvoiceStatus) ([]invoicedomain.Invoice, error) {
	var (
		where []string
		args  []any
	)
	if tenancyID > 0 {
		where = append(where, "tenancy_id = ?")
		args = append(args, tenancyID)
	}
	if status != "" {
		where = append(where, "status = ?")
		args = append(args, string(status))
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date_billed DESC, invoice_id DESC"

	var items []invoicedomain.Invoice
	if err := conn.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id int64) (*invoicedomain.Invoice, error) {
	var item invoicedomain.Invoice
	err := conn.WithContext(ctx).Raw(
		`SELECT `+invoiceColumns+` FROM invoices WHERE invoice_id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.InvoiceID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, invoice *invoicedomain.Invoice) error {
	return conn.WithContext(ctx).Create(invoice).Error
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id int64, amountPaid *float64, status *invoicedomain.InvoiceStatus) (int64, error) {
	var (
		sets []string
		args []any
	)
	if amountPaid != nil {
		sets = append(sets, "amount_paid = ?", "balance_due = total_amount - ?")
		args = append(args, *amountPaid, *amountPaid)
	}
	if status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*status))
	}
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, id)

	res := conn.WithContext(ctx).Exec(
		`UPDATE invoices SET `+strings.Join(sets, ", ")+` WHERE invoice_id = ?`,
		args...,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) InsertPayment(ctx context.Context, conn *gorm.DB, payment *invoicedomain.InvoicePayment) error {
	return conn.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindPaymentByID(ctx context.Context, conn *gorm.DB, id int64) (*invoicedomain.InvoicePayment, error) {
	var item invoicedomain.InvoicePayment
	err := conn.WithContext(ctx).Raw(
		`SELECT invoice_payment_id, invoice_id, payment_id, amount_applied
		 FROM invoice_payments WHERE invoice_payment_id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.InvoicePaymentID == 0 {
		return nil, nil
	}
	return &item, nil
}
