package repository

import (
	"context"
	"strings"

	paymentdomain "github.com/smallbiznis/propertydesk/internal/payment/domain"
	"github.com/smallbiznis/propertydesk/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter paymentdomain.ListFilter) ([]paymentdomain.PaymentView, error) {
	var (
		where []string
		args  []any
	)
	like := func(expr, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		where = append(where, expr+" LIKE ?")
		args = append(args, "%"+value+"%")
	}

	like(db.TextExpr(conn, "p.payment_id"), filter.PaymentID)
	like("t.name", filter.TenantName)
	like("a.apartment_number", filter.ApartmentNumber)
	like("pr.name", filter.PropertyName)
	like(db.TextExpr(conn, "p.payment_date"), filter.PaymentDate)
	like(db.TextExpr(conn, "p.for_month"), filter.ForMonth)
	like(db.TextExpr(conn, "p.invoice_id"), filter.InvoiceID)

	query := `SELECT p.payment_id, p.tenancy_id, p.payment_date, p.amount_paid, p.for_month, p.invoice_id,
			t.name AS tenant_name, a.apartment_number, pr.name AS property_name
		 FROM payments p
		 LEFT JOIN tenancies te ON p.tenancy_id = te.tenancy_id
		 LEFT JOIN apartments a ON te.apartment_id = a.apartment_id
		 LEFT JOIN tenants t ON te.tenant_id = t.tenant_id
		 LEFT JOIN properties pr ON a.property_id = pr.property_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.payment_date DESC, p.payment_id DESC"

	var items []paymentdomain.PaymentView
	if err := conn.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id int64) (*paymentdomain.Payment, error) {
	var item paymentdomain.Payment
	err := conn.WithContext(ctx).Raw(
		`SELECT payment_id, tenancy_id, payment_date, amount_paid, for_month, invoice_id
		 FROM payments WHERE payment_id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.PaymentID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, payment *paymentdomain.Payment) error {
	return conn.WithContext(ctx).Create(payment).Error
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id int64) (int64, error) {
	res := conn.WithContext(ctx).Exec(`DELETE FROM payments WHERE payment_id = ?`, id)
	return res.RowsAffected, res.Error
}

func (r *repo) SumBetween(ctx context.Context, conn *gorm.DB, from, to string) (float64, error) {
	var total float64
	err := conn.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount_paid), 0) AS total
		 FROM payments
		 WHERE payment_date >= ? AND payment_date <= ?`,
		from,
		to,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repo) ListAmountsSince(ctx context.Context, conn *gorm.DB, from string) ([]paymentdomain.DatedAmount, error) {
	var items []paymentdomain.DatedAmount
	err := conn.WithContext(ctx).Raw(
		`SELECT payment_date, amount_paid
		 FROM payments
		 WHERE payment_date >= ?
		 ORDER BY payment_date ASC`,
		from,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountUnpaidActive(ctx context.Context, conn *gorm.DB, from, until string) (int64, error) {
	var total int64
	err := conn.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS total
		 FROM tenancies t
		 WHERE t.active = 1
		   AND NOT EXISTS (
		     SELECT 1 FROM payments p
		     WHERE p.tenancy_id = t.tenancy_id AND p.for_month >= ? AND p.for_month < ?
		   )`,
		from,
		until,
	).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
