// Package store holds the persistence layer: the medicine catalog and the
// append-only transaction ledger. Functions take a Querier so the ledger
// service can run catalog updates and ledger appends inside one database
// transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"homeostock/m/domain"
)

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Fixed-width UTC timestamps sort correctly as strings.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

func nowStamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

const medicineColumns = `id, medicine_name, potency, form, bottle_size, manufacturer, batch_number,
        expiry_date, mrp, purchase_price, quantity, low_stock_threshold, created_at, last_updated`

// CreateMedicine persists m, assigning its id and timestamps. A duplicate
// SKU (same six descriptive fields) is rejected as a validation error.
func CreateMedicine(ctx context.Context, q Querier, m *domain.Medicine) error {
	now := nowStamp()
	m.CreatedAt = now
	m.LastUpdated = now
	res, err := q.ExecContext(ctx, `INSERT INTO medicines
        (medicine_name, potency, form, bottle_size, manufacturer, batch_number,
         expiry_date, mrp, purchase_price, quantity, low_stock_threshold, created_at, last_updated)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MedicineName, m.Potency, m.Form, m.BottleSize, m.Manufacturer, m.BatchNumber,
		m.ExpiryDate, m.MRP, m.PurchasePrice, m.Quantity, m.LowStockThreshold, m.CreatedAt, m.LastUpdated)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return &domain.ValidationError{Detail: "medicine with this batch/SKU already exists"}
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

// GetMedicine fetches one medicine by id.
func GetMedicine(ctx context.Context, q Querier, id int64) (*domain.Medicine, error) {
	var m domain.Medicine
	err := q.GetContext(ctx, &m, `SELECT `+medicineColumns+` FROM medicines WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Resource: "medicine", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMedicines returns the full catalog.
func ListMedicines(ctx context.Context, q Querier) ([]domain.Medicine, error) {
	var medicines []domain.Medicine
	if err := q.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines ORDER BY id`); err != nil {
		return nil, err
	}
	if medicines == nil {
		medicines = []domain.Medicine{}
	}
	return medicines, nil
}

// UpdateMedicineQuantity sets the stored quantity. Only the ledger service
// calls this, inside its transaction, after checking the new value itself;
// a negative quantity here is an internal bug.
func UpdateMedicineQuantity(ctx context.Context, q Querier, id, quantity int64) error {
	if quantity < 0 {
		return &domain.InvariantViolation{
			Detail: fmt.Sprintf("refusing to set negative quantity %d for medicine %d", quantity, id),
		}
	}
	res, err := q.ExecContext(ctx, `UPDATE medicines SET quantity = ?, last_updated = ? WHERE id = ?`,
		quantity, nowStamp(), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "medicine", ID: id}
	}
	return nil
}

// DeleteMedicine removes the medicine permanently. Its ledger entries are
// left in place as the audit trail.
func DeleteMedicine(ctx context.Context, q Querier, id int64) error {
	res, err := q.ExecContext(ctx, `DELETE FROM medicines WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &domain.NotFoundError{Resource: "medicine", ID: id}
	}
	return nil
}
