package store

import (
	"context"

	"homeostock/m/domain"
)

// HistoryEntry is a ledger entry joined with the medicine's display name
// and batch number. Entries for deleted medicines carry empty strings.
type HistoryEntry struct {
	ID           int64   `db:"id" json:"id"`
	MedicineID   int64   `db:"medicine_id" json:"medicine_id"`
	MedicineName string  `db:"medicine_name" json:"medicine_name"`
	BatchNumber  string  `db:"batch_number" json:"batch_number"`
	Change       int64   `db:"change_amount" json:"change"`
	ActionType   string  `db:"action_type" json:"action_type"`
	Note         *string `db:"note" json:"note,omitempty"`
	Timestamp    string  `db:"timestamp" json:"timestamp"`
}

// AppendTransaction writes one ledger entry, assigning its id and a
// server timestamp. There is no update or delete for this table.
func AppendTransaction(ctx context.Context, q Querier, t *domain.Transaction) error {
	if t.Timestamp == "" {
		t.Timestamp = nowStamp()
	}
	res, err := q.ExecContext(ctx, `INSERT INTO transactions
        (medicine_id, change_amount, action_type, note, timestamp)
        VALUES (?, ?, ?, ?, ?)`,
		t.MedicineID, t.Change, t.ActionType, t.Note, t.Timestamp)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

// ListHistory returns ledger entries most recent first, optionally filtered
// by medicine id. Deleted medicines still appear via the LEFT JOIN.
func ListHistory(ctx context.Context, q Querier, medicineID *int64, limit int) ([]HistoryEntry, error) {
	query := `SELECT t.id, t.medicine_id, t.change_amount, t.action_type, t.note, t.timestamp,
            COALESCE(m.medicine_name, '') AS medicine_name,
            COALESCE(m.batch_number, '') AS batch_number
        FROM transactions t
        LEFT JOIN medicines m ON m.id = t.medicine_id`
	var args []interface{}
	if medicineID != nil {
		query += ` WHERE t.medicine_id = ?`
		args = append(args, *medicineID)
	}
	query += ` ORDER BY t.timestamp DESC, t.id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var entries []HistoryEntry
	if err := q.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// SumChanges totals all recorded deltas for a medicine. Because creation
// records a synthetic ADD of the initial quantity, the sum reconciles to
// the medicine's current quantity.
func SumChanges(ctx context.Context, q Querier, medicineID int64) (int64, error) {
	var total int64
	err := q.GetContext(ctx, &total,
		`SELECT COALESCE(SUM(change_amount), 0) FROM transactions WHERE medicine_id = ?`, medicineID)
	return total, err
}
