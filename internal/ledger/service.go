// Package ledger implements the state-change logic: every quantity change
// updates the catalog and appends a ledger entry as one atomic unit.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"homeostock/m/domain"
	"homeostock/m/internal/store"
)

// Service applies quantity changes transactionally. Operations on the
// same medicine are serialized through a per-id lock; different medicines
// proceed independently.
type Service struct {
	db    *sqlx.DB
	locks sync.Map // medicine id -> *sync.Mutex
}

// NewService constructs a Service over an open database.
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

func (s *Service) medicineLock(id int64) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// ApplyChange adjusts a medicine's quantity by a signed delta and appends
// the matching ledger entry. A change that would drive quantity negative
// is rejected whole: no store update, no ledger entry. Expired stock may
// still be sold; operator confirmation happens before the call and any
// override context rides in note.
func (s *Service) ApplyChange(ctx context.Context, medicineID, change int64, actionType, note string) (*domain.Medicine, error) {
	if !domain.ValidAction(actionType) {
		return nil, &domain.ValidationError{Detail: fmt.Sprintf("unknown action_type %q", actionType)}
	}

	mu := s.medicineLock(medicineID)
	mu.Lock()
	defer mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m, err := store.GetMedicine(ctx, tx, medicineID)
	if err != nil {
		return nil, err
	}

	newQuantity := m.Quantity + change
	if newQuantity < 0 {
		return nil, &domain.InsufficientStockError{
			MedicineID: medicineID,
			Available:  m.Quantity,
			Requested:  -change,
		}
	}

	if err := store.UpdateMedicineQuantity(ctx, tx, medicineID, newQuantity); err != nil {
		return nil, err
	}
	entry := &domain.Transaction{
		MedicineID: medicineID,
		Change:     change,
		ActionType: actionType,
		Note:       nullIfEmpty(note),
	}
	if err := store.AppendTransaction(ctx, tx, entry); err != nil {
		return nil, err
	}

	updated, err := store.GetMedicine(ctx, tx, medicineID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

// AddMedicine validates the request, creates the medicine and records a
// synthetic ADD entry for the initial quantity, so the ledger reconciles
// to the stored quantity from creation on.
func (s *Service) AddMedicine(ctx context.Context, req AddMedicineRequest) (*domain.Medicine, error) {
	m, err := req.medicine()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := store.CreateMedicine(ctx, tx, m); err != nil {
		return nil, err
	}
	entry := &domain.Transaction{
		MedicineID: m.ID,
		Change:     m.Quantity,
		ActionType: domain.ActionAdd,
		Note:       nullIfEmpty("initial stock"),
	}
	if err := store.AppendTransaction(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMedicine removes the medicine permanently. Ledger entries are
// retained as the audit trail.
func (s *Service) DeleteMedicine(ctx context.Context, id int64) error {
	mu := s.medicineLock(id)
	mu.Lock()
	defer mu.Unlock()
	return store.DeleteMedicine(ctx, s.db, id)
}

// GetMedicine fetches one medicine by id.
func (s *Service) GetMedicine(ctx context.Context, id int64) (*domain.Medicine, error) {
	return store.GetMedicine(ctx, s.db, id)
}

// ListMedicines returns the full catalog.
func (s *Service) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	return store.ListMedicines(ctx, s.db)
}

// History returns ledger entries most recent first, optionally filtered
// by medicine id.
func (s *Service) History(ctx context.Context, medicineID *int64, limit int) ([]store.HistoryEntry, error) {
	return store.ListHistory(ctx, s.db, medicineID, limit)
}

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
