package domain

// Action types recorded on ledger entries.
const (
	ActionAdd    = "ADD"
	ActionSell   = "SELL"
	ActionAdjust = "ADJUST"
	ActionExpire = "EXPIRE"
)

// ValidAction reports whether s is a known action type.
func ValidAction(s string) bool {
	switch s {
	case ActionAdd, ActionSell, ActionAdjust, ActionExpire:
		return true
	}
	return false
}

// Transaction is one immutable ledger entry: a signed quantity change
// against a medicine. Entries are append-only, never updated or deleted,
// even when the medicine itself is removed.
type Transaction struct {
	ID         int64   `db:"id" json:"id"`
	MedicineID int64   `db:"medicine_id" json:"medicine_id"`
	Change     int64   `db:"change_amount" json:"change"`
	ActionType string  `db:"action_type" json:"action_type"`
	Note       *string `db:"note" json:"note,omitempty"`
	Timestamp  string  `db:"timestamp" json:"timestamp"`
}
