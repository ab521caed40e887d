package migrations

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// Run creates the database schema for the stock tracker.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS medicines (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_name TEXT NOT NULL,
            potency TEXT NOT NULL,
            form TEXT NOT NULL,
            bottle_size TEXT NOT NULL,
            manufacturer TEXT NOT NULL,
            batch_number TEXT NOT NULL,
            expiry_date TEXT NOT NULL,
            mrp TEXT NOT NULL DEFAULT '0',
            purchase_price TEXT NOT NULL DEFAULT '0',
            quantity INTEGER NOT NULL DEFAULT 0,
            low_stock_threshold INTEGER NOT NULL DEFAULT 5,
            created_at TEXT NOT NULL,
            last_updated TEXT NOT NULL,
            UNIQUE(medicine_name, potency, form, bottle_size, manufacturer, batch_number)
        );`,
		// No foreign key on medicine_id: ledger entries outlive their medicine.
		`CREATE TABLE IF NOT EXISTS transactions (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            medicine_id INTEGER NOT NULL,
            change_amount INTEGER NOT NULL,
            action_type TEXT NOT NULL DEFAULT 'ADJUST',
            note TEXT,
            timestamp TEXT NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_medicine ON transactions(medicine_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
	}
}
