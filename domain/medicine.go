package domain

import "github.com/shopspring/decimal"

// Medicine is one tracked inventory batch. Quantity is never negative;
// every change to it goes through the ledger service.
type Medicine struct {
	ID                int64           `db:"id" json:"id"`
	MedicineName      string          `db:"medicine_name" json:"medicine_name"`
	Potency           string          `db:"potency" json:"potency"`
	Form              string          `db:"form" json:"form"`
	BottleSize        string          `db:"bottle_size" json:"bottle_size"`
	Manufacturer      string          `db:"manufacturer" json:"manufacturer"`
	BatchNumber       string          `db:"batch_number" json:"batch_number"`
	ExpiryDate        string          `db:"expiry_date" json:"expiry_date"`
	MRP               decimal.Decimal `db:"mrp" json:"mrp"`
	PurchasePrice     decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	Quantity          int64           `db:"quantity" json:"quantity"`
	LowStockThreshold int64           `db:"low_stock_threshold" json:"low_stock_threshold"`
	CreatedAt         string          `db:"created_at" json:"created_at"`
	LastUpdated       string          `db:"last_updated" json:"last_updated"`
}
