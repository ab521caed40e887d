package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"homeostock/m/domain"
)

const dateLayout = "2006-01-02"

const defaultLowStockThreshold = 5

// AddMedicineRequest is the validated shape of an add-stock call. Numeric
// and date fields are checked once here, before anything reaches the store.
type AddMedicineRequest struct {
	MedicineName      string          `json:"medicine_name"`
	Potency           string          `json:"potency"`
	Form              string          `json:"form"`
	BottleSize        string          `json:"bottle_size"`
	Manufacturer      string          `json:"manufacturer"`
	BatchNumber       string          `json:"batch_number"`
	ExpiryDate        string          `json:"expiry_date"`
	MRP               decimal.Decimal `json:"mrp"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	Quantity          int64           `json:"quantity"`
	LowStockThreshold *int64          `json:"low_stock_threshold"`
}

func (r AddMedicineRequest) medicine() (*domain.Medicine, error) {
	required := []struct {
		name, value string
	}{
		{"medicine_name", r.MedicineName},
		{"potency", r.Potency},
		{"form", r.Form},
		{"bottle_size", r.BottleSize},
		{"manufacturer", r.Manufacturer},
		{"batch_number", r.BatchNumber},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, &domain.ValidationError{Detail: f.name + " is required"}
		}
	}
	if _, err := time.Parse(dateLayout, r.ExpiryDate); err != nil {
		return nil, &domain.ValidationError{Detail: "expiry_date must be in YYYY-MM-DD format"}
	}
	if !r.MRP.IsPositive() {
		return nil, &domain.ValidationError{Detail: "mrp must be greater than 0"}
	}
	if r.PurchasePrice.IsNegative() {
		return nil, &domain.ValidationError{Detail: "purchase_price cannot be negative"}
	}
	if r.Quantity < 0 {
		return nil, &domain.ValidationError{Detail: "quantity cannot be negative"}
	}
	threshold := int64(defaultLowStockThreshold)
	if r.LowStockThreshold != nil {
		if *r.LowStockThreshold < 0 {
			return nil, &domain.ValidationError{Detail: "low_stock_threshold cannot be negative"}
		}
		threshold = *r.LowStockThreshold
	}

	return &domain.Medicine{
		MedicineName:      strings.TrimSpace(r.MedicineName),
		Potency:           strings.TrimSpace(r.Potency),
		Form:              strings.TrimSpace(r.Form),
		BottleSize:        strings.TrimSpace(r.BottleSize),
		Manufacturer:      strings.TrimSpace(r.Manufacturer),
		BatchNumber:       strings.TrimSpace(r.BatchNumber),
		ExpiryDate:        r.ExpiryDate,
		MRP:               r.MRP,
		PurchasePrice:     r.PurchasePrice,
		Quantity:          r.Quantity,
		LowStockThreshold: threshold,
	}, nil
}
