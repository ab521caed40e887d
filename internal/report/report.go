// Package report derives expiry and low-stock views from a catalog
// snapshot. It never mutates state and never reads the clock: "today"
// is always an explicit YYYY-MM-DD argument, so results are
// deterministic for a given snapshot and date.
package report

import (
	"time"

	"homeostock/m/domain"
)

// Status classifies a medicine's expiry state.
type Status string

const (
	StatusExpired    Status = "EXPIRED"
	StatusNearExpiry Status = "NEAR_EXPIRY"
	StatusOK         Status = "OK"
)

const nearExpiryWindowDays = 60

const dateLayout = "2006-01-02"

// DaysToExpiry returns the whole days from today until the expiry date,
// negative when already past. Malformed dates yield an error; stored
// dates are validated at the service boundary so this only trips on a
// bad caller-supplied today.
func DaysToExpiry(expiryDate, today string) (int64, error) {
	exp, err := time.Parse(dateLayout, expiryDate)
	if err != nil {
		return 0, err
	}
	now, err := time.Parse(dateLayout, today)
	if err != nil {
		return 0, err
	}
	return int64(exp.Sub(now).Hours() / 24), nil
}

// Classify buckets a medicine by expiry date. ISO dates compare
// lexicographically, so the expired check is a plain string compare.
func Classify(m domain.Medicine, today string) Status {
	if m.ExpiryDate < today {
		return StatusExpired
	}
	days, err := DaysToExpiry(m.ExpiryDate, today)
	if err == nil && days <= nearExpiryWindowDays {
		return StatusNearExpiry
	}
	return StatusOK
}

// LowStock reports whether quantity is at or below the medicine's threshold.
func LowStock(m domain.Medicine) bool {
	return m.Quantity <= m.LowStockThreshold
}

// Stats aggregates the catalog snapshot.
type Stats struct {
	MedicineCount int64 `json:"medicine_count"`
	TotalQuantity int64 `json:"total_quantity"`
	ExpiredCount  int64 `json:"expired_count"`
	LowStockCount int64 `json:"low_stock_count"`
}

// Summarize computes aggregate stats for the snapshot as of today.
func Summarize(medicines []domain.Medicine, today string) Stats {
	var s Stats
	for _, m := range medicines {
		s.MedicineCount++
		s.TotalQuantity += m.Quantity
		if Classify(m, today) == StatusExpired {
			s.ExpiredCount++
		}
		if LowStock(m) {
			s.LowStockCount++
		}
	}
	return s
}

// ExpiryEntry annotates a medicine with its classification.
type ExpiryEntry struct {
	domain.Medicine
	Status       Status `json:"status"`
	DaysToExpiry int64  `json:"days_to_expiry"`
}

// ExpiryReport lists medicines that are expired or near expiry.
func ExpiryReport(medicines []domain.Medicine, today string) []ExpiryEntry {
	entries := []ExpiryEntry{}
	for _, m := range medicines {
		status := Classify(m, today)
		if status == StatusOK {
			continue
		}
		days, _ := DaysToExpiry(m.ExpiryDate, today)
		entries = append(entries, ExpiryEntry{Medicine: m, Status: status, DaysToExpiry: days})
	}
	return entries
}

// LowStockReport lists medicines at or below their threshold.
func LowStockReport(medicines []domain.Medicine) []domain.Medicine {
	low := []domain.Medicine{}
	for _, m := range medicines {
		if LowStock(m) {
			low = append(low, m)
		}
	}
	return low
}
