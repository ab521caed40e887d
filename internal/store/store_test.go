package store_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeostock/m/domain"
	"homeostock/m/internal/database"
	"homeostock/m/internal/migrations"
	"homeostock/m/internal/store"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := database.Connect(":memory:")
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)
	return db
}

func seedMedicine(t *testing.T, db *sqlx.DB) *domain.Medicine {
	t.Helper()
	m := &domain.Medicine{
		MedicineName:      "Arnica Montana",
		Potency:           "200C",
		Form:              "Globules",
		BottleSize:        "10ml",
		Manufacturer:      "SBL",
		BatchNumber:       "B-7",
		ExpiryDate:        "2027-03-01",
		MRP:               decimal.NewFromFloat(99.50),
		PurchasePrice:     decimal.NewFromFloat(60.25),
		Quantity:          10,
		LowStockThreshold: 5,
	}
	require.NoError(t, store.CreateMedicine(context.Background(), db, m))
	return m
}

func TestCreateAndGetMedicine(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMedicine(t, db)
	assert.Positive(t, m.ID)
	assert.NotEmpty(t, m.CreatedAt)

	got, err := store.GetMedicine(ctx, db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.MedicineName, got.MedicineName)
	assert.True(t, got.MRP.Equal(decimal.NewFromFloat(99.50)), "mrp survives the round trip")
	assert.Equal(t, int64(10), got.Quantity)

	_, err = store.GetMedicine(ctx, db, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateMedicineQuantity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMedicine(t, db)

	require.NoError(t, store.UpdateMedicineQuantity(ctx, db, m.ID, 7))
	got, err := store.GetMedicine(ctx, db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)

	// The store refuses negative quantities outright; callers must
	// reject those before asking.
	err = store.UpdateMedicineQuantity(ctx, db, m.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvariant)

	err = store.UpdateMedicineQuantity(ctx, db, 999, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppendTransactionAssignsIDAndTimestamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMedicine(t, db)

	tx := &domain.Transaction{MedicineID: m.ID, Change: -2, ActionType: domain.ActionSell}
	require.NoError(t, store.AppendTransaction(ctx, db, tx))
	assert.Positive(t, tx.ID)
	assert.NotEmpty(t, tx.Timestamp)
}

func TestListHistoryOrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMedicine(t, db)
	other := seedMedicine2(t, db)

	stamps := []string{
		"2024-06-01T10:00:00.000000Z",
		"2024-06-01T11:00:00.000000Z",
		"2024-06-01T12:00:00.000000Z",
	}
	for i, stamp := range stamps {
		id := m.ID
		if i == 1 {
			id = other.ID
		}
		tx := &domain.Transaction{MedicineID: id, Change: int64(i + 1), ActionType: domain.ActionAdd, Timestamp: stamp}
		require.NoError(t, store.AppendTransaction(ctx, db, tx))
	}

	all, err := store.ListHistory(ctx, db, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, stamps[2], all[0].Timestamp, "most recent first")
	assert.Equal(t, m.MedicineName, all[0].MedicineName)

	filtered, err := store.ListHistory(ctx, db, &other.ID, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, other.ID, filtered[0].MedicineID)

	limited, err := store.ListHistory(ctx, db, nil, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListHistorySurvivesDeletion(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMedicine(t, db)
	tx := &domain.Transaction{MedicineID: m.ID, Change: 10, ActionType: domain.ActionAdd}
	require.NoError(t, store.AppendTransaction(ctx, db, tx))

	require.NoError(t, store.DeleteMedicine(ctx, db, m.ID))

	entries, err := store.ListHistory(ctx, db, &m.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].MedicineName)
	assert.Empty(t, entries[0].BatchNumber)
}

func TestSumChanges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	m := seedMedicine(t, db)
	for _, change := range []int64{10, -3, -2} {
		tx := &domain.Transaction{MedicineID: m.ID, Change: change, ActionType: domain.ActionAdjust}
		require.NoError(t, store.AppendTransaction(ctx, db, tx))
	}

	sum, err := store.SumChanges(ctx, db, m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum)

	sum, err = store.SumChanges(ctx, db, 999)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func seedMedicine2(t *testing.T, db *sqlx.DB) *domain.Medicine {
	t.Helper()
	m := &domain.Medicine{
		MedicineName:      "Belladonna",
		Potency:           "30C",
		Form:              "Dilution",
		BottleSize:        "30ml",
		Manufacturer:      "Dr. Reckeweg",
		BatchNumber:       "B-8",
		ExpiryDate:        "2026-12-01",
		MRP:               decimal.NewFromInt(80),
		PurchasePrice:     decimal.NewFromInt(50),
		Quantity:          4,
		LowStockThreshold: 5,
	}
	require.NoError(t, store.CreateMedicine(context.Background(), db, m))
	return m
}
