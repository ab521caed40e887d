package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"homeostock/m/internal/api"
	"homeostock/m/internal/backup"
	"homeostock/m/internal/config"
	"homeostock/m/internal/database"
	"homeostock/m/internal/ledger"
	"homeostock/m/internal/migrations"
	"homeostock/m/internal/report"
)

func main() {
	_ = godotenv.Load()

	// Monetary fields serialize as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.Load()
	backup.Run(cfg.DatabasePath, cfg.BackupDir)

	db := database.Connect(cfg.DatabasePath)
	defer db.Close()

	migrations.Run(db)
	backup.IntegrityCheck(db)

	svc := ledger.NewService(db)
	logStartupScan(svc)

	handler := api.New(svc)

	log.Printf("stock tracker listening on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func logStartupScan(svc *ledger.Service) {
	medicines, err := svc.ListMedicines(context.Background())
	if err != nil {
		log.Printf("startup scan skipped: %v", err)
		return
	}
	today := time.Now().UTC().Format("2006-01-02")
	stats := report.Summarize(medicines, today)
	log.Printf("startup scan: %d medicines, %d units in stock, %d expired, %d low stock",
		stats.MedicineCount, stats.TotalQuantity, stats.ExpiredCount, stats.LowStockCount)
}
