package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"homeostock/m/domain"
	"homeostock/m/internal/ledger"
	"homeostock/m/internal/report"
)

const historyLimit = 50

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	svc *ledger.Service
}

// New constructs a Handler.
func New(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	// Allow-all CORS for the local browser client.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/medicines", func(r chi.Router) {
			r.Get("/", h.listMedicines)
			r.Post("/", h.createMedicine)
			r.Delete("/{id}", h.deleteMedicine)
		})

		r.Post("/transaction", h.createTransaction)
		r.Get("/history", h.history)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/expiry", h.expiryReport)
			r.Get("/low-stock", h.lowStockReport)
		})
		r.Get("/stats", h.stats)
		r.Get("/export", h.exportCSV)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Catalog handlers

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.svc.ListMedicines(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req ledger.AddMedicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	medicine, err := h.svc.AddMedicine(r.Context(), req)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, medicine)
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	if err := h.svc.DeleteMedicine(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Medicine deleted"})
}

// Ledger handlers

type transactionRequest struct {
	MedicineID   int64  `json:"medicine_id"`
	ChangeAmount int64  `json:"change_amount"`
	ActionType   string `json:"action_type"`
	Note         string `json:"note"`
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	medicine, err := h.svc.ApplyChange(r.Context(), req.MedicineID, req.ChangeAmount, req.ActionType, req.Note)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"new_quantity": medicine.Quantity,
		"medicine":     medicine,
	})
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	var medicineID *int64
	if raw := strings.TrimSpace(r.URL.Query().Get("medicine_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid medicine_id")
			return
		}
		medicineID = &id
	}
	entries, err := h.svc.History(r.Context(), medicineID, historyLimit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// Report handlers

func (h *Handler) expiryReport(w http.ResponseWriter, r *http.Request) {
	today, ok := queryToday(w, r)
	if !ok {
		return
	}
	medicines, err := h.svc.ListMedicines(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report.ExpiryReport(medicines, today))
}

func (h *Handler) lowStockReport(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.svc.ListMedicines(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report.LowStockReport(medicines))
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	today, ok := queryToday(w, r)
	if !ok {
		return
	}
	medicines, err := h.svc.ListMedicines(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report.Summarize(medicines, today))
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.svc.ListMedicines(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=inventory_export.csv")

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"ID", "Name", "Potency", "Form", "Size", "Manufacturer",
		"Batch", "Expiry", "MRP", "Purchase Price", "Quantity",
	})
	for _, m := range medicines {
		_ = writer.Write([]string{
			strconv.FormatInt(m.ID, 10), m.MedicineName, m.Potency, m.Form, m.BottleSize,
			m.Manufacturer, m.BatchNumber, m.ExpiryDate, m.MRP.String(),
			m.PurchasePrice.String(), strconv.FormatInt(m.Quantity, 10),
		})
	}
	writer.Flush()
}

// queryToday reads the optional today parameter, defaulting to the current
// UTC date. The report package itself never touches the clock.
func queryToday(w http.ResponseWriter, r *http.Request) (string, bool) {
	today := strings.TrimSpace(r.URL.Query().Get("today"))
	if today == "" {
		return time.Now().UTC().Format("2006-01-02"), true
	}
	if _, err := time.Parse("2006-01-02", today); err != nil {
		respondError(w, http.StatusBadRequest, "today must be in YYYY-MM-DD format")
		return "", false
	}
	return today, true
}

// Helpers

func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInsufficientStock):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"detail": message})
}
