package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"marketplace-recon/internal/catalogue"
)

type priceUpdateRequest struct {
	Code          string  `json:"code"`
	Price         float64 `json:"price"`
	EffectiveDate string  `json:"effective_date,omitempty"` // 2006-01-02
}

// UpdatePrice applies a wholesale price change: one history entry, then the
// catalogue is persisted back to its source file.
func UpdatePrice(store *catalogue.Store, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req priceUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad request body: "+err.Error())
			return
		}
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}
		if req.Price < 0 {
			writeError(w, http.StatusBadRequest, "price must not be negative")
			return
		}

		effective := time.Now()
		if req.EffectiveDate != "" {
			t, err := time.Parse("2006-01-02", req.EffectiveDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "bad effective_date: "+err.Error())
				return
			}
			effective = t
		}

		err := store.UpdatePrice(req.Code, decimal.NewFromFloat(req.Price), effective)
		if errors.Is(err, catalogue.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found: "+req.Code)
			return
		}
		if err != nil {
			logger.Error().Err(err).Str("code", req.Code).Msg("price update")
			writeError(w, http.StatusInternalServerError, "save failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated", "code": req.Code})
	}
}

// History returns the in-memory price-change log.
func History(store *catalogue.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.History())
	}
}
