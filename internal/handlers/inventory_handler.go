package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"mica-backend/internal/cache"
	"mica-backend/internal/services"
	"mica-backend/pkg/utils"
)

type InventoryHandler struct {
	Service *services.InventoryService
}

func NewInventoryHandler(s *services.InventoryService) *InventoryHandler {
	// The summary is the most-hit endpoint, so warm it on startup
	cache.RegisterPreWarm(cache.InventorySummaryKey, func(ctx context.Context) ([]byte, error) {
		summary, err := s.GetSummary(ctx, true)
		if err != nil {
			return nil, err
		}
		return json.Marshal(summary)
	})

	return &InventoryHandler{Service: s}
}

// GetSummary returns the dashboard stock rollup. ?refresh=true or
// ?refresh=1 bypasses the cache.
func (h *InventoryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh")
	forceRefresh := refresh == "true" || refresh == "1"

	summary, err := h.Service.GetSummary(r.Context(), forceRefresh)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, summary)
}

func (h *InventoryHandler) ListLedger(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListLedger(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, entries)
}

type adjustStockRequest struct {
	SupplierID int     `json:"supplier_id"`
	DeltaKg    float64 `json:"delta_kg"`
	Reason     string  `json:"reason"`
}

// AdjustRawStock applies a manual correction to one supplier's raw bucket.
func (h *InventoryHandler) AdjustRawStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Reason == "" {
		utils.Error(w, http.StatusBadRequest, "reason is required")
		return
	}

	newBalance, err := h.Service.AdjustRawStock(r.Context(), req.SupplierID, req.DeltaKg, req.Reason)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]float64{"stock_kg": newBalance})
}

// Reconstruct rebuilds the ledger and aggregates from event history.
// Admin-only; used when derived data is suspected stale.
func (h *InventoryHandler) Reconstruct(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.ReconstructFromHistory(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, summary)
}
