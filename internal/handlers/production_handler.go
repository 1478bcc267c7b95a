package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mica-backend/internal/models"
	"mica-backend/internal/services"
	"mica-backend/pkg/utils"
)

type ProductionHandler struct {
	Service *services.ProductionService
}

func NewProductionHandler(s *services.ProductionService) *ProductionHandler {
	return &ProductionHandler{Service: s}
}

// RecordBatch accepts the canonical batch request and runs the pipeline.
// The response carries the saved batch plus flags for whether stock and
// stats were brought up to date.
func (h *ProductionHandler) RecordBatch(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProductionBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Service.RecordBatch(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, result)
}

func (h *ProductionHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	batch, err := h.Service.GetBatch(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, batch)
}

func (h *ProductionHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryID, _ := strconv.Atoi(q.Get("category_id"))
	supplierID, _ := strconv.Atoi(q.Get("supplier_id"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.ProductionFilter{
		CategoryID: categoryID,
		SupplierID: supplierID,
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
		Limit:      limit,
		Offset:     offset,
	}

	batches, err := h.Service.ListBatches(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if batches == nil {
		batches = []*models.ProductionBatch{}
	}

	utils.JSON(w, http.StatusOK, batches)
}
