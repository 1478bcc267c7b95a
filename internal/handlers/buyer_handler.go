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

type BuyerHandler struct {
	Service *services.BuyerService
}

func NewBuyerHandler(s *services.BuyerService) *BuyerHandler {
	return &BuyerHandler{Service: s}
}

func (h *BuyerHandler) CreateBuyer(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBuyerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	buyer, err := h.Service.CreateBuyer(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusCreated, buyer)
}

func (h *BuyerHandler) GetBuyer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	buyer, err := h.Service.GetBuyer(r.Context(), id)
	if err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, buyer)
}

func (h *BuyerHandler) ListBuyers(w http.ResponseWriter, r *http.Request) {
	buyers, err := h.Service.ListBuyers(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, buyers)
}

func (h *BuyerHandler) UpdateBuyer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateBuyerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	buyer, err := h.Service.UpdateBuyer(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, buyer)
}

func (h *BuyerHandler) DeleteBuyer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.DeleteBuyer(r.Context(), id); err != nil {
		utils.Error(w, http.StatusNotFound, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "buyer deleted"})
}
