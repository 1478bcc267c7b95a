package handlers

import (
	"net/http"
	"strconv"

	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/pkg/utils"
)

type ActivityLogHandler struct {
	Repo *repositories.ActivityLogRepository
}

func NewActivityLogHandler(repo *repositories.ActivityLogRepository) *ActivityLogHandler {
	return &ActivityLogHandler{Repo: repo}
}

func (h *ActivityLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := models.ActivityLogFilter{
		Type:   q.Get("type"),
		Action: q.Get("action"),
		Limit:  limit,
		Offset: offset,
	}

	logs, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if logs == nil {
		logs = []*models.ActivityLog{}
	}

	utils.JSON(w, http.StatusOK, logs)
}
