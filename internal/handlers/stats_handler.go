package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mica-backend/internal/services"
	"mica-backend/internal/timeutil"
	"mica-backend/pkg/utils"
)

type StatsHandler struct {
	Service *services.StatsService
}

func NewStatsHandler(s *services.StatsService) *StatsHandler {
	return &StatsHandler{Service: s}
}

// GetDailyRange returns daily aggregates. Defaults to the last 30 days
// when no range is given; ?refresh=true or ?refresh=1 bypasses the cache.
func (h *StatsHandler) GetDailyRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startDate := q.Get("start_date")
	endDate := q.Get("end_date")
	forceRefresh := q.Get("refresh") == "true" || q.Get("refresh") == "1"

	if endDate == "" {
		endDate = timeutil.Today()
	}
	if startDate == "" {
		startDate = timeutil.Now().AddDate(0, 0, -29).Format(timeutil.DateLayout)
	}

	stats, err := h.Service.GetDailyRange(r.Context(), startDate, endDate, forceRefresh)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	stat, err := h.Service.GetToday(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, stat)
}

// GetCategoryRecent returns per-date category totals. With start_date and
// end_date it queries that range; otherwise the newest ?limit rows.
func (h *StatsHandler) GetCategoryRecent(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.Atoi(mux.Vars(r)["id"])

	q := r.URL.Query()
	startDate := q.Get("start_date")
	endDate := q.Get("end_date")

	if startDate != "" || endDate != "" {
		if endDate == "" {
			endDate = timeutil.Today()
		}
		if startDate == "" {
			startDate = timeutil.Now().AddDate(0, 0, -29).Format(timeutil.DateLayout)
		}
		stats, err := h.Service.GetCategoryRange(r.Context(), categoryID, startDate, endDate)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, stats)
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	stats, err := h.Service.GetCategoryRecent(r.Context(), categoryID, limit)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

// GetStackedSeries returns the 100%-stacked sub-product split for a
// category over a date range (default last 30 days).
func (h *StatsHandler) GetStackedSeries(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.Atoi(mux.Vars(r)["id"])

	q := r.URL.Query()
	startDate := q.Get("start_date")
	endDate := q.Get("end_date")
	if endDate == "" {
		endDate = timeutil.Today()
	}
	if startDate == "" {
		startDate = timeutil.Now().AddDate(0, 0, -29).Format(timeutil.DateLayout)
	}

	points, err := h.Service.GetStackedSeries(r.Context(), categoryID, startDate, endDate)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, points)
}
