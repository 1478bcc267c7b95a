package handlers

import (
	"fmt"
	"net/http"

	"mica-backend/internal/services"
	"mica-backend/internal/timeutil"
	"mica-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func (h *ReportHandler) dateRange(r *http.Request) (string, string) {
	q := r.URL.Query()
	startDate := q.Get("start_date")
	endDate := q.Get("end_date")
	if endDate == "" {
		endDate = timeutil.Today()
	}
	if startDate == "" {
		startDate = timeutil.Now().AddDate(0, 0, -29).Format(timeutil.DateLayout)
	}
	return startDate, endDate
}

func (h *ReportHandler) ProductionPDF(w http.ResponseWriter, r *http.Request) {
	startDate, endDate := h.dateRange(r)

	data, err := h.Service.GenerateProductionPDF(r.Context(), startDate, endDate)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="production_%s_%s.pdf"`, startDate, endDate))
	w.Write(data)
}

func (h *ReportHandler) DailyStatsCSV(w http.ResponseWriter, r *http.Request) {
	startDate, endDate := h.dateRange(r)

	data, err := h.Service.GenerateDailyStatsCSV(r.Context(), startDate, endDate)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="daily_stats_%s_%s.csv"`, startDate, endDate))
	w.Write(data)
}

func (h *ReportHandler) InventoryXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.GenerateInventoryXLSX(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	w.Write(data)
}

func (h *ReportHandler) ExportBundle(w http.ResponseWriter, r *http.Request) {
	startDate, endDate := h.dateRange(r)

	data, err := h.Service.GenerateExportBundle(r.Context(), startDate, endDate)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="exports_%s_%s.zip"`, startDate, endDate))
	w.Write(data)
}
