package handlers

import (
	"net/http"

	"mica-backend/internal/backup"
	"mica-backend/internal/services"
	"mica-backend/internal/timeutil"
	"mica-backend/pkg/utils"
)

type BackupHandler struct {
	Uploader *backup.Uploader
	Reports  *services.ReportService
}

func NewBackupHandler(uploader *backup.Uploader, reports *services.ReportService) *BackupHandler {
	return &BackupHandler{Uploader: uploader, Reports: reports}
}

// Snapshot builds the full export bundle for the trailing 30 days and
// uploads it to off-site storage. Admin-only.
func (h *BackupHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if !h.Uploader.Enabled() {
		utils.Error(w, http.StatusServiceUnavailable, "backup storage is not configured")
		return
	}

	endDate := timeutil.Today()
	startDate := timeutil.Now().AddDate(0, 0, -29).Format(timeutil.DateLayout)

	data, err := h.Reports.GenerateExportBundle(r.Context(), startDate, endDate)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	key, err := h.Uploader.UploadSnapshot(r.Context(), "exports.zip", data)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"key": key})
}
