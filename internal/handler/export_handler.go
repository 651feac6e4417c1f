package handler

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/marks-dashboard/backend/internal/service"
)

type ExportHandler struct {
	recordService RecordService
	logger        *slog.Logger
}

func NewExportHandler(recordService RecordService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{recordService: recordService, logger: logger}
}

// ExportCSV serves the full, unfiltered record set as a CSV download.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordService.ListRecords(r.Context())
	if err != nil {
		h.logger.Error("listing records for export", "error", err)
		http.Error(w, "Failed to fetch records", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := service.WriteCSV(&buf, records); err != nil {
		h.logger.Error("writing csv export", "error", err)
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", service.ExportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+service.ExportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
