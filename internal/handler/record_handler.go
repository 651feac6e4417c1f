package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pkg/errors"

	"github.com/marks-dashboard/backend/internal/service"
)

type RecordHandler struct {
	recordService RecordService
	logger        *slog.Logger
}

func NewRecordHandler(recordService RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{recordService: recordService, logger: logger}
}

// ListRecords returns every record, newest first.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.recordService.ListRecords(r.Context())
	if err != nil {
		h.logger.Error("listing records", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to fetch records")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data":  service.SortByDateDesc(records),
		"total": len(records),
	})
}

func (h *RecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var in service.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.recordService.AddRecord(r.Context(), in)
	var verr *service.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, rec)
	case errors.Is(err, service.ErrMissingRequiredField):
		writeJSONError(w, http.StatusBadRequest, "Please enter at least Student Name and Subject.")
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "invalid record", "fields": verr.Fields})
	default:
		h.logger.Error("adding record", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to add record")
	}
}

// Stats returns the per-subject aggregation for the selected filters. An
// empty selection is reported with no_data rather than an error status.
func (h *RecordHandler) Stats(w http.ResponseWriter, r *http.Request) {
	q, err := parseStatsQuery(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := h.recordService.ListRecords(r.Context())
	if err != nil {
		h.logger.Error("listing records", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to fetch records")
		return
	}

	res := service.Aggregate(records, q.Filter, q.Aggregation)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"aggregation": res.Aggregation,
		"groups":      res.Groups,
		"trend":       res.Trend,
		"no_data":     res.NoData(),
	})
}
