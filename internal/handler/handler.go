package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/marks-dashboard/backend/internal/model"
	"github.com/marks-dashboard/backend/internal/service"
)

// RecordService is the record writer and reader used by the handlers.
type RecordService interface {
	AddRecord(ctx context.Context, in service.RecordInput) (model.MarkRecord, error)
	ListRecords(ctx context.Context) ([]model.MarkRecord, error)
}

// allOption is the selector value meaning "no filter".
const allOption = "All"

// statsQuery is the subject/student/aggregation selection shared by the
// dashboard, the stats API and the charts.
type statsQuery struct {
	Filter      service.Filter
	Aggregation service.Aggregation
}

func parseStatsQuery(q url.Values) (statsQuery, error) {
	agg, err := service.ParseAggregation(q.Get("agg"))
	if err != nil {
		return statsQuery{}, err
	}
	return statsQuery{
		Filter: service.Filter{
			Subject: filterValue(q.Get("subject")),
			Student: filterValue(q.Get("student")),
		},
		Aggregation: agg,
	}, nil
}

func filterValue(v string) string {
	if v == allOption {
		return ""
	}
	return strings.TrimSpace(v)
}

func (q statsQuery) values() url.Values {
	v := url.Values{}
	if q.Filter.Subject != "" {
		v.Set("subject", q.Filter.Subject)
	}
	if q.Filter.Student != "" {
		v.Set("student", q.Filter.Student)
	}
	v.Set("agg", string(q.Aggregation))
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"error": msg})
}
