package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/marks-dashboard/backend/internal/service"
)

const noDataMessage = "No data after applying filters."

type ChartHandler struct {
	recordService RecordService
	logger        *slog.Logger
}

func NewChartHandler(recordService RecordService, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{recordService: recordService, logger: logger}
}

func (h *ChartHandler) aggregate(w http.ResponseWriter, r *http.Request) (statsQuery, service.Result, bool) {
	q, err := parseStatsQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return q, service.Result{}, false
	}

	records, err := h.recordService.ListRecords(r.Context())
	if err != nil {
		h.logger.Error("listing records for chart", "error", err)
		http.Error(w, "Failed to fetch records", http.StatusInternalServerError)
		return q, service.Result{}, false
	}

	res := service.Aggregate(records, q.Filter, q.Aggregation)
	if res.NoData() {
		http.Error(w, noDataMessage, http.StatusNotFound)
		return q, res, false
	}
	return q, res, true
}

// SubjectChart renders the aggregation as a bar chart keyed by subject.
func (h *ChartHandler) SubjectChart(w http.ResponseWriter, r *http.Request) {
	q, res, ok := h.aggregate(w, r)
	if !ok {
		return
	}
	agg := string(q.Aggregation)

	subjects := make([]string, len(res.Groups))
	values := make([]opts.BarData, len(res.Groups))
	for i, g := range res.Groups {
		subjects[i] = g.Subject
		values[i] = opts.BarData{Value: g.Value}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: agg + " by Subject", Width: "800px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: agg + " by Subject"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Subject"}),
		charts.WithYAxisOpts(opts.YAxis{Name: agg}),
	)
	bar.SetXAxis(subjects).AddSeries(agg, values)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := bar.Render(w); err != nil {
		h.logger.Error("rendering subject chart", "error", err)
	}
}

// TrendChart renders one student's marks over time on a fixed 0-100 scale.
func (h *ChartHandler) TrendChart(w http.ResponseWriter, r *http.Request) {
	if filterValue(r.URL.Query().Get("student")) == "" {
		http.Error(w, "student parameter is required", http.StatusBadRequest)
		return
	}
	q, res, ok := h.aggregate(w, r)
	if !ok {
		return
	}

	dates := make([]string, len(res.Trend))
	marks := make([]opts.LineData, len(res.Trend))
	for i, p := range res.Trend {
		dates[i] = p.Date
		marks[i] = opts.LineData{Value: p.Marks}
	}

	title := "Marks trend for " + q.Filter.Student
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "800px", Height: "300px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Marks", Min: 0, Max: 100}),
	)
	line.SetXAxis(dates).AddSeries("Marks", marks)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		h.logger.Error("rendering trend chart", "error", err)
	}
}
