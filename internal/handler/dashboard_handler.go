package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/marks-dashboard/backend/internal/model"
	"github.com/marks-dashboard/backend/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

const (
	addedNotice     = "Record added successfully!"
	missingWarning  = "Please enter at least Student Name and Subject."
	emptyStoreInfo  = "No records yet. Add student marks from the left panel."
	invalidFormText = "Please correct the highlighted values."
)

type dashboardView struct {
	Today   string
	Notice  string
	Warning string
	Form    service.RecordInput

	Records      []model.MarkRecord
	Subjects     []string
	Students     []string
	Aggregations []service.Aggregation

	Subject     string
	Student     string
	Aggregation service.Aggregation
	ShowCharts  bool

	Result          *service.Result
	FilterWarning   string
	SubjectChartURL string
	TrendChartURL   string
	EmptyInfo       string
}

type DashboardHandler struct {
	recordService RecordService
	logger        *slog.Logger
	now           func() time.Time
}

func NewDashboardHandler(recordService RecordService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{recordService: recordService, logger: logger, now: time.Now}
}

// Dashboard renders the form, the record table and the statistics for the
// selected filters.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	view := dashboardView{}
	if r.URL.Query().Get("notice") == "added" {
		view.Notice = addedNotice
	}
	h.render(w, r, http.StatusOK, view)
}

// AddRecord handles the sidebar form. Success redirects back to the
// dashboard; a missing field re-renders it with a warning.
func (h *DashboardHandler) AddRecord(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	in := service.RecordInput{
		Name:      r.PostForm.Get("name"),
		StudentID: r.PostForm.Get("student_id"),
		Subject:   r.PostForm.Get("subject"),
		Marks:     clampMarks(r.PostForm.Get("marks")),
		Date:      r.PostForm.Get("date"),
	}

	_, err := h.recordService.AddRecord(r.Context(), in)
	var verr *service.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/?notice=added", http.StatusSeeOther)
	case errors.Is(err, service.ErrMissingRequiredField):
		h.render(w, r, http.StatusBadRequest, dashboardView{Warning: missingWarning, Form: in})
	case errors.As(err, &verr):
		h.render(w, r, http.StatusBadRequest, dashboardView{Warning: invalidFormText + " " + verr.Error(), Form: in})
	default:
		h.logger.Error("adding record", "error", err)
		http.Error(w, "Failed to add record", http.StatusInternalServerError)
	}
}

func (h *DashboardHandler) render(w http.ResponseWriter, r *http.Request, status int, view dashboardView) {
	records, err := h.recordService.ListRecords(r.Context())
	if err != nil {
		h.logger.Error("listing records", "error", err)
		http.Error(w, "Failed to fetch records", http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	q, err := parseStatsQuery(query)
	if err != nil {
		q.Aggregation = service.Average
		q.Filter = service.Filter{Subject: filterValue(query.Get("subject")), Student: filterValue(query.Get("student"))}
	}

	view.Today = h.now().Format(model.DateLayout)
	view.Aggregations = service.Aggregations
	view.Subject = q.Filter.Subject
	view.Student = q.Filter.Student
	view.Aggregation = q.Aggregation
	view.ShowCharts = showCharts(query)

	if len(records) == 0 {
		view.EmptyInfo = emptyStoreInfo
	} else {
		view.Records = service.SortByDateDesc(records)
		view.Subjects = service.Subjects(records)
		view.Students = service.Students(records)

		res := service.Aggregate(records, q.Filter, q.Aggregation)
		if res.NoData() {
			view.FilterWarning = noDataMessage
		} else {
			view.Result = &res
			chartQuery := q.values().Encode()
			view.SubjectChartURL = "/charts/subjects?" + chartQuery
			if q.Filter.Student != "" {
				view.TrendChartURL = "/charts/trend?" + chartQuery
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := dashboardTmpl.Execute(w, view); err != nil {
		h.logger.Error("rendering dashboard", "error", err)
	}
}

// showCharts reads the last "charts" value; the form always sends a hidden
// "off" before the checkbox. Charts are on by default.
func showCharts(q url.Values) bool {
	vals := q["charts"]
	if len(vals) == 0 {
		return true
	}
	return vals[len(vals)-1] == "on"
}

func clampMarks(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
