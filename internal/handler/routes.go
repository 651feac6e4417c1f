package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Dashboard *DashboardHandler
	Records   *RecordHandler
	Charts    *ChartHandler
	Export    *ExportHandler
	Upload    *UploadHandler
	Progress  *ProgressHandler
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Dashboard.Dashboard).Methods(http.MethodGet)
	r.HandleFunc("/records", h.Dashboard.AddRecord).Methods(http.MethodPost)
	r.HandleFunc("/charts/subjects", h.Charts.SubjectChart).Methods(http.MethodGet)
	r.HandleFunc("/charts/trend", h.Charts.TrendChart).Methods(http.MethodGet)
	r.HandleFunc("/export", h.Export.ExportCSV).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/records", h.Records.ListRecords).Methods(http.MethodGet)
	api.HandleFunc("/records", h.Records.CreateRecord).Methods(http.MethodPost)
	api.HandleFunc("/stats", h.Records.Stats).Methods(http.MethodGet)

	r.HandleFunc("/upload", h.Upload.UploadCSV).Methods(http.MethodPost)
	r.HandleFunc("/progress", h.Progress.GetAllProgress).Methods(http.MethodGet)
	r.HandleFunc("/progress/file", h.Progress.GetFileProgress).Methods(http.MethodGet)
	r.HandleFunc("/progress/stream", h.Progress.SSEProgress).Methods(http.MethodGet)

	return r
}
