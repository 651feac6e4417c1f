package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/marks-dashboard/backend/internal/service"
)

type ProgressService interface {
	GetFileProgress(fileName string) *service.ProgressInfo
	GetAllFileProgress() []*service.ProgressInfo
	RegisterProgressListener(ch chan *service.ProgressInfo)
	UnregisterProgressListener(ch chan *service.ProgressInfo)
}

type ProgressHandler struct {
	progressService ProgressService
	logger          *slog.Logger
}

func NewProgressHandler(progressService ProgressService, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{progressService: progressService, logger: logger}
}

// GetFileProgress returns the import progress for a specific file
func (h *ProgressHandler) GetFileProgress(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		http.Error(w, "fileName parameter is required", http.StatusBadRequest)
		return
	}

	progress := h.progressService.GetFileProgress(filepath.Base(fileName))
	if progress == nil {
		http.Error(w, "File not found or not being processed", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// GetAllProgress returns the progress for every imported file
func (h *ProgressHandler) GetAllProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.progressService.GetAllFileProgress())
}

// SSEProgress streams progress updates using Server-Sent Events.
func (h *ProgressHandler) SSEProgress(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	progressChan := make(chan *service.ProgressInfo, 16)
	h.progressService.RegisterProgressListener(progressChan)
	defer h.progressService.UnregisterProgressListener(progressChan)

	for {
		select {
		case progress := <-progressChan:
			data, err := json.Marshal(progress)
			if err != nil {
				h.logger.Warn("marshaling progress", "error", err)
				continue
			}
			if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
				h.logger.Debug("sse client write failed", "error", err)
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
