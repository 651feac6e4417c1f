package handler

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

type ImportService interface {
	ProcessCSV(ctx context.Context, filePath string) error
}

type UploadHandler struct {
	importService ImportService
	uploadDir     string
	logger        *slog.Logger
}

func NewUploadHandler(importService ImportService, uploadDir string, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{importService: importService, uploadDir: uploadDir, logger: logger}
}

// UploadCSV stores the uploaded files and imports them in the background.
func (h *UploadHandler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
		h.logger.Error("creating upload directory", "dir", h.uploadDir, "error", err)
		http.Error(w, "Failed to create uploads directory", http.StatusInternalServerError)
		return
	}

	err := r.ParseMultipartForm(100 << 20) // 100MB
	if err != nil {
		http.Error(w, "File too large or bad request", http.StatusRequestEntityTooLarge)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "No files uploaded", http.StatusBadRequest)
		return
	}

	fileNames := make([]string, 0, len(files))
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		savePath := filepath.Join(h.uploadDir, name)
		if err := saveUpload(fh, savePath); err != nil {
			h.logger.Warn("saving upload", "file", name, "error", err)
			continue
		}
		fileNames = append(fileNames, name)

		go func(filePath string) {
			if err := h.importService.ProcessCSV(context.Background(), filePath); err != nil {
				h.logger.Error("processing upload", "file", filePath, "error", err)
			}
		}(savePath)
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "Files uploaded successfully and processing started",
		"files":   fileNames,
	})
}

func saveUpload(fh *multipart.FileHeader, savePath string) error {
	file, err := fh.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	outFile, err := os.Create(savePath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, file)
	return err
}
