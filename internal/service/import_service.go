package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/marks-dashboard/backend/internal/model"
)

// Import statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

type ProgressInfo struct {
	FileName     string    `json:"fileName"`
	TotalRecords int       `json:"totalRecords"`
	Processed    int       `json:"processed"`
	Skipped      int       `json:"skipped"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime,omitempty"`
}

type recordAdder interface {
	AddRecord(ctx context.Context, in RecordInput) (model.MarkRecord, error)
}

// ImportService loads mark records from uploaded CSV files.
type ImportService struct {
	records recordAdder
	logger  *slog.Logger

	fileProgressMap   map[string]*ProgressInfo
	fileProgressLock  sync.RWMutex
	progressListeners map[chan *ProgressInfo]bool
	listenerLock      sync.RWMutex

	workerSemaphore chan struct{} // bounds workers across all files
}

func NewImportService(records recordAdder, logger *slog.Logger) *ImportService {
	return &ImportService{
		records:           records,
		logger:            logger,
		fileProgressMap:   make(map[string]*ProgressInfo),
		progressListeners: make(map[chan *ProgressInfo]bool),
		workerSemaphore:   make(chan struct{}, runtime.NumCPU()*2),
	}
}

func (s *ImportService) RegisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	s.progressListeners[ch] = true
}

func (s *ImportService) UnregisterProgressListener(ch chan *ProgressInfo) {
	s.listenerLock.Lock()
	defer s.listenerLock.Unlock()
	delete(s.progressListeners, ch)
}

// BroadcastProgress sends a snapshot to every listener that is ready to
// receive; busy listeners miss the update.
func (s *ImportService) BroadcastProgress(progress *ProgressInfo) {
	s.listenerLock.RLock()
	defer s.listenerLock.RUnlock()

	for listener := range s.progressListeners {
		snapshot := *progress
		select {
		case listener <- &snapshot:
		default:
		}
	}
}

func (s *ImportService) updateProgress(fileName string, processed, skipped int) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		progress.Processed += processed
		progress.Skipped += skipped
		if progress.Processed > progress.TotalRecords {
			progress.Processed = progress.TotalRecords
		}
		s.BroadcastProgress(progress)
	}
}

func (s *ImportService) updateProgressError(fileName string, errorMsg string) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		progress.Status = StatusError
		progress.Error = errorMsg
		progress.EndTime = time.Now()
		s.BroadcastProgress(progress)
	}
}

// GetFileProgress returns a copy of the progress for fileName, or nil.
func (s *ImportService) GetFileProgress(fileName string) *ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

func (s *ImportService) GetAllFileProgress() []*ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	result := make([]*ProgressInfo, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	return result
}

// ProcessCSV imports every row of the file at filePath. Rows that fail
// validation or cannot be written are skipped and counted.
func (s *ImportService) ProcessCSV(ctx context.Context, filePath string) error {
	fileName := filepath.Base(filePath)
	startTime := time.Now()

	s.fileProgressLock.Lock()
	s.fileProgressMap[fileName] = &ProgressInfo{
		FileName:  fileName,
		Status:    StatusProcessing,
		StartTime: startTime,
	}
	s.fileProgressLock.Unlock()

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		s.updateProgressError(fileName, "Failed to get file info: "+err.Error())
		return errors.Wrap(err, "stat upload")
	}

	totalRecords, err := s.countRecords(filePath)
	if err != nil {
		s.updateProgressError(fileName, "Failed to count records: "+err.Error())
		return errors.Wrap(err, "count records")
	}

	s.fileProgressLock.Lock()
	s.fileProgressMap[fileName].TotalRecords = totalRecords
	s.fileProgressLock.Unlock()

	file, err := os.Open(filePath)
	if err != nil {
		s.updateProgressError(fileName, "Failed to open file: "+err.Error())
		return errors.Wrap(err, "open upload")
	}
	defer file.Close()

	rows, err := newRowReader(file)
	if err != nil {
		s.updateProgressError(fileName, "Failed to read header: "+err.Error())
		return errors.Wrap(err, "read header")
	}

	numWorkers := calculateWorkers(fileInfo.Size())
	s.logger.Info("importing marks", "file", fileName, "workers", numWorkers, "size", fileInfo.Size(), "records", totalRecords)

	recCh := make(chan model.MarkRecord, 100)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go s.worker(ctx, fileName, recCh, &wg)
	}

	var readErr error
	for {
		rec, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !badRow(err) {
				readErr = err
				break
			}
			s.logger.Warn("skipping unreadable csv row", "file", fileName, "error", err)
			s.updateProgress(fileName, 0, 1)
			continue
		}
		recCh <- rec
	}
	close(recCh)
	wg.Wait()

	if readErr != nil {
		s.updateProgressError(fileName, "Failed to read file: "+readErr.Error())
		return errors.Wrap(readErr, "read upload")
	}

	s.fileProgressLock.Lock()
	if progress, exists := s.fileProgressMap[fileName]; exists {
		progress.Status = StatusCompleted
		progress.EndTime = time.Now()
		s.BroadcastProgress(progress)
	}
	s.fileProgressLock.Unlock()

	s.logger.Info("import completed", "file", fileName, "duration", time.Since(startTime).String())
	return nil
}

// calculateWorkers scales the worker count with file size, capped by CPUs.
func calculateWorkers(fileSize int64) int {
	cpus := runtime.NumCPU()
	switch {
	case fileSize < 1_000_000:
		return min(2, cpus)
	case fileSize < 10_000_000:
		return min(4, cpus)
	case fileSize < 100_000_000:
		return min(8, cpus)
	}
	return cpus
}

func (s *ImportService) worker(ctx context.Context, fileName string, recCh <-chan model.MarkRecord, wg *sync.WaitGroup) {
	s.workerSemaphore <- struct{}{}
	defer func() {
		<-s.workerSemaphore
		wg.Done()
	}()

	processed, skipped := 0, 0
	for rec := range recCh {
		_, err := s.records.AddRecord(ctx, RecordInput{
			Name:      rec.Name,
			StudentID: rec.StudentID,
			Subject:   rec.Subject,
			Marks:     rec.Marks,
			Date:      rec.Date,
		})
		if err != nil {
			s.logger.Debug("skipping csv row", "file", fileName, "error", err)
			skipped++
		} else {
			processed++
		}

		if (processed+skipped)%100 == 0 {
			s.updateProgress(fileName, processed, skipped)
			processed, skipped = 0, 0
		}
	}
	s.updateProgress(fileName, processed, skipped)
}

// countRecords counts data rows, malformed ones included, so that progress
// can reach the total once those rows are skipped.
func (s *ImportService) countRecords(filePath string) (int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	rows, err := newRowReader(file)
	if err != nil {
		return 0, err
	}

	count := 0
	for {
		_, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil && !badRow(err) {
			return count, err
		}
		count++
	}
	return count, nil
}
