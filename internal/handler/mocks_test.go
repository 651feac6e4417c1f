package handler_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/marks-dashboard/backend/internal/model"
	"github.com/marks-dashboard/backend/internal/service"
)

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) AddRecord(ctx context.Context, in service.RecordInput) (model.MarkRecord, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(model.MarkRecord), args.Error(1)
}

func (m *MockRecordService) ListRecords(ctx context.Context) ([]model.MarkRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MarkRecord), args.Error(1)
}

type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) ProcessCSV(ctx context.Context, filePath string) error {
	args := m.Called(ctx, filePath)
	return args.Error(0)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) GetFileProgress(fileName string) *service.ProgressInfo {
	args := m.Called(fileName)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.ProgressInfo)
}

func (m *MockProgressService) GetAllFileProgress() []*service.ProgressInfo {
	args := m.Called()
	return args.Get(0).([]*service.ProgressInfo)
}

func (m *MockProgressService) RegisterProgressListener(ch chan *service.ProgressInfo) {
	m.Called(ch)
}

func (m *MockProgressService) UnregisterProgressListener(ch chan *service.ProgressInfo) {
	m.Called(ch)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRecords() []model.MarkRecord {
	return []model.MarkRecord{
		{ID: "1", Name: "Alice", Subject: "Math", Marks: 80, Date: "2024-01-01"},
		{ID: "2", Name: "Alice", Subject: "Math", Marks: 90, Date: "2024-02-01"},
		{ID: "3", Name: "Bob", Subject: "Math", Marks: 70, Date: "2024-01-15"},
	}
}
