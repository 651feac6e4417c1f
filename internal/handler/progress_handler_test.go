package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marks-dashboard/backend/internal/handler"
	"github.com/marks-dashboard/backend/internal/service"
)

func TestGetFileProgress(t *testing.T) {
	mockService := new(MockProgressService)
	progress := &service.ProgressInfo{FileName: "test.csv", TotalRecords: 100, Processed: 50, Status: service.StatusProcessing}
	mockService.On("GetFileProgress", "test.csv").Return(progress)
	mockService.On("GetFileProgress", "missing.csv").Return(nil)
	h := handler.NewProgressHandler(mockService, discardLogger())

	rr := httptest.NewRecorder()
	h.GetFileProgress(rr, httptest.NewRequest(http.MethodGet, "/progress/file?fileName=uploads/test.csv", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var response service.ProgressInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Equal(t, "test.csv", response.FileName)
	assert.Equal(t, 50, response.Processed)

	rr = httptest.NewRecorder()
	h.GetFileProgress(rr, httptest.NewRequest(http.MethodGet, "/progress/file?fileName=missing.csv", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	h.GetFileProgress(rr, httptest.NewRequest(http.MethodGet, "/progress/file", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetAllProgress(t *testing.T) {
	mockService := new(MockProgressService)
	mockService.On("GetAllFileProgress").Return([]*service.ProgressInfo{
		{FileName: "file1.csv", Status: service.StatusProcessing},
		{FileName: "file2.csv", Status: service.StatusCompleted},
	})
	h := handler.NewProgressHandler(mockService, discardLogger())

	rr := httptest.NewRecorder()
	h.GetAllProgress(rr, httptest.NewRequest(http.MethodGet, "/progress", nil))

	var response []service.ProgressInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	assert.Len(t, response, 2)
}

func TestSSEProgress(t *testing.T) {
	mockService := new(MockProgressService)
	registered := make(chan chan *service.ProgressInfo, 1)
	mockService.On("RegisterProgressListener", mock.Anything).
		Run(func(args mock.Arguments) { registered <- args.Get(0).(chan *service.ProgressInfo) })
	mockService.On("UnregisterProgressListener", mock.Anything).Return()
	h := handler.NewProgressHandler(mockService, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/progress/stream", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.SSEProgress(rr, req)
		close(done)
	}()

	select {
	case ch := <-registered:
		ch <- &service.ProgressInfo{FileName: "test.csv", Status: service.StatusCompleted}
	case <-time.After(time.Second):
		t.Fatal("listener was not registered")
	}
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SSEProgress did not return after the client went away")
	}

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "data: {"))
	assert.Contains(t, rr.Body.String(), `"fileName":"test.csv"`)
	mockService.AssertCalled(t, "UnregisterProgressListener", mock.Anything)
}
