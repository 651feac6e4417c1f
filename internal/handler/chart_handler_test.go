package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/marks-dashboard/backend/internal/handler"
)

func TestCharts(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		trend          bool
		expectedStatus int
		expectedBody   string
	}{
		{"subject bar chart", "/charts/subjects?agg=Max", false, http.StatusOK, "Max by Subject"},
		{"subject chart without data", "/charts/subjects?subject=Physics", false, http.StatusNotFound, "No data after applying filters."},
		{"subject chart bad aggregation", "/charts/subjects?agg=median", false, http.StatusBadRequest, "unknown aggregation"},
		{"trend chart", "/charts/trend?student=Alice", true, http.StatusOK, "Marks trend for Alice"},
		{"trend chart requires student", "/charts/trend?student=All", true, http.StatusBadRequest, "student parameter is required"},
		{"trend chart unknown student", "/charts/trend?student=Zed", true, http.StatusNotFound, "No data after applying filters."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockRecordService)
			mockService.On("ListRecords", mock.Anything).Return(sampleRecords(), nil)
			h := handler.NewChartHandler(mockService, discardLogger())

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.trend {
				h.TrendChart(rr, req)
			} else {
				h.SubjectChart(rr, req)
			}

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
		})
	}
}
