package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Refresh(ctx context.Context, asOf time.Time) (domain.RefreshRun, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(domain.RefreshRun), args.Error(1)
}

func (m *mockService) Rows(ctx context.Context, from, to time.Time) ([]domain.SummaryRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SummaryRow), args.Error(1)
}

func (m *mockService) Runs(ctx context.Context, limit int) ([]domain.RefreshRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RefreshRun), args.Error(1)
}

var today = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func setupRouter(service *mockService) chi.Router {
	h := NewHandler(service, 2)
	h.now = func() time.Time { return today }

	router := chi.NewRouter()
	router.Get("/summary", h.GetSummary)
	router.Post("/summary/refresh", h.RefreshSummary)
	router.Get("/summary/runs", h.ListRefreshRuns)
	return router
}

func TestGetSummary(t *testing.T) {
	service := new(mockService)
	service.On("Rows", mock.Anything, today.AddDate(-2, 0, 0), today).Return([]domain.SummaryRow{{
		Date: today, Year: 2024, Month: 6, Quarter: 2, Category: "Tools", Region: "North",
		TransactionCount: 3, UnitsSold: 4, Revenue: decimal.NewFromInt(60), Profit: decimal.NewFromInt(16),
		DistinctCustomers: 2,
	}}, nil)
	router := setupRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response api.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "dashboard_summary", response.Name)
	assert.Equal(t, "2022-06-30", response.From)
	require.Len(t, response.Rows, 1)
	assert.Equal(t, "2024-06-30", response.Rows[0].Date)
	assert.True(t, decimal.NewFromInt(60).Equal(response.Rows[0].Revenue))
	service.AssertExpectations(t)
}

func TestGetSummary_BadRange(t *testing.T) {
	router := setupRouter(new(mockService))

	for _, path := range []string{"/summary?from=2024-07-01&to=2024-06-01", "/summary?to=yesterday"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestRefreshSummary(t *testing.T) {
	finished := today.Add(time.Minute)
	tests := []struct {
		name           string
		runErr         error
		expectedStatus int
	}{
		{name: "success", expectedStatus: http.StatusOK},
		{name: "failure", runErr: errors.New("replace failed"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockService)
			service.On("Refresh", mock.Anything, today).Return(domain.RefreshRun{
				ID: "run-1", AsOf: today, StartedAt: today, FinishedAt: &finished, RowCount: 12,
			}, tt.runErr)
			router := setupRouter(service)

			req := httptest.NewRequest(http.MethodPost, "/summary/refresh", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.runErr == nil {
				var response api.RefreshRun
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, "run-1", response.ID)
				assert.Equal(t, int64(12), response.RowCount)
			}
			service.AssertExpectations(t)
		})
	}
}

func TestListRefreshRuns(t *testing.T) {
	service := new(mockService)
	service.On("Runs", mock.Anything, 20).Return([]domain.RefreshRun{{ID: "a", AsOf: today}}, nil)
	service.On("Runs", mock.Anything, 5).Return([]domain.RefreshRun{}, nil)
	router := setupRouter(service)

	for path, status := range map[string]int{
		"/summary/runs":         http.StatusOK,
		"/summary/runs?limit=5": http.StatusOK,
		"/summary/runs?limit=0": http.StatusBadRequest,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, status, rec.Code, path)
	}
	service.AssertExpectations(t)
}
