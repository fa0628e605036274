package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/api"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/reports"
	storesql "github.com/de-tools/sales-atlas/pkg/store/sql"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Run(ctx context.Context, name string, asOf time.Time) (domain.Report, error) {
	args := m.Called(ctx, name, asOf)
	return args.Get(0).(domain.Report), args.Error(1)
}

func (m *mockService) Profile(ctx context.Context, asOf time.Time) ([]domain.TableProfile, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TableProfile), args.Error(1)
}

var today = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

func setupRouter(service *mockService) chi.Router {
	h := NewHandler(service)
	h.now = func() time.Time { return today }

	router := chi.NewRouter()
	router.Get("/reports", h.ListReports)
	router.Get("/reports/{report}", h.GetReport)
	router.Get("/quality/profile", h.GetQualityProfile)
	return router
}

func TestListReports(t *testing.T) {
	router := setupRouter(new(mockService))

	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response api.ReportList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, reports.Names(), response.Reports)
}

func TestGetReport(t *testing.T) {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	regional := domain.Report{
		Name:   reports.RegionalComparisonName,
		Title:  "Regional Comparison",
		AsOf:   asOf,
		Period: domain.TimePeriod{Start: asOf.AddDate(-1, 0, 0), End: asOf, Years: 1},
		Rows: []domain.RegionalComparisonRow{{
			Region: "North", DistinctCustomers: 1, TransactionCount: 2,
			Revenue:         decimal.NewFromInt(400),
			ContributionPct: decimal.NewNullDecimal(decimal.NewFromInt(40)),
		}},
	}

	tests := []struct {
		name           string
		path           string
		setupMock      func(*mockService)
		expectedStatus int
	}{
		{
			name: "explicit reference date",
			path: "/reports/regional-comparison?as_of=2024-03-31",
			setupMock: func(m *mockService) {
				m.On("Run", mock.Anything, reports.RegionalComparisonName, asOf).Return(regional, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "defaults to today",
			path: "/reports/regional-comparison",
			setupMock: func(m *mockService) {
				m.On("Run", mock.Anything, reports.RegionalComparisonName, today).Return(regional, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad reference date",
			path:           "/reports/regional-comparison?as_of=31/03/2024",
			setupMock:      func(m *mockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown report",
			path: "/reports/nope",
			setupMock: func(m *mockService) {
				m.On("Run", mock.Anything, "nope", today).
					Return(domain.Report{}, fmt.Errorf("%w: %q", reports.ErrUnknownReport, "nope"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "source unavailable",
			path: "/reports/regional-comparison",
			setupMock: func(m *mockService) {
				m.On("Run", mock.Anything, reports.RegionalComparisonName, today).
					Return(domain.Report{}, fmt.Errorf("load: %w", storesql.ErrSourceUnavailable))
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockService)
			tt.setupMock(service)
			router := setupRouter(service)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			service.AssertExpectations(t)

			if tt.expectedStatus != http.StatusOK {
				var response api.Error
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.NotEmpty(t, response.Error)
				return
			}

			var response struct {
				Name string           `json:"name"`
				Rows []map[string]any `json:"rows"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, reports.RegionalComparisonName, response.Name)
			require.Len(t, response.Rows, 1)
			assert.Equal(t, "40", response.Rows[0]["revenue_contribution_percent"])
			assert.Nil(t, response.Rows[0]["avg_transaction_value"])
		})
	}
}

func TestGetQualityProfile(t *testing.T) {
	service := new(mockService)
	service.On("Profile", mock.Anything, today).Return([]domain.TableProfile{
		{Table: "sales_transactions", RecordCount: 10, DuplicateIDs: 1, NullCounts: map[string]int{"product_id": 2}},
	}, nil)
	router := setupRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/quality/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []api.TableProfile
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, []api.TableProfile{
		{Table: "sales_transactions", RecordCount: 10, DuplicateIDs: 1, NullCounts: map[string]int{"product_id": 2}},
	}, response)
}

func TestGetReport_DefaultAsOfIsUTCDay(t *testing.T) {
	// 21:00 on June 30 at UTC-5 is already July 1 in UTC
	eastern := time.FixedZone("UTC-5", -5*60*60)
	service := new(mockService)
	service.On("Run", mock.Anything, reports.MonthlyRevenueName, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)).
		Return(domain.Report{Name: reports.MonthlyRevenueName, Rows: []domain.MonthlyRevenueRow{}}, nil)

	h := NewHandler(service)
	h.now = func() time.Time { return time.Date(2024, 6, 30, 21, 0, 0, 0, eastern) }
	router := chi.NewRouter()
	router.Get("/reports/{report}", h.GetReport)

	req := httptest.NewRequest(http.MethodGet, "/reports/"+reports.MonthlyRevenueName, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}
