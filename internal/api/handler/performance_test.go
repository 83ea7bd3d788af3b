package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/gym-manager-api/internal/usecases/tracking"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
)

type stubTracker struct {
	summary *domain.PerformanceSummary
	history *domain.TargetHistoryResponse
	err     error
}

func (s *stubTracker) SetTarget(year, month int, target float64) (*domain.PerformanceSummary, error) {
	return s.summary, s.err
}

func (s *stubTracker) GetPerformance(year, month int) (*domain.PerformanceSummary, error) {
	return s.summary, s.err
}

func (s *stubTracker) GetTargetHistory() (*domain.TargetHistoryResponse, error) {
	return s.history, s.err
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	return apiErr
}

func TestGetMonthlyPerformance_InvalidMonthReturnsBadRequest(t *testing.T) {
	// Erros de validação de período nascem no agregador de relatórios e
	// precisam virar 400, não 500
	service := &stubTracker{
		err: reporting.NewReportingError(reporting.ErrInvalidPeriod, "", "mês deve estar entre 1 e 12"),
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/performance?year=2025&month=13", nil)
	rec := httptest.NewRecorder()

	GetMonthlyPerformance(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidPeriod, decodeAPIError(t, rec).Code)
}

func TestSetMonthlyTarget_InvalidMonthReturnsBadRequest(t *testing.T) {
	service := &stubTracker{
		err: reporting.NewReportingError(reporting.ErrInvalidPeriod, "", "mês deve estar entre 1 e 12"),
	}

	body := strings.NewReader(`{"year":2025,"month":13,"target":5000}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/performance/target", body)
	rec := httptest.NewRecorder()

	SetMonthlyTarget(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidPeriod, decodeAPIError(t, rec).Code)
}

func TestSetMonthlyTarget_NegativeTargetReturnsBadRequest(t *testing.T) {
	service := &stubTracker{
		err: tracking.NewTrackingError(tracking.ErrNegativeTarget, "", ""),
	}

	body := strings.NewReader(`{"year":2025,"month":10,"target":-100}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/performance/target", body)
	rec := httptest.NewRecorder()

	SetMonthlyTarget(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrNegativeTarget, decodeAPIError(t, rec).Code)
}
