package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
)

type stubReporter struct {
	summary      *domain.ArchiveSummary
	summaries    []*domain.ArchiveSummary
	err          error
	archiveKind  domain.ReportKind
	archiveYear  int
	archiveMonth int
	archiveCalls int
}

func (s *stubReporter) GetMonthlyReport(kind domain.ReportKind, year, month, page, limit int) (*domain.MonthlyReportPage, error) {
	return nil, s.err
}

func (s *stubReporter) ArchiveMonth(kind domain.ReportKind, year, month int) (*domain.ArchiveSummary, error) {
	s.archiveCalls++
	s.archiveKind = kind
	s.archiveYear = year
	s.archiveMonth = month
	return s.summary, s.err
}

func (s *stubReporter) ArchivePreviousMonth() ([]*domain.ArchiveSummary, error) {
	return s.summaries, s.err
}

func (s *stubReporter) MonthlyRevenue(year, month int) (float64, int, error) {
	return 0, 0, s.err
}

func TestArchiveMonthlyReport_ReadsPeriodFromBody(t *testing.T) {
	service := &stubReporter{
		summary: &domain.ArchiveSummary{
			Kind:       domain.ReportKindNewMembers,
			Year:       2025,
			Month:      10,
			TotalCount: 7,
			ArchivedAt: time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC),
		},
	}

	body := strings.NewReader(`{"year":2025,"month":10}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/reports/new-members/archive", body)
	rec := httptest.NewRecorder()

	ArchiveMonthlyReport(service, domain.ReportKindNewMembers).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, service.archiveCalls)
	assert.Equal(t, domain.ReportKindNewMembers, service.archiveKind)
	assert.Equal(t, 2025, service.archiveYear)
	assert.Equal(t, 10, service.archiveMonth)
	assert.Contains(t, rec.Body.String(), `"total_count":7`)
}

func TestArchiveMonthlyReport_MalformedBodyReturnsBadRequest(t *testing.T) {
	service := &stubReporter{}

	body := strings.NewReader(`{"year":`)
	req := httptest.NewRequest(http.MethodPost, "/v1/reports/new-members/archive", body)
	rec := httptest.NewRecorder()

	ArchiveMonthlyReport(service, domain.ReportKindNewMembers).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidRequest, decodeAPIError(t, rec).Code)
	assert.Zero(t, service.archiveCalls)
}

func TestArchiveMonthlyReport_MissingPeriodReturnsBadRequest(t *testing.T) {
	// Campos ausentes chegam zerados ao serviço, que rejeita o período
	service := &stubReporter{
		err: reporting.NewReportingError(reporting.ErrInvalidPeriod, "", "mês deve estar entre 1 e 12"),
	}

	body := strings.NewReader(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/reports/trial-attended/archive", body)
	rec := httptest.NewRecorder()

	ArchiveMonthlyReport(service, domain.ReportKindTrialAttended).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apiErrors.ErrInvalidPeriod, decodeAPIError(t, rec).Code)
	assert.Equal(t, 0, service.archiveYear)
	assert.Equal(t, 0, service.archiveMonth)
}
