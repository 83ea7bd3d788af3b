package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/gym-manager-api/internal/domain"
)

// fakeReporter registra as chamadas de arquivamento feitas pelo agendador
type fakeReporter struct {
	summaries []*domain.ArchiveSummary
	err       error
	calls     int
}

func (f *fakeReporter) ArchivePreviousMonth() ([]*domain.ArchiveSummary, error) {
	f.calls++
	return f.summaries, f.err
}

func (f *fakeReporter) GetMonthlyReport(kind domain.ReportKind, year, month, page, limit int) (*domain.MonthlyReportPage, error) {
	return nil, nil
}

func (f *fakeReporter) ArchiveMonth(kind domain.ReportKind, year, month int) (*domain.ArchiveSummary, error) {
	return nil, nil
}

func (f *fakeReporter) MonthlyRevenue(year, month int) (float64, int, error) {
	return 0, 0, nil
}

func newTestArchiveService(reporter *fakeReporter) *MonthlyArchiveService {
	return &MonthlyArchiveService{
		scheduler: gocron.NewScheduler(time.UTC),
		config: MonthlyArchiveConfig{
			CronSchedule: "0 5 1 * *",
			Enabled:      false,
		},
		reporter: reporter,
	}
}

func TestMonthlyArchiveService_archivePreviousMonth(t *testing.T) {
	reporter := &fakeReporter{
		summaries: []*domain.ArchiveSummary{
			{Kind: domain.ReportKindNewMembers, Year: 2025, Month: 10, TotalCount: 12},
			{Kind: domain.ReportKindTrialAttended, Year: 2025, Month: 10, TotalCount: 7},
		},
	}
	service := newTestArchiveService(reporter)

	service.archivePreviousMonth()

	assert.Equal(t, 1, reporter.calls)

	status := service.GetStatus()
	assert.Equal(t, false, status["running"])
	assert.Equal(t, "", status["last_run_error"])
	assert.False(t, status["last_run_completed_at"].(time.Time).IsZero())
}

func TestMonthlyArchiveService_archivePreviousMonthError(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("banco indisponível")}
	service := newTestArchiveService(reporter)

	service.archivePreviousMonth()

	status := service.GetStatus()
	assert.Equal(t, false, status["running"])
	assert.Equal(t, "banco indisponível", status["last_run_error"])
}

func TestMonthlyArchiveService_StartDisabled(t *testing.T) {
	reporter := &fakeReporter{}
	service := newTestArchiveService(reporter)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Desabilitado por configuração: Start não agenda nada nem dispara execuções
	err := service.Start(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, reporter.calls)
}

func TestMonthlyArchiveService_GetStatus(t *testing.T) {
	service := newTestArchiveService(&fakeReporter{})

	status := service.GetStatus()
	assert.Equal(t, "0 5 1 * *", status["cron"])
	assert.Equal(t, false, status["enabled"])
	assert.Equal(t, false, status["running"])
}
