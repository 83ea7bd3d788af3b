package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/gym-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/gym-manager-api/internal/config"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func testConfig() *config.Config {
	return &config.Config{
		Reports: config.Reports{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
	}
}

func newTestService(leadRepo *mocks.MockLeadRepository, snapshotRepo *mocks.MockMonthlySnapshotRepository, now time.Time) *Service {
	return &Service{
		cfg:          testConfig(),
		leadRepo:     leadRepo,
		snapshotRepo: snapshotRepo,
		now:          func() time.Time { return now },
	}
}

func TestService_GetMonthlyReport_OpenMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLeadRepo := mocks.NewMockLeadRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockMonthlySnapshotRepository(ctrl)

	now := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	service := newTestService(mockLeadRepo, mockSnapshotRepo, now)

	leads := []*domain.Lead{
		{
			ID:          "LEAD01",
			Name:        "Mariana Souza",
			Status:      domain.StatusConverted,
			ConvertedAt: timePtr(time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)),
			Membership:  &domain.Membership{PlanLabel: "Mensal", Amount: 120},
		},
		{
			ID:          "LEAD02",
			Name:        "Carlos Pereira",
			Status:      domain.StatusConverted,
			ConvertedAt: timePtr(time.Date(2025, 10, 12, 9, 0, 0, 0, time.UTC)),
			Membership:  &domain.Membership{PlanLabel: "Anual", Amount: 990},
		},
		{
			// Convertido em setembro: fora da janela de outubro
			ID:          "LEAD03",
			Name:        "Juliana Lima",
			Status:      domain.StatusConverted,
			ConvertedAt: timePtr(time.Date(2025, 9, 28, 9, 0, 0, 0, time.UTC)),
		},
	}

	mockSnapshotRepo.EXPECT().
		GetByPeriod(domain.ReportKindNewMembers, 2025, 10).
		Return(nil, nil)

	mockLeadRepo.EXPECT().
		GetByStatus(domain.StatusConverted).
		Return(leads, nil)

	var saved *domain.MonthlySnapshot
	mockSnapshotRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(s *domain.MonthlySnapshot) error {
			saved = s
			return nil
		})

	report, err := service.GetMonthlyReport(domain.ReportKindNewMembers, 2025, 10, 1, 20)

	assert.NoError(t, err)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 1, report.TotalPages)
	assert.False(t, report.IsArchived)

	// Ordenação do mais recente para o mais antigo
	assert.Equal(t, "LEAD02", report.Data[0].LeadID)
	assert.Equal(t, "LEAD01", report.Data[1].LeadID)

	// Matrícula desnormalizada na entrada
	assert.NotNil(t, report.Data[0].Membership)
	assert.Equal(t, 990.0, report.Data[0].Membership.Amount)

	// Snapshot provisório persistido com as mesmas entradas
	assert.NotNil(t, saved)
	assert.Equal(t, 2, saved.TotalCount)
	assert.False(t, saved.IsArchived)
}

func TestService_GetMonthlyReport_FrozenMonthServesSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLeadRepo := mocks.NewMockLeadRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockMonthlySnapshotRepository(ctrl)

	now := time.Date(2025, 11, 10, 8, 0, 0, 0, time.UTC)
	service := newTestService(mockLeadRepo, mockSnapshotRepo, now)

	archivedAt := time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC)
	frozen := &domain.MonthlySnapshot{
		ID:    7,
		Kind:  domain.ReportKindNewMembers,
		Year:  2025,
		Month: 10,
		Leads: []domain.LeadSnapshotEntry{
			{LeadID: "LEAD02", Name: "Carlos Pereira"},
			{LeadID: "LEAD01", Name: "Mariana Souza"},
			{LeadID: "LEAD09", Name: "Pedro Santos"},
		},
		TotalCount: 3,
		IsArchived: true,
		ArchivedAt: &archivedAt,
	}

	// Mês congelado não consulta os leads: nenhuma expectativa no leadRepo
	mockSnapshotRepo.EXPECT().
		GetByPeriod(domain.ReportKindNewMembers, 2025, 10).
		Return(frozen, nil)

	report, err := service.GetMonthlyReport(domain.ReportKindNewMembers, 2025, 10, 2, 2)

	assert.NoError(t, err)
	assert.True(t, report.IsArchived)
	assert.Equal(t, &archivedAt, report.ArchivedAt)
	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 2, report.TotalPages)

	// Segunda página da ordem armazenada
	assert.Len(t, report.Data, 1)
	assert.Equal(t, "LEAD09", report.Data[0].LeadID)
}

func TestService_GetMonthlyReport_InvalidParams(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLeadRepo := mocks.NewMockLeadRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockMonthlySnapshotRepository(ctrl)
	service := newTestService(mockLeadRepo, mockSnapshotRepo, time.Now())

	tests := []struct {
		name    string
		year    int
		month   int
		page    int
		limit   int
		wantErr error
	}{
		{"Mês inválido", 2025, 13, 1, 20, ErrInvalidPeriod},
		{"Página zero", 2025, 10, 0, 20, ErrInvalidPagination},
		{"Limite zero", 2025, 10, 1, 0, ErrInvalidPagination},
		{"Limite acima do máximo", 2025, 10, 1, 500, ErrInvalidPagination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.GetMonthlyReport(domain.ReportKindNewMembers, tt.year, tt.month, tt.page, tt.limit)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestService_ArchiveMonth_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLeadRepo := mocks.NewMockLeadRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockMonthlySnapshotRepository(ctrl)

	now := time.Date(2025, 11, 15, 9, 0, 0, 0, time.UTC)
	service := newTestService(mockLeadRepo, mockSnapshotRepo, now)

	archivedAt := time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC)
	frozen := &domain.MonthlySnapshot{
		ID:         7,
		Kind:       domain.ReportKindNewMembers,
		Year:       2025,
		Month:      10,
		TotalCount: 42,
		IsArchived: true,
		ArchivedAt: &archivedAt,
	}

	// Rearquivar não reagrega nem reescreve: só GetByPeriod é esperado
	mockSnapshotRepo.EXPECT().
		GetByPeriod(domain.ReportKindNewMembers, 2025, 10).
		Return(frozen, nil)

	summary, err := service.ArchiveMonth(domain.ReportKindNewMembers, 2025, 10)

	assert.NoError(t, err)
	assert.Equal(t, 42, summary.TotalCount)
	assert.Equal(t, archivedAt, summary.ArchivedAt)
}

func TestService_ArchiveMonth_FirstSeenWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLeadRepo := mocks.NewMockLeadRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockMonthlySnapshotRepository(ctrl)

	now := time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC)
	service := newTestService(mockLeadRepo, mockSnapshotRepo, now)

	// Snapshot provisório capturou LEAD01 em outubro, mas o lead regrediu de
	// estado depois e não casa mais com a agregação final
	provisional := &domain.MonthlySnapshot{
		ID:    3,
		Kind:  domain.ReportKindNewMembers,
		Year:  2025,
		Month: 10,
		Leads: []domain.LeadSnapshotEntry{
			{LeadID: "LEAD01", Name: "Mariana Souza"},
		},
		TotalCount: 1,
	}

	mockSnapshotRepo.EXPECT().
		GetByPeriod(domain.ReportKindNewMembers, 2025, 10).
		Return(provisional, nil)

	mockLeadRepo.EXPECT().
		GetByStatus(domain.StatusConverted).
		Return([]*domain.Lead{
			{
				ID:          "LEAD02",
				Name:        "Carlos Pereira",
				Status:      domain.StatusConverted,
				ConvertedAt: timePtr(time.Date(2025, 10, 12, 9, 0, 0, 0, time.UTC)),
			},
		}, nil)

	var saved *domain.MonthlySnapshot
	mockSnapshotRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		DoAndReturn(func(s *domain.MonthlySnapshot) error {
			saved = s
			return nil
		})

	summary, err := service.ArchiveMonth(domain.ReportKindNewMembers, 2025, 10)

	assert.NoError(t, err)
	assert.Equal(t, 2, summary.TotalCount)

	// A entrada já vista permanece no arquivo junto do resultado final
	assert.NotNil(t, saved)
	assert.True(t, saved.IsArchived)
	assert.True(t, saved.Contains("LEAD01"))
	assert.True(t, saved.Contains("LEAD02"))
}

func TestService_ArchivePreviousMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLeadRepo := mocks.NewMockLeadRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockMonthlySnapshotRepository(ctrl)

	// Primeiro de novembro: o mês anterior é outubro
	now := time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC)
	service := newTestService(mockLeadRepo, mockSnapshotRepo, now)

	mockSnapshotRepo.EXPECT().
		GetByPeriod(domain.ReportKindNewMembers, 2025, 10).
		Return(nil, nil)
	mockSnapshotRepo.EXPECT().
		GetByPeriod(domain.ReportKindTrialAttended, 2025, 10).
		Return(nil, nil)

	mockLeadRepo.EXPECT().
		GetByStatus(domain.StatusConverted).
		Return([]*domain.Lead{}, nil)
	mockLeadRepo.EXPECT().
		GetByStatus(domain.StatusTrialAttended).
		Return([]*domain.Lead{}, nil)

	mockSnapshotRepo.EXPECT().
		SaveOrUpdate(gomock.Any()).
		Return(nil).
		Times(2)

	summaries, err := service.ArchivePreviousMonth()

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, domain.ReportKindNewMembers, summaries[0].Kind)
	assert.Equal(t, domain.ReportKindTrialAttended, summaries[1].Kind)
	assert.Equal(t, 10, summaries[0].Month)
}

func TestService_MonthlyRevenue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLeadRepo := mocks.NewMockLeadRepository(ctrl)
	mockSnapshotRepo := mocks.NewMockMonthlySnapshotRepository(ctrl)

	now := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	service := newTestService(mockLeadRepo, mockSnapshotRepo, now)

	mockLeadRepo.EXPECT().
		GetByStatus(domain.StatusConverted).
		Return([]*domain.Lead{
			{
				ID:          "LEAD01",
				Status:      domain.StatusConverted,
				ConvertedAt: timePtr(time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)),
				Membership:  &domain.Membership{Amount: 120},
			},
			{
				ID:          "LEAD02",
				Status:      domain.StatusConverted,
				ConvertedAt: timePtr(time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC)),
				Membership:  &domain.Membership{Amount: 990},
			},
			{
				// Convertido sem matrícula registrada: conta no total, sem receita
				ID:          "LEAD03",
				Status:      domain.StatusConverted,
				ConvertedAt: timePtr(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)),
			},
		}, nil)

	revenue, count, err := service.MonthlyRevenue(2025, 10)

	assert.NoError(t, err)
	assert.Equal(t, 1110.0, revenue)
	assert.Equal(t, 3, count)
}

func TestEffectiveTimestamp(t *testing.T) {
	created := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2025, 10, 8, 0, 0, 0, 0, time.UTC)
	converted := time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC)
	attended := time.Date(2025, 10, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		kind domain.ReportKind
		lead *domain.Lead
		want time.Time
	}{
		{
			name: "Novos membros usam a data de conversão",
			kind: domain.ReportKindNewMembers,
			lead: &domain.Lead{ConvertedAt: &converted, CreatedAt: created},
			want: converted,
		},
		{
			name: "Sem data de conversão cai na criação",
			kind: domain.ReportKindNewMembers,
			lead: &domain.Lead{CreatedAt: created, UpdatedAt: updated},
			want: created,
		},
		{
			name: "Aula experimental usa a data da aula",
			kind: domain.ReportKindTrialAttended,
			lead: &domain.Lead{TrialAttendedAt: &attended, CreatedAt: created, UpdatedAt: updated},
			want: attended,
		},
		{
			name: "Sem data da aula cai na última atualização",
			kind: domain.ReportKindTrialAttended,
			lead: &domain.Lead{CreatedAt: created, UpdatedAt: updated},
			want: updated,
		},
		{
			name: "Sem nenhuma data cai na criação",
			kind: domain.ReportKindTrialAttended,
			lead: &domain.Lead{CreatedAt: created},
			want: created,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, effectiveTimestamp(tt.kind, tt.lead))
		})
	}
}
