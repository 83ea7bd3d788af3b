package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/gym-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func newTestService(repo *mocks.MockLeadRepository, now time.Time) *Service {
	return &Service{
		leadRepo: repo,
		now:      func() time.Time { return now },
	}
}

func TestService_CreateLead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLeadRepository(ctrl)
	service := newTestService(mockRepo, time.Now())

	tests := []struct {
		name    string
		lead    *domain.Lead
		setup   func()
		wantErr error
	}{
		{
			name: "Lead válido recebe ID e estado inicial",
			lead: &domain.Lead{Name: "Mariana Souza", Phone: "+55 48 99911-0001"},
			setup: func() {
				mockRepo.EXPECT().
					Create(gomock.Any()).
					DoAndReturn(func(lead *domain.Lead) error {
						assert.NotEmpty(t, lead.ID)
						assert.Len(t, lead.ID, 6)
						assert.Equal(t, domain.StatusNew, lead.Status)
						return nil
					})
			},
		},
		{
			name:    "Nome obrigatório",
			lead:    &domain.Lead{Phone: "+55 48 99911-0001"},
			setup:   func() {},
			wantErr: ErrNameRequired,
		},
		{
			name:    "Telefone obrigatório",
			lead:    &domain.Lead{Name: "Mariana Souza"},
			setup:   func() {},
			wantErr: ErrPhoneRequired,
		},
		{
			name:    "Estado fora da enumeração é rejeitado",
			lead:    &domain.Lead{Name: "Mariana Souza", Phone: "+55 48 99911-0001", Status: "Ghost"},
			setup:   func() {},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			created, err := service.CreateLead(tt.lead)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, created.ID)
		})
	}
}

func TestService_UpdateLead_StampsTimestampsOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLeadRepository(ctrl)

	now := time.Date(2025, 10, 20, 10, 0, 0, 0, time.UTC)
	service := newTestService(mockRepo, now)

	// Primeira conversão carimba converted_at com o relógio do serviço
	mockRepo.EXPECT().
		GetByID("LEAD01").
		Return(&domain.Lead{ID: "LEAD01", Name: "Mariana Souza", Status: domain.StatusQualified}, nil)
	mockRepo.EXPECT().Update(gomock.Any()).Return(nil)

	updated, err := service.UpdateLead(&domain.UpdateLeadRequest{
		ID:     "LEAD01",
		Status: stringPtr(string(domain.StatusConverted)),
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.StatusConverted, updated.Status)
	assert.Equal(t, &now, updated.ConvertedAt)

	// Lead que já converteu no passado mantém o carimbo original mesmo
	// voltando ao estado depois de uma regressão
	original := time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)
	mockRepo.EXPECT().
		GetByID("LEAD02").
		Return(&domain.Lead{
			ID:          "LEAD02",
			Name:        "Carlos Pereira",
			Status:      domain.StatusLost,
			ConvertedAt: timePtr(original),
		}, nil)
	mockRepo.EXPECT().Update(gomock.Any()).Return(nil)

	updated, err = service.UpdateLead(&domain.UpdateLeadRequest{
		ID:     "LEAD02",
		Status: stringPtr(string(domain.StatusConverted)),
	})

	assert.NoError(t, err)
	assert.Equal(t, &original, updated.ConvertedAt)
}

func TestService_UpdateLead_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLeadRepository(ctrl)
	service := newTestService(mockRepo, time.Now())

	// ID obrigatório
	_, err := service.UpdateLead(&domain.UpdateLeadRequest{})
	assert.ErrorIs(t, err, ErrLeadIDRequired)

	// Lead inexistente
	mockRepo.EXPECT().GetByID("NOPE01").Return(nil, nil)
	_, err = service.UpdateLead(&domain.UpdateLeadRequest{ID: "NOPE01"})
	assert.ErrorIs(t, err, ErrLeadNotFound)

	// Matrícula com valor negativo
	mockRepo.EXPECT().
		GetByID("LEAD01").
		Return(&domain.Lead{ID: "LEAD01", Name: "Mariana Souza"}, nil)
	_, err = service.UpdateLead(&domain.UpdateLeadRequest{
		ID:         "LEAD01",
		Membership: &domain.Membership{Amount: -10},
	})
	assert.ErrorIs(t, err, ErrMembershipAmount)
}

func TestService_ListLeads(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockLeadRepository(ctrl)
	service := newTestService(mockRepo, time.Now())

	// Sem filtro
	mockRepo.EXPECT().List(nil).Return([]*domain.Lead{{ID: "LEAD01"}}, nil)
	result, err := service.ListLeads(nil)
	assert.NoError(t, err)
	assert.Len(t, result, 1)

	// Filtro válido é convertido para o tipo do domínio
	converted := domain.StatusConverted
	mockRepo.EXPECT().List(&converted).Return([]*domain.Lead{}, nil)
	result, err = service.ListLeads(stringPtr("Converted"))
	assert.NoError(t, err)
	assert.Empty(t, result)

	// Filtro fora da enumeração é rejeitado sem consultar o banco
	_, err = service.ListLeads(stringPtr("Ghost"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
