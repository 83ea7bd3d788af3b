package leads

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/gym-manager-api/infrastructure/repository"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
	"github.com/vfg2006/gym-manager-api/pkg/utils"
)

// LeadService define as operações de captação e acompanhamento de leads
type LeadService interface {
	CreateLead(lead *domain.Lead) (*domain.Lead, error)
	UpdateLead(req *domain.UpdateLeadRequest) (*domain.Lead, error)
	GetLead(id string) (*domain.Lead, error)
	ListLeads(status *string) ([]*domain.Lead, error)
}

type Service struct {
	leadRepo repository.LeadRepository
	now      func() time.Time
}

// NewService cria uma nova instância do serviço de leads
func NewService(leadRepo repository.LeadRepository) LeadService {
	return &Service{
		leadRepo: leadRepo,
		now:      time.Now,
	}
}

// CreateLead registra um novo lead da recepção com um ID opaco gerado
func (s *Service) CreateLead(lead *domain.Lead) (*domain.Lead, error) {
	if lead.Name == "" {
		return nil, NewLeadError(ErrNameRequired, apiErrors.ErrMissingRequiredData, "Nome é obrigatório")
	}

	if lead.Phone == "" {
		return nil, NewLeadError(ErrPhoneRequired, apiErrors.ErrMissingRequiredData, "Telefone é obrigatório")
	}

	if lead.Status == "" {
		lead.Status = domain.StatusNew
	} else if _, ok := domain.ParseLeadStatus(string(lead.Status)); !ok {
		return nil, NewLeadError(ErrInvalidStatus, apiErrors.ErrInvalidFormat, string(lead.Status))
	}

	id, err := utils.GenerateID()
	if err != nil {
		return nil, NewLeadError(ErrGenerateID, apiErrors.ErrInternalServer, err.Error())
	}
	lead.ID = id

	if err := s.leadRepo.Create(lead); err != nil {
		return nil, NewLeadError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"status":  lead.Status,
		"source":  lead.Source,
	}).Info("Lead criado")

	return lead, nil
}

// UpdateLead aplica uma atualização parcial a um lead. Transições de estado
// carimbam converted_at / trial_attended_at na primeira passagem pelo estado.
func (s *Service) UpdateLead(req *domain.UpdateLeadRequest) (*domain.Lead, error) {
	if req.ID == "" {
		return nil, NewLeadError(ErrLeadIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	lead, err := s.leadRepo.GetByID(req.ID)
	if err != nil {
		return nil, NewLeadErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, req.ID, err.Error())
	}

	if lead == nil {
		return nil, NewLeadErrorWithID(ErrLeadNotFound, apiErrors.ErrInvalidRequest, req.ID, "")
	}

	if req.Name != nil {
		lead.Name = *req.Name
	}

	if req.Phone != nil {
		lead.Phone = *req.Phone
	}

	if req.Email != nil {
		lead.Email = *req.Email
	}

	if req.Interest != nil {
		lead.Interest = *req.Interest
	}

	if req.Plan != nil {
		lead.Plan = *req.Plan
	}

	if req.Source != nil {
		lead.Source = *req.Source
	}

	if req.Membership != nil {
		if req.Membership.Amount < 0 {
			return nil, NewLeadErrorWithID(ErrMembershipAmount, apiErrors.ErrInvalidFormat, req.ID, "")
		}
		lead.Membership = req.Membership
	}

	if req.Status != nil {
		status, ok := domain.ParseLeadStatus(*req.Status)
		if !ok {
			return nil, NewLeadErrorWithID(ErrInvalidStatus, apiErrors.ErrInvalidFormat, req.ID, *req.Status)
		}
		s.applyStatus(lead, status)
	}

	if err := s.leadRepo.Update(lead); err != nil {
		return nil, NewLeadErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, req.ID, err.Error())
	}

	return lead, nil
}

// applyStatus muda o estado do funil carimbando os timestamps efetivos.
// O carimbo só acontece na primeira entrada no estado, para que edições
// posteriores não mudem o mês a que o lead pertence.
func (s *Service) applyStatus(lead *domain.Lead, status domain.LeadStatus) {
	if lead.Status == status {
		return
	}

	now := s.now().UTC()
	lead.Status = status

	switch status {
	case domain.StatusConverted:
		if lead.ConvertedAt == nil {
			lead.ConvertedAt = &now
		}
	case domain.StatusTrialAttended:
		if lead.TrialAttendedAt == nil {
			lead.TrialAttendedAt = &now
		}
	}
}

// GetLead busca um lead pelo ID
func (s *Service) GetLead(id string) (*domain.Lead, error) {
	if id == "" {
		return nil, NewLeadError(ErrLeadIDRequired, apiErrors.ErrMissingRequiredData, "")
	}

	lead, err := s.leadRepo.GetByID(id)
	if err != nil {
		return nil, NewLeadErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, err.Error())
	}

	if lead == nil {
		return nil, NewLeadErrorWithID(ErrLeadNotFound, apiErrors.ErrInvalidRequest, id, "")
	}

	return lead, nil
}

// ListLeads lista todos os leads, opcionalmente filtrados por estado do funil
func (s *Service) ListLeads(status *string) ([]*domain.Lead, error) {
	var statusFilter *domain.LeadStatus

	if status != nil && *status != "" {
		parsed, ok := domain.ParseLeadStatus(*status)
		if !ok {
			return nil, NewLeadError(ErrInvalidStatus, apiErrors.ErrInvalidFormat, *status)
		}
		statusFilter = &parsed
	}

	leadsList, err := s.leadRepo.List(statusFilter)
	if err != nil {
		return nil, NewLeadError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}

	return leadsList, nil
}
