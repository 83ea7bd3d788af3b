package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/usecases/leads"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
)

func writeLeadError(w http.ResponseWriter, err error, fallback string) {
	var leadErr *leads.LeadError
	if errors.As(err, &leadErr) {
		apiErrors.WriteError(w, leadErr.Code, leadErr.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, leads.ErrLeadNotFound):
		apiErrors.WriteError(w, apiErrors.ErrUserNotFound, "Lead não encontrado", nil)
	case errors.Is(err, leads.ErrDatabaseOperation):
		apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar leads no banco de dados", nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
	}
}

// ListLeads lista os leads cadastrados, com filtro opcional por status
func ListLeads(service leads.LeadService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var statusFilter *string
		if status := r.URL.Query().Get("status"); status != "" {
			statusFilter = &status
		}

		result, err := service.ListLeads(statusFilter)
		if err != nil {
			logrus.Error("Erro ao listar leads:", err)
			writeLeadError(w, err, "Erro ao listar leads")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// CreateLead registra um novo lead vindo da recepção
func CreateLead(service leads.LeadService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateLead")

		w.Header().Set("Content-Type", "application/json")

		var lead domain.Lead
		if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		created, err := service.CreateLead(&lead)
		if err != nil {
			logrus.Error("Erro ao criar lead:", err)
			writeLeadError(w, err, "Erro ao criar lead")
			return
		}

		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(created); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// GetLead retorna um lead pelo ID
func GetLead(service leads.LeadService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do lead é obrigatório", nil)
			return
		}

		lead, err := service.GetLead(id)
		if err != nil {
			logrus.Error("Erro ao buscar lead:", err)
			writeLeadError(w, err, "Erro ao buscar lead")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lead); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}

// UpdateLead aplica uma atualização parcial a um lead existente
func UpdateLead(service leads.LeadService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateLead")

		w.Header().Set("Content-Type", "application/json")

		id := httprouter.ParamsFromContext(r.Context()).ByName("id")
		if id == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "ID do lead é obrigatório", nil)
			return
		}

		var updateRequest domain.UpdateLeadRequest
		if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido: "+err.Error(), nil)
			return
		}

		// Garante que o ID da URL seja usado
		updateRequest.ID = id

		updated, err := service.UpdateLead(&updateRequest)
		if err != nil {
			logrus.Error("Erro ao atualizar lead:", err)
			writeLeadError(w, err, "Erro ao atualizar lead")
			return
		}

		if err := json.NewEncoder(w).Encode(updated); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		}
	})
}
