package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vfg2006/gym-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/gym-manager-api/internal/usecases/tracking"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
	"github.com/vfg2006/gym-manager-api/pkg/log"
)

// setTargetRequest é o corpo do comando de definição de meta mensal
type setTargetRequest struct {
	Year   int     `json:"year"`
	Month  int     `json:"month"`
	Target float64 `json:"target"`
}

// writeTrackingError converte o erro do serviço no envelope da API. Erros de
// validação de período nascem no agregador de relatórios, então o tipo de lá
// também precisa ser reconhecido antes do fallback para erro interno.
func writeTrackingError(w http.ResponseWriter, err error) {
	code := apiErrors.ErrInternalServer
	var trkErr *tracking.TrackingError
	var repErr *reporting.ReportingError
	switch {
	case errors.As(err, &trkErr):
		code = trkErr.Code
	case errors.As(err, &repErr):
		code = repErr.Code
	}
	apiErrors.WriteError(w, code, err.Error(), nil)
}

// GetMonthlyPerformance retorna meta e realização do mês informado
func GetMonthlyPerformance(service tracking.Tracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		year, month, err := parsePeriodParams(r)
		if err != nil {
			logger.WithError(err).Warn("performance: parâmetros de período inválidos")
			writeReportingError(w, err)
			return
		}

		logger.WithFields(log.Fields{
			"year":  year,
			"month": month,
		}).Info("performance: buscando desempenho mensal")

		summary, err := service.GetPerformance(year, month)
		if err != nil {
			logger.WithError(err).WithFields(log.Fields{
				"year":  year,
				"month": month,
			}).Error("performance: erro ao buscar desempenho mensal")

			writeTrackingError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logger.WithError(err).Error("performance: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// SetMonthlyTarget define a meta de receita do mês e anexa a mudança ao
// histórico de metas
func SetMonthlyTarget(service tracking.Tracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req setTargetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("performance: corpo da requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		logger.WithFields(log.Fields{
			"year":   req.Year,
			"month":  req.Month,
			"target": req.Target,
		}).Info("performance: definindo meta mensal")

		summary, err := service.SetTarget(req.Year, req.Month, req.Target)
		if err != nil {
			logger.WithError(err).WithFields(log.Fields{
				"year":  req.Year,
				"month": req.Month,
			}).Error("performance: erro ao definir meta mensal")

			writeTrackingError(w, err)
			return
		}

		logger.WithFields(log.Fields{
			"year":   summary.Year,
			"month":  summary.Month,
			"target": summary.Target,
		}).Info("performance: meta mensal definida com sucesso")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logger.WithError(err).Error("performance: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// GetTargetHistory retorna o histórico completo de metas de todos os meses
func GetTargetHistory(service tracking.Tracker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("performance: buscando histórico de metas")

		history, err := service.GetTargetHistory()
		if err != nil {
			logger.WithError(err).Error("performance: erro ao buscar histórico de metas")
			writeTrackingError(w, err)
			return
		}

		logger.WithField("total_months", len(history.History)).Info("performance: histórico recuperado com sucesso")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(history); err != nil {
			logger.WithError(err).Error("performance: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
