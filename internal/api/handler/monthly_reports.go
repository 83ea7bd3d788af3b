package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
	"github.com/vfg2006/gym-manager-api/pkg/log"
)

// archiveReportRequest é o corpo do comando de arquivamento de um mês
type archiveReportRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// parsePeriodParams lê e valida os parâmetros year e month da query string
func parsePeriodParams(r *http.Request) (int, int, error) {
	yearParam := r.URL.Query().Get("year")
	monthParam := r.URL.Query().Get("month")

	if yearParam == "" || monthParam == "" {
		return 0, 0, reporting.NewReportingError(
			reporting.ErrInvalidPeriod, "", "é necessário informar mês e ano nos parâmetros",
		)
	}

	year, err := strconv.Atoi(yearParam)
	if err != nil {
		return 0, 0, reporting.NewReportingError(
			reporting.ErrInvalidPeriod, "", "ano inválido. Use formato numérico (ex: 2025)",
		)
	}

	month, err := strconv.Atoi(monthParam)
	if err != nil {
		return 0, 0, reporting.NewReportingError(
			reporting.ErrInvalidPeriod, "", "mês inválido. Use um número entre 1 e 12",
		)
	}

	return year, month, nil
}

// parsePaginationParams lê page e limit da query string, com padrões quando ausentes
func parsePaginationParams(r *http.Request, defaultLimit int) (int, int, error) {
	page := 1
	limit := defaultLimit

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		parsed, err := strconv.Atoi(pageParam)
		if err != nil || parsed < 1 {
			return 0, 0, reporting.NewReportingError(
				reporting.ErrInvalidPagination, "", "page deve ser um inteiro maior ou igual a 1",
			)
		}
		page = parsed
	}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 1 {
			return 0, 0, reporting.NewReportingError(
				reporting.ErrInvalidPagination, "", "limit deve ser um inteiro maior ou igual a 1",
			)
		}
		limit = parsed
	}

	return page, limit, nil
}

func writeReportingError(w http.ResponseWriter, err error) {
	code := apiErrors.ErrInternalServer
	var repErr *reporting.ReportingError
	if errors.As(err, &repErr) {
		code = repErr.Code
	}
	apiErrors.WriteError(w, code, err.Error(), nil)
}

// GetMonthlyReport retorna uma página do relatório mensal do tipo informado.
// Meses arquivados são servidos a partir do snapshot congelado.
func GetMonthlyReport(service reporting.Reporter, kind domain.ReportKind, defaultLimit int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		year, month, err := parsePeriodParams(r)
		if err != nil {
			logger.WithError(err).WithField("kind", kind).Warn("reports: parâmetros de período inválidos")
			writeReportingError(w, err)
			return
		}

		page, limit, err := parsePaginationParams(r, defaultLimit)
		if err != nil {
			logger.WithError(err).WithField("kind", kind).Warn("reports: parâmetros de paginação inválidos")
			writeReportingError(w, err)
			return
		}

		logger.WithFields(log.Fields{
			"kind":  kind,
			"year":  year,
			"month": month,
			"page":  page,
			"limit": limit,
		}).Info("reports: buscando relatório mensal")

		report, err := service.GetMonthlyReport(kind, year, month, page, limit)
		if err != nil {
			logger.WithError(err).WithFields(log.Fields{
				"kind":  kind,
				"year":  year,
				"month": month,
			}).Error("reports: erro ao buscar relatório mensal")

			writeReportingError(w, err)
			return
		}

		logger.WithFields(log.Fields{
			"kind":        kind,
			"year":        year,
			"month":       month,
			"total_count": report.TotalCount,
			"is_archived": report.IsArchived,
		}).Info("reports: relatório gerado com sucesso")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("reports: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// ArchiveMonthlyReport congela o snapshot do mês informado. Idempotente.
func ArchiveMonthlyReport(service reporting.Reporter, kind domain.ReportKind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req archiveReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).WithField("kind", kind).Warn("archive: corpo da requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corpo da requisição inválido", nil)
			return
		}

		year, month := req.Year, req.Month

		logger.WithFields(log.Fields{
			"kind":  kind,
			"year":  year,
			"month": month,
		}).Info("archive: congelando relatório mensal")

		summary, err := service.ArchiveMonth(kind, year, month)
		if err != nil {
			logger.WithError(err).WithFields(log.Fields{
				"kind":  kind,
				"year":  year,
				"month": month,
			}).Error("archive: erro ao congelar relatório mensal")

			writeReportingError(w, err)
			return
		}

		logger.WithFields(log.Fields{
			"kind":        kind,
			"year":        year,
			"month":       month,
			"total_count": summary.TotalCount,
		}).Info("archive: relatório congelado com sucesso")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logger.WithError(err).Error("archive: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// ArchivePreviousMonth congela o mês anterior para todos os tipos de relatório
func ArchivePreviousMonth(service reporting.Reporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("archive: congelando relatórios do mês anterior")

		summaries, err := service.ArchivePreviousMonth()
		if err != nil {
			logger.WithError(err).Error("archive: erro ao congelar relatórios do mês anterior")
			writeReportingError(w, err)
			return
		}

		logger.WithField("reports_archived", len(summaries)).Info("archive: mês anterior congelado com sucesso")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summaries); err != nil {
			logger.WithError(err).Error("archive: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
