package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/scheduler"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
	"github.com/vfg2006/gym-manager-api/pkg/middleware"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeMonthlyArchive = "monthly-archive"
	CronJobTypeAll            = "all"
)

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	MonthlyArchiveService *scheduler.MonthlyArchiveService
}

// canManageCronJobs espelha o middleware AdminOrSupervisor das rotas de cron
func canManageCronJobs(claims *domain.Claims) bool {
	return claims.UserRoleID == middleware.RoleAdmin || claims.UserRoleID == middleware.RoleSupervisor
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Verificar permissões - o mesmo critério do middleware das rotas de cron
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || !canManageCronJobs(userClaims) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores e supervisores podem executar cron jobs", nil)
			return
		}

		// Obter o tipo de cron job da URL
		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		// Validar o tipo de cron job
		switch cronType {
		case CronJobTypeMonthlyArchive, CronJobTypeAll:
			if services.MonthlyArchiveService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de arquivamento mensal não disponível", nil)
				return
			}
			services.MonthlyArchiveService.TriggerManualRun()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: monthly-archive, all", nil)
			return
		}

		// Responder com sucesso
		response := map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		// Verificar permissões - o mesmo critério do middleware das rotas de cron
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || !canManageCronJobs(userClaims) {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores e supervisores podem verificar status de cron jobs", nil)
			return
		}

		status := map[string]any{
			"monthly-archive": services.MonthlyArchiveService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}
