package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/gym-manager-api/internal/config"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/scheduler"
	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
	"github.com/vfg2006/gym-manager-api/pkg/middleware"
)

func newCronServices() CronJobServices {
	return CronJobServices{
		MonthlyArchiveService: scheduler.NewMonthlyArchiveService(&stubReporter{}, &config.Config{}),
	}
}

func cronRequest(method, target, cronType string, roleID int) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	ctx := context.WithValue(req.Context(), middleware.ContextKeyUser, &domain.Claims{
		UserID:     42,
		UserRoleID: roleID,
	})
	if cronType != "" {
		ctx = context.WithValue(ctx, httprouter.ParamsKey, httprouter.Params{
			{Key: "type", Value: cronType},
		})
	}
	return req.WithContext(ctx)
}

func TestRunCronJob_SupervisorAllowed(t *testing.T) {
	// O mesmo perfil aceito pelo middleware AdminOrSupervisor não pode ser
	// barrado pela checagem interna do handler
	rec := httptest.NewRecorder()
	req := cronRequest(http.MethodPost, "/v1/cron/monthly-archive/run", CronJobTypeMonthlyArchive, middleware.RoleSupervisor)

	RunCronJob(newCronServices()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cron job iniciada com sucesso")
}

func TestRunCronJob_ReceptionRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	req := cronRequest(http.MethodPost, "/v1/cron/monthly-archive/run", CronJobTypeMonthlyArchive, middleware.RoleReception)

	RunCronJob(newCronServices()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apiErrors.ErrInsufficientPrivilege, decodeAPIError(t, rec).Code)
}

func TestGetCronStatus_SupervisorAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	req := cronRequest(http.MethodGet, "/v1/cron/status", "", middleware.RoleSupervisor)

	GetCronStatus(newCronServices()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "monthly-archive")
}
