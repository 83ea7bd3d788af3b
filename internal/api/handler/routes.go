package handler

import (
	"net/http"

	"github.com/vfg2006/gym-manager-api/internal/api/handler/router"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/gym-manager-api/internal/usecases/leads"
	"github.com/vfg2006/gym-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/gym-manager-api/internal/usecases/tracking"
	"github.com/vfg2006/gym-manager-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// MonthlyReports retorna as rotas dos relatórios mensais e do arquivamento.
// As rotas são registradas por tipo de relatório para manter os caminhos
// estáticos no httprouter.
func MonthlyReports(service reporting.Reporter, defaultPageSize int) []router.Route {
	routes := []router.Route{
		{
			Path:        "/v1/reports/archive-previous-month",
			Method:      http.MethodPost,
			Handler:     ArchivePreviousMonth(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}

	for _, kind := range []domain.ReportKind{domain.ReportKindNewMembers, domain.ReportKindTrialAttended} {
		routes = append(routes,
			router.Route{
				Path:        "/v1/reports/" + string(kind),
				Method:      http.MethodGet,
				Handler:     GetMonthlyReport(service, kind, defaultPageSize),
				Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
			},
			router.Route{
				Path:        "/v1/reports/" + string(kind) + "/archive",
				Method:      http.MethodPost,
				Handler:     ArchiveMonthlyReport(service, kind),
				Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
			},
		)
	}

	return routes
}

// Performance retorna as rotas de metas e desempenho mensal
func Performance(service tracking.Tracker) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/performance",
			Method:      http.MethodGet,
			Handler:     GetMonthlyPerformance(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/performance/target",
			Method:      http.MethodPost,
			Handler:     SetMonthlyTarget(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/performance/target-history",
			Method:      http.MethodGet,
			Handler:     GetTargetHistory(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

// Leads retorna as rotas de cadastro e acompanhamento de leads
func Leads(service leads.LeadService) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/leads",
			Method:      http.MethodGet,
			Handler:     ListLeads(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads",
			Method:      http.MethodPost,
			Handler:     CreateLead(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/:id",
			Method:      http.MethodGet,
			Handler:     GetLead(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/leads/:id",
			Method:      http.MethodPut,
			Handler:     UpdateLead(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: CreateUser(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodGet,
			Handler:     GetUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}
