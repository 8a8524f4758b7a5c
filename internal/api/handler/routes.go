package handler

import (
	"net/http"

	"github.com/vfg2006/insect-control-api/internal/api/handler/router"
	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/usecases/authenticating"
	"github.com/vfg2006/insect-control-api/internal/usecases/client"
	"github.com/vfg2006/insect-control-api/internal/usecases/reporting"
	"github.com/vfg2006/insect-control-api/internal/usecases/servicerecord"
	"github.com/vfg2006/insect-control-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/api/",
			Method:  http.MethodGet,
			Handler: RootHandler(),
		},
		{
			Path:    "/api/health",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator, limiter *middleware.RateLimiter) []router.Route {
	return []router.Route{
		{
			Path:    "/api/auth/bootstrap/status",
			Method:  http.MethodGet,
			Handler: BootstrapStatus(service),
		},
		{
			Path:        "/api/auth/register",
			Method:      http.MethodPost,
			Handler:     Register(service),
			Middlewares: []func(http.Handler) http.Handler{limiter.Middleware()},
		},
		{
			Path:        "/api/auth/login",
			Method:      http.MethodPost,
			Handler:     Login(service),
			Middlewares: []func(http.Handler) http.Handler{limiter.Middleware()},
		},
		{
			Path:        "/api/auth/firebase",
			Method:      http.MethodPost,
			Handler:     FirebaseLogin(service),
			Middlewares: []func(http.Handler) http.Handler{limiter.Middleware()},
		},
		{
			Path:        "/api/auth/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/auth/change-password",
			Method:      http.MethodPost,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/api/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/users/:id",
			Method:      http.MethodPut,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Clients(service client.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/api/clients",
			Method:      http.MethodGet,
			Handler:     ListClients(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/clients",
			Method:      http.MethodPost,
			Handler:     CreateClient(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/clients/:id",
			Method:      http.MethodGet,
			Handler:     GetClient(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/clients/:id",
			Method:      http.MethodPut,
			Handler:     UpdateClient(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/clients/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteClient(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Services(service servicerecord.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/api/services",
			Method:      http.MethodGet,
			Handler:     ListServices(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/services",
			Method:      http.MethodPost,
			Handler:     CreateService(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/services/:id",
			Method:      http.MethodGet,
			Handler:     GetService(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/services/:id",
			Method:      http.MethodPut,
			Handler:     UpdateService(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/services/:id",
			Method:      http.MethodDelete,
			Handler:     DeleteService(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Reporting(service reporting.Reporter, cfg config.Reporting) []router.Route {
	return []router.Route{
		{
			Path:        "/api/agenda",
			Method:      http.MethodGet,
			Handler:     GetAgenda(service, cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/summary",
			Method:      http.MethodGet,
			Handler:     GetSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/api/dashboard/summary",
			Method:      http.MethodGet,
			Handler:     GetDashboard(service, cfg),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/api/cron/run/:type",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/api/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
