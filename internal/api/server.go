package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insect-control-api/internal/api/handler"
	"github.com/vfg2006/insect-control-api/internal/api/handler/router"
	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/scheduler"
	"github.com/vfg2006/insect-control-api/internal/usecases/authenticating"
	"github.com/vfg2006/insect-control-api/internal/usecases/client"
	"github.com/vfg2006/insect-control-api/internal/usecases/reporting"
	"github.com/vfg2006/insect-control-api/internal/usecases/servicerecord"
	"github.com/vfg2006/insect-control-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	closers    []func() error
}

// Services agrupa os casos de uso expostos pela API
type Services struct {
	Authenticator authenticating.Authenticator
	Clients       client.Manager
	Records       servicerecord.Manager
	Reporter      reporting.Reporter
	SummaryWarmup *scheduler.SummaryWarmupService
}

func New(config *config.Config, services Services, closers ...func() error) (*Server, error) {
	cronServices := handler.CronJobServices{}
	if services.SummaryWarmup != nil {
		cronServices[handler.CronJobTypeSummaryWarmup] = services.SummaryWarmup
	}

	loginLimiter := middleware.NewRateLimiter(
		config.Auth.LoginRatePerMinute,
		config.Auth.LoginRateBurst,
		middleware.WithTrustedProxies(config.Auth.TrustedProxies...),
	)

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Authentication(services.Authenticator, loginLimiter)...),
		router.WithRoutes(handler.User(services.Authenticator)...),
		router.WithRoutes(handler.Clients(services.Clients)...),
		router.WithRoutes(handler.Services(services.Records)...),
		router.WithRoutes(handler.Reporting(services.Reporter, config.Reporting)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Cors.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
		closers: closers,
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")

	// conexões com banco, redis e firebase
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			logrus.WithError(err).Warn("Erro ao liberar recurso durante o desligamento")
		}
	}

	return nil
}
