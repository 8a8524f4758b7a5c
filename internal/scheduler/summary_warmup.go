// Package scheduler contém os serviços agendados da API
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/usecases/reporting"
	"golang.org/x/sync/errgroup"
)

const warmupConcurrency = 4

type SummaryWarmupConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// SummaryWarmupService pré-calcula o resumo de serviços de cada usuário no cache
type SummaryWarmupService struct {
	scheduler           *gocron.Scheduler
	serviceRepo         repository.ServiceRecordRepository
	reporter            reporting.Reporter
	config              SummaryWarmupConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncOwners      int
	lastSyncFailures    int
}

func NewSummaryWarmupService(
	serviceRepo repository.ServiceRecordRepository,
	reporter reporting.Reporter,
	cfg *config.Config,
) *SummaryWarmupService {
	warmupConfig := SummaryWarmupConfig{
		CronSchedule: cfg.SummaryWarmup.CronSchedule,
		SyncEnabled:  cfg.SummaryWarmup.Enabled,
	}

	location := cfg.Reporting.Location
	if location == nil {
		location = time.Local
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": warmupConfig.CronSchedule,
	}).Info("Configuração do agendador de pré-cálculo do resumo carregada")

	return &SummaryWarmupService{
		scheduler:   gocron.NewScheduler(location),
		serviceRepo: serviceRepo,
		reporter:    reporter,
		config:      warmupConfig,
	}
}

func (s *SummaryWarmupService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Cron de pré-cálculo do resumo desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de pré-cálculo do resumo")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.WarmUpSummaries(ctx); err != nil {
			logrus.WithError(err).Error("Erro no pré-cálculo do resumo")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar pré-cálculo do resumo: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de pré-cálculo do resumo")
		s.scheduler.Stop()
	}()

	return nil
}

// WarmUpSummaries recalcula o resumo de todos os usuários com serviços cadastrados.
// Falhas de um usuário não interrompem os demais.
func (s *SummaryWarmupService) WarmUpSummaries(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Pré-cálculo do resumo já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	owners, failures := 0, 0
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.lastSyncOwners = owners
		s.lastSyncFailures = failures
		s.syncMutex.Unlock()
	}()

	list, err := s.serviceRepo.ListOwners(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar usuários para pré-cálculo do resumo")
		return err
	}
	owners = len(list)

	var failuresMutex sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(warmupConcurrency)

	for _, owner := range list {
		g.Go(func() error {
			if err := s.reporter.WarmUp(gctx, owner); err != nil {
				logrus.WithError(err).WithField("owner", owner).Error("Erro ao pré-calcular resumo")
				failuresMutex.Lock()
				failures++
				failuresMutex.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	logrus.WithFields(logrus.Fields{
		"owners":   owners,
		"failures": failures,
	}).Info("Pré-cálculo do resumo concluído")

	return nil
}

// TriggerManualSync inicia manualmente o pré-cálculo. Retorna false se já houver um em andamento.
func (s *SummaryWarmupService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Pré-cálculo do resumo já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando pré-cálculo manual do resumo")
	go func() {
		if err := s.WarmUpSummaries(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro no pré-cálculo manual do resumo")
		}
	}()

	return true
}

// GetStatus retorna o status atual do agendador
func (s *SummaryWarmupService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_owners":       s.lastSyncOwners,
		"last_sync_failures":     s.lastSyncFailures,
	}
}
