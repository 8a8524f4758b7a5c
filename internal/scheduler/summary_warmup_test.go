package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insect-control-api/infrastructure/repository/mocks"
	"github.com/vfg2006/insect-control-api/internal/config"
	reportingmocks "github.com/vfg2006/insect-control-api/internal/usecases/reporting/mocks"
	"go.uber.org/mock/gomock"
)

func newWarmupService(t *testing.T, enabled bool, cron string) (*SummaryWarmupService, *mocks.MockServiceRecordRepository, *reportingmocks.MockReporter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	serviceRepo := mocks.NewMockServiceRecordRepository(ctrl)
	reporter := reportingmocks.NewMockReporter(ctrl)

	cfg := &config.Config{
		SummaryWarmup: config.SummaryWarmup{CronSchedule: cron, Enabled: enabled},
		Reporting:     config.Reporting{Location: time.UTC},
	}

	return NewSummaryWarmupService(serviceRepo, reporter, cfg), serviceRepo, reporter
}

func TestSummaryWarmupService_WarmUpSummaries(t *testing.T) {
	tests := []struct {
		name         string
		owners       []string
		failing      map[string]bool
		listErr      error
		wantErr      bool
		wantOwners   int
		wantFailures int
	}{
		{
			name:       "todos os usuários pré-calculados",
			owners:     []string{"ana@exemplo.com", "bia@exemplo.com", "caio@exemplo.com"},
			wantOwners: 3,
		},
		{
			name:         "falha de um usuário não interrompe os demais",
			owners:       []string{"ana@exemplo.com", "bia@exemplo.com", "caio@exemplo.com"},
			failing:      map[string]bool{"bia@exemplo.com": true},
			wantOwners:   3,
			wantFailures: 1,
		},
		{
			name:       "sem usuários",
			owners:     []string{},
			wantOwners: 0,
		},
		{
			name:    "erro ao listar usuários",
			listErr: errors.New("conexão recusada"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, serviceRepo, reporter := newWarmupService(t, true, "0 3 * * *")

			serviceRepo.EXPECT().ListOwners(gomock.Any()).Return(tt.owners, tt.listErr)

			var (
				mu     sync.Mutex
				warmed []string
			)
			for _, owner := range tt.owners {
				var err error
				if tt.failing[owner] {
					err = errors.New("timeout")
				}
				reporter.EXPECT().WarmUp(gomock.Any(), owner).DoAndReturn(func(context.Context, string) error {
					mu.Lock()
					warmed = append(warmed, owner)
					mu.Unlock()
					return err
				})
			}

			err := service.WarmUpSummaries(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			assert.ElementsMatch(t, tt.owners, warmed)

			status := service.GetStatus()
			assert.Equal(t, false, status["sync_running"])
			assert.Equal(t, tt.wantOwners, status["last_sync_owners"])
			assert.Equal(t, tt.wantFailures, status["last_sync_failures"])
			assert.False(t, status["last_sync_completed_at"].(time.Time).IsZero())
		})
	}
}

func TestSummaryWarmupService_ExecucaoUnica(t *testing.T) {
	service, _, _ := newWarmupService(t, true, "0 3 * * *")

	service.syncRunning = true

	// nenhuma chamada aos mocks é esperada
	require.NoError(t, service.WarmUpSummaries(context.Background()))
	assert.False(t, service.TriggerManualSync())
}

func TestSummaryWarmupService_TriggerManualSync(t *testing.T) {
	service, serviceRepo, reporter := newWarmupService(t, true, "0 3 * * *")

	done := make(chan struct{})
	serviceRepo.EXPECT().ListOwners(gomock.Any()).Return([]string{"ana@exemplo.com"}, nil)
	reporter.EXPECT().WarmUp(gomock.Any(), "ana@exemplo.com").DoAndReturn(func(context.Context, string) error {
		close(done)
		return nil
	})

	require.True(t, service.TriggerManualSync())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pré-cálculo manual não executou")
	}

	assert.Eventually(t, func() bool {
		return service.GetStatus()["sync_running"] == false
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSummaryWarmupService_Start(t *testing.T) {
	t.Run("desabilitada", func(t *testing.T) {
		service, _, _ := newWarmupService(t, false, "0 3 * * *")
		require.NoError(t, service.Start(context.Background()))
		assert.Equal(t, false, service.GetStatus()["sync_enabled"])
	})

	t.Run("expressão inválida", func(t *testing.T) {
		service, _, _ := newWarmupService(t, true, "todo dia")
		assert.Error(t, service.Start(context.Background()))
	})

	t.Run("agendada", func(t *testing.T) {
		service, _, _ := newWarmupService(t, true, "0 3 * * *")

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, service.Start(ctx))
		assert.True(t, service.scheduler.IsRunning())
		cancel()

		assert.Eventually(t, func() bool {
			return !service.scheduler.IsRunning()
		}, 2*time.Second, 10*time.Millisecond)
	})
}
