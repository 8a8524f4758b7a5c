package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
)

type fakeCronJob struct {
	started bool
	calls   int
}

func (f *fakeCronJob) TriggerManualSync() bool {
	f.calls++
	return f.started
}

func (f *fakeCronJob) GetStatus() map[string]any {
	return map[string]any{"sync_running": !f.started, "calls": f.calls}
}

func TestRunCronJob(t *testing.T) {
	tests := []struct {
		name        string
		cronType    string
		started     bool
		wantStatus  int
		wantCode    string
		wantStarted bool
	}{
		{
			name:        "inicia o pré-cálculo",
			cronType:    CronJobTypeSummaryWarmup,
			started:     true,
			wantStatus:  http.StatusAccepted,
			wantStarted: true,
		},
		{
			name:       "já em execução",
			cronType:   CronJobTypeSummaryWarmup,
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "tipo desconhecido",
			cronType:   "meta-sync",
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := &fakeCronJob{started: tt.started}
			services := CronJobServices{CronJobTypeSummaryWarmup: job}

			rec := serve(t, CronJobs(services), adminClaims, http.MethodPost, "/api/cron/run/"+tt.cronType, "")
			if tt.wantCode != "" {
				assertAPIError(t, rec, tt.wantStatus, tt.wantCode)
				assert.Zero(t, job.calls)
				return
			}

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			decodeBody(t, rec, &body)
			assert.Equal(t, tt.wantStarted, body["started"])
			assert.Equal(t, tt.cronType, body["type"])
			assert.Equal(t, 1, job.calls)
		})
	}
}

func TestRunCronJob_ApenasAdmin(t *testing.T) {
	job := &fakeCronJob{started: true}

	rec := serve(t, CronJobs(CronJobServices{CronJobTypeSummaryWarmup: job}), userClaims, http.MethodPost, "/api/cron/run/"+CronJobTypeSummaryWarmup, "")
	assertAPIError(t, rec, http.StatusForbidden, apiErrors.ErrInsufficientPrivilege)
	assert.Zero(t, job.calls)
}

func TestGetCronStatus(t *testing.T) {
	services := CronJobServices{CronJobTypeSummaryWarmup: &fakeCronJob{}}

	rec := serve(t, CronJobs(services), adminClaims, http.MethodGet, "/api/cron/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]map[string]any
	decodeBody(t, rec, &status)
	require.Contains(t, status, CronJobTypeSummaryWarmup)
	assert.Equal(t, true, status[CronJobTypeSummaryWarmup]["sync_running"])
}
