package handler

import (
	"net/http"
	"time"

	"github.com/vfg2006/insect-control-api/internal/config"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/usecases/reporting"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
)

var now = time.Now

// GetSummary retorna o resumo de serviços e faturamento do usuário
func GetSummary(service reporting.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		summary, err := service.GetSummary(r.Context(), userClaims.OwnerKey())
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, summary)
	}
}

// GetAgenda agrupa os serviços por dia. Sem ?from e ?to usa hoje até hoje + AGENDA_DAYS.
func GetAgenda(service reporting.Reporter, cfg config.Reporting) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		window, ok := agendaWindow(r, cfg)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Período inválido, use YYYY-MM-DD ou DD/MM/YYYY", nil)
			return
		}

		agenda, err := service.GetAgenda(r.Context(), userClaims.OwnerKey(), window)
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, agenda)
	}
}

func agendaWindow(r *http.Request, cfg config.Reporting) (domain.DateWindow, bool) {
	today := localNow(cfg)
	window := domain.DateWindow{
		From: today.Format(domain.DateLayout),
		To:   today.AddDate(0, 0, cfg.AgendaDays).Format(domain.DateLayout),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		window.From = domain.NormalizeDate(from)
		if window.From == "" {
			return window, false
		}
	}

	if to := r.URL.Query().Get("to"); to != "" {
		window.To = domain.NormalizeDate(to)
		if window.To == "" {
			return window, false
		}
	}

	return window, window.From <= window.To
}

// GetDashboard retorna os números do mês corrente
func GetDashboard(service reporting.Reporter, cfg config.Reporting) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		dashboard, err := service.GetDashboard(r.Context(), userClaims.OwnerKey(), localNow(cfg))
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, dashboard)
	}
}

func localNow(cfg config.Reporting) time.Time {
	if cfg.Location == nil {
		return now()
	}
	return now().In(cfg.Location)
}
