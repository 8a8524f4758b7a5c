package handler

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/usecases/authenticating"
	"github.com/vfg2006/insect-control-api/internal/usecases/client"
	"github.com/vfg2006/insect-control-api/internal/usecases/servicerecord"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/log"
	"github.com/vfg2006/insect-control-api/pkg/middleware"
	"github.com/vfg2006/insect-control-api/pkg/utils"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	if err := utils.WriteJSON(w, status, body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao enviar resposta")
	}
}

// currentUser retorna o usuário autenticado ou escreve 401
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return claims, true
}

// writeUseCaseError traduz os erros tipados dos casos de uso para a resposta da API
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	code, message := describe(err)

	switch {
	case apiErrors.StatusFor(code) >= http.StatusInternalServerError:
		log.ForContext(r.Context()).WithError(err).Error("Erro ao processar requisição")
	case authenticating.IsAuthorizationError(err):
		log.ForContext(r.Context()).WithError(err).Warn("Acesso negado")
	}

	apiErrors.WriteError(w, code, message, nil)
}

func describe(err error) (string, string) {
	var (
		authErr   *authenticating.AuthError
		clientErr *client.ClientError
		recordErr *servicerecord.RecordError
	)

	switch {
	case errors.As(err, &authErr):
		return authErr.Code, authErr.Details
	case errors.As(err, &clientErr):
		return clientErr.Code, clientErr.Details
	case errors.As(err, &recordErr):
		return recordErr.Code, recordErr.Details
	default:
		return apiErrors.ErrInternalServer, "Erro interno do servidor"
	}
}
