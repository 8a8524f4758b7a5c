package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/usecases/client"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/utils"
)

// ListClients lista os clientes do usuário. Aceita ?q= para busca.
func ListClients(service client.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		filters := domain.ClientFilters{Query: r.URL.Query().Get("q")}

		clients, err := service.List(r.Context(), userClaims.OwnerKey(), filters)
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, clients)
	}
}

func GetClient(service client.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		c, err := service.Get(r.Context(), userClaims.OwnerKey(), httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, c)
	}
}

func CreateClient(service client.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input domain.ClientInput
		if err := utils.DecodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		c, err := service.Create(r.Context(), userClaims.OwnerKey(), &input)
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, c)
	}
}

func UpdateClient(service client.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input domain.ClientInput
		if err := utils.DecodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		c, err := service.Update(r.Context(), userClaims.OwnerKey(), httprouter.ParamsFromContext(r.Context()).ByName("id"), &input)
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, c)
	}
}

func DeleteClient(service client.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := service.Delete(r.Context(), userClaims.OwnerKey(), httprouter.ParamsFromContext(r.Context()).ByName("id")); err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
