package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/usecases/servicerecord"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/utils"
)

// ListServices lista os serviços do usuário. Aceita ?status=, ?from=, ?to= e ?client_id=.
func ListServices(service servicerecord.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		query := r.URL.Query()
		filters := domain.ServiceRecordFilters{
			Status:   query.Get("status"),
			From:     query.Get("from"),
			To:       query.Get("to"),
			ClientID: query.Get("client_id"),
		}

		records, err := service.List(r.Context(), userClaims.OwnerKey(), filters)
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, records)
	}
}

func GetService(service servicerecord.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		record, err := service.Get(r.Context(), userClaims.OwnerKey(), httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, record)
	}
}

func CreateService(service servicerecord.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input domain.ServiceRecordInput
		if err := utils.DecodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		record, err := service.Create(r.Context(), userClaims.OwnerKey(), &input)
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, record)
	}
}

func UpdateService(service servicerecord.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input domain.ServiceRecordInput
		if err := utils.DecodeJSON(r, &input); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		record, err := service.Update(r.Context(), userClaims.OwnerKey(), httprouter.ParamsFromContext(r.Context()).ByName("id"), &input)
		if err != nil {
			writeUseCaseError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, record)
	}
}

func DeleteService(service servicerecord.Manager) http.HandlerFunc {
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
