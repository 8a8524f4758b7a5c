package handler

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/internal/usecases/client"
	clientmocks "github.com/vfg2006/insect-control-api/internal/usecases/client/mocks"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

func TestListClients(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := clientmocks.NewMockManager(ctrl)

	manager.EXPECT().
		List(gomock.Any(), testOwner, domain.ClientFilters{Query: "silva"}).
		Return([]*domain.Client{{ID: "c1", Owner: testOwner, Name: "João Silva"}}, nil)

	rec := serve(t, Clients(manager), userClaims, http.MethodGet, "/api/clients?q=silva", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var clients []*domain.Client
	decodeBody(t, rec, &clients)
	require.Len(t, clients, 1)
	assert.Equal(t, "João Silva", clients[0].Name)
}

func TestListClients_SemAutenticacao(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := clientmocks.NewMockManager(ctrl)

	rec := serve(t, Clients(manager), nil, http.MethodGet, "/api/clients", "")
	assertAPIError(t, rec, http.StatusUnauthorized, apiErrors.ErrInvalidToken)
}

func TestListClients_RoleDesconhecido(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := clientmocks.NewMockManager(ctrl)

	claims := &domain.Claims{UserID: 3, UserEmail: testOwner, UserRoleID: 99}
	rec := serve(t, Clients(manager), claims, http.MethodGet, "/api/clients", "")
	assertAPIError(t, rec, http.StatusForbidden, apiErrors.ErrInsufficientPrivilege)
}

func TestGetClient(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "encontrado",
			wantStatus: http.StatusOK,
		},
		{
			name:       "não encontrado",
			err:        client.NewClientError(client.ErrClientNotFound, apiErrors.ErrResourceNotFound, "Cliente não encontrado"),
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrResourceNotFound,
		},
		{
			name:       "erro inesperado",
			err:        errors.New("conexão recusada"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   apiErrors.ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			manager := clientmocks.NewMockManager(ctrl)

			var found *domain.Client
			if tt.err == nil {
				found = &domain.Client{ID: "c1", Owner: testOwner, Name: "Ana"}
			}
			manager.EXPECT().Get(gomock.Any(), testOwner, "c1").Return(found, tt.err)

			rec := serve(t, Clients(manager), userClaims, http.MethodGet, "/api/clients/c1", "")
			if tt.wantCode != "" {
				assertAPIError(t, rec, tt.wantStatus, tt.wantCode)
				return
			}

			require.Equal(t, tt.wantStatus, rec.Code)
			var c domain.Client
			decodeBody(t, rec, &c)
			assert.Equal(t, "c1", c.ID)
		})
	}
}

func TestCreateClient(t *testing.T) {
	t.Run("criado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := clientmocks.NewMockManager(ctrl)

		manager.EXPECT().
			Create(gomock.Any(), testOwner, &domain.ClientInput{Name: "Ana", Phone: "11 99999-0000"}).
			Return(&domain.Client{ID: "novo", Owner: testOwner, Name: "Ana", Phone: "11 99999-0000"}, nil)

		rec := serve(t, Clients(manager), userClaims, http.MethodPost, "/api/clients", `{"name":"Ana","phone":"11 99999-0000"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var c domain.Client
		decodeBody(t, rec, &c)
		assert.Equal(t, "novo", c.ID)
	})

	t.Run("corpo inválido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := clientmocks.NewMockManager(ctrl)

		rec := serve(t, Clients(manager), userClaims, http.MethodPost, "/api/clients", `{"name":`)
		assertAPIError(t, rec, http.StatusBadRequest, apiErrors.ErrInvalidRequest)
	})

	t.Run("nome ausente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		manager := clientmocks.NewMockManager(ctrl)

		manager.EXPECT().
			Create(gomock.Any(), testOwner, gomock.Any()).
			Return(nil, client.NewClientError(client.ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome é obrigatório"))

		rec := serve(t, Clients(manager), userClaims, http.MethodPost, "/api/clients", `{"phone":"1"}`)
		assertAPIError(t, rec, http.StatusBadRequest, apiErrors.ErrMissingRequiredData)
	})
}

func TestUpdateClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	manager := clientmocks.NewMockManager(ctrl)

	manager.EXPECT().
		Update(gomock.Any(), testOwner, "c1", &domain.ClientInput{Name: "Ana Souza"}).
		Return(&domain.Client{ID: "c1", Owner: testOwner, Name: "Ana Souza"}, nil)

	rec := serve(t, Clients(manager), userClaims, http.MethodPut, "/api/clients/c1", `{"name":"Ana Souza"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var c domain.Client
	decodeBody(t, rec, &c)
	assert.Equal(t, "Ana Souza", c.Name)
}

func TestDeleteClient(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "removido",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "possui serviços",
			err:        client.NewClientError(client.ErrClientHasServices, apiErrors.ErrResourceInUse, "Cliente possui serviços vinculados"),
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrResourceInUse,
		},
		{
			name:       "não encontrado",
			err:        client.NewClientError(client.ErrClientNotFound, apiErrors.ErrResourceNotFound, "Cliente não encontrado"),
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			manager := clientmocks.NewMockManager(ctrl)

			manager.EXPECT().Delete(gomock.Any(), testOwner, "c1").Return(tt.err)

			rec := serve(t, Clients(manager), userClaims, http.MethodDelete, "/api/clients/c1", "")
			if tt.wantCode != "" {
				assertAPIError(t, rec, tt.wantStatus, tt.wantCode)
				return
			}

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, rec.Body.String())
		})
	}
}
