package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cachemocks "github.com/vfg2006/insect-control-api/infrastructure/cache/mocks"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/infrastructure/repository/mocks"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"go.uber.org/mock/gomock"
)

const owner = "maria@exemplo.com"

func assertClientError(t *testing.T, err error, base error, code string) {
	t.Helper()

	var clientErr *ClientError
	require.True(t, errors.As(err, &clientErr), "esperado ClientError, obtido %v", err)
	assert.Equal(t, code, clientErr.Code)
	if base != nil {
		assert.ErrorIs(t, err, base)
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	service := NewService(mockClientRepo, mocks.NewMockServiceRecordRepository(ctrl), cachemocks.NewMockSummaryCache(ctrl))

	clients := []*domain.Client{
		{ID: "1", Owner: owner, Name: "Padaria Central", City: "Campinas", Phone: "19 99999-0000"},
		{ID: "2", Owner: owner, Name: "Escola Aurora", Neighborhood: "Centro", Email: "contato@aurora.com"},
		{ID: "3", Owner: owner, Name: "Mercado Bom Preço", City: "Valinhos"},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{name: "Sem filtro devolve todos", query: "", wantIDs: []string{"1", "2", "3"}},
		{name: "Busca pelo nome sem diferenciar caixa", query: "PADARIA", wantIDs: []string{"1"}},
		{name: "Busca pelo bairro", query: "centro", wantIDs: []string{"2"}},
		{name: "Busca pela cidade", query: "valinhos", wantIDs: []string{"3"}},
		{name: "Busca pelo telefone", query: "99999", wantIDs: []string{"1"}},
		{name: "Busca pelo email", query: "aurora.com", wantIDs: []string{"2"}},
		{name: "Busca sem resultado", query: "xyz", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClientRepo.EXPECT().ListByOwner(gomock.Any(), owner).Return(clients, nil)

			result, err := service.List(context.Background(), owner, domain.ClientFilters{Query: tt.query})
			require.NoError(t, err)

			ids := make([]string, 0, len(result))
			for _, c := range result {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	service := NewService(mockClientRepo, mocks.NewMockServiceRecordRepository(ctrl), cachemocks.NewMockSummaryCache(ctrl))

	t.Run("Cliente de outro usuário não é encontrado", func(t *testing.T) {
		mockClientRepo.EXPECT().GetByID(gomock.Any(), owner, "9").Return(nil, nil)

		_, err := service.Get(context.Background(), owner, "9")
		assertClientError(t, err, ErrClientNotFound, apiErrors.ErrResourceNotFound)
	})

	t.Run("Erro no banco", func(t *testing.T) {
		mockClientRepo.EXPECT().GetByID(gomock.Any(), owner, "9").Return(nil, errors.New("timeout"))

		_, err := service.Get(context.Background(), owner, "9")
		assertClientError(t, err, nil, apiErrors.ErrDatabaseOperation)
	})
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCache := cachemocks.NewMockSummaryCache(ctrl)
	service := NewService(mockClientRepo, mocks.NewMockServiceRecordRepository(ctrl), mockCache)

	tests := []struct {
		name     string
		input    *domain.ClientInput
		setup    func()
		validate func(t *testing.T, c *domain.Client, err error)
	}{
		{
			name:  "Cria cliente normalizando campos e invalida o cache",
			input: &domain.ClientInput{Name: "  Padaria Central ", Email: " Contato@Padaria.COM ", City: "Campinas "},
			setup: func() {
				mockClientRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *domain.Client) error {
						c.ID = "abc"
						return nil
					})
				mockCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)
			},
			validate: func(t *testing.T, c *domain.Client, err error) {
				require.NoError(t, err)
				assert.Equal(t, "abc", c.ID)
				assert.Equal(t, owner, c.Owner)
				assert.Equal(t, "Padaria Central", c.Name)
				assert.Equal(t, "contato@padaria.com", c.Email)
				assert.Equal(t, "Campinas", c.City)
			},
		},
		{
			name:  "Nome em branco é rejeitado",
			input: &domain.ClientInput{Name: "   "},
			setup: func() {},
			validate: func(t *testing.T, c *domain.Client, err error) {
				assert.Nil(t, c)
				assertClientError(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)
			},
		},
		{
			name:  "Entrada nula é rejeitada",
			input: nil,
			setup: func() {},
			validate: func(t *testing.T, c *domain.Client, err error) {
				assertClientError(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)
			},
		},
		{
			name:  "Falha ao invalidar cache não impede a criação",
			input: &domain.ClientInput{Name: "Escola"},
			setup: func() {
				mockClientRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				mockCache.EXPECT().Invalidate(gomock.Any(), owner).Return(errors.New("redis fora"))
			},
			validate: func(t *testing.T, c *domain.Client, err error) {
				require.NoError(t, err)
				assert.Equal(t, "Escola", c.Name)
			},
		},
		{
			name:  "Erro no banco",
			input: &domain.ClientInput{Name: "Escola"},
			setup: func() {
				mockClientRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("conexão recusada"))
			},
			validate: func(t *testing.T, c *domain.Client, err error) {
				assertClientError(t, err, nil, apiErrors.ErrDatabaseOperation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			c, err := service.Create(context.Background(), owner, tt.input)
			tt.validate(t, c, err)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockCache := cachemocks.NewMockSummaryCache(ctrl)
	service := NewService(mockClientRepo, mocks.NewMockServiceRecordRepository(ctrl), mockCache)

	t.Run("Atualiza campos do cliente", func(t *testing.T) {
		mockClientRepo.EXPECT().GetByID(gomock.Any(), owner, "1").Return(&domain.Client{ID: "1", Owner: owner, Name: "Antigo"}, nil)
		mockClientRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		mockCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)

		c, err := service.Update(context.Background(), owner, "1", &domain.ClientInput{Name: "Novo", Phone: "1234"})
		require.NoError(t, err)
		assert.Equal(t, "Novo", c.Name)
		assert.Equal(t, "1234", c.Phone)
		assert.Equal(t, owner, c.Owner)
	})

	t.Run("Removido entre a leitura e a escrita", func(t *testing.T) {
		mockClientRepo.EXPECT().GetByID(gomock.Any(), owner, "1").Return(&domain.Client{ID: "1", Owner: owner}, nil)
		mockClientRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(repository.ErrNotFound)

		_, err := service.Update(context.Background(), owner, "1", &domain.ClientInput{Name: "Novo"})
		assertClientError(t, err, ErrClientNotFound, apiErrors.ErrResourceNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockClientRepo := mocks.NewMockClientRepository(ctrl)
	mockServiceRepo := mocks.NewMockServiceRecordRepository(ctrl)
	mockCache := cachemocks.NewMockSummaryCache(ctrl)
	service := NewService(mockClientRepo, mockServiceRepo, mockCache)

	existing := &domain.Client{ID: "1", Owner: owner, Name: "Padaria"}

	tests := []struct {
		name     string
		setup    func()
		validate func(t *testing.T, err error)
	}{
		{
			name: "Remove cliente sem serviços",
			setup: func() {
				mockClientRepo.EXPECT().GetByID(gomock.Any(), owner, "1").Return(existing, nil)
				mockServiceRepo.EXPECT().CountByClient(gomock.Any(), owner, "1").Return(0, nil)
				mockClientRepo.EXPECT().Delete(gomock.Any(), owner, "1").Return(nil)
				mockCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Cliente com serviços vinculados não é removido",
			setup: func() {
				mockClientRepo.EXPECT().GetByID(gomock.Any(), owner, "1").Return(existing, nil)
				mockServiceRepo.EXPECT().CountByClient(gomock.Any(), owner, "1").Return(3, nil)
			},
			validate: func(t *testing.T, err error) {
				assertClientError(t, err, ErrClientHasServices, apiErrors.ErrResourceInUse)
			},
		},
		{
			name: "Cliente inexistente",
			setup: func() {
				mockClientRepo.EXPECT().GetByID(gomock.Any(), owner, "1").Return(nil, nil)
			},
			validate: func(t *testing.T, err error) {
				assertClientError(t, err, ErrClientNotFound, apiErrors.ErrResourceNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			tt.validate(t, service.Delete(context.Background(), owner, "1"))
		})
	}
}
