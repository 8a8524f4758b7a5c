package servicerecord

import (
	"context"
	"errors"
	"testing"
	"time"

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

func strPtr(s string) *string {
	return &s
}

func assertRecordError(t *testing.T, err error, base error, code string) {
	t.Helper()

	var recordErr *RecordError
	require.True(t, errors.As(err, &recordErr), "esperado RecordError, obtido %v", err)
	assert.Equal(t, code, recordErr.Code)
	if base != nil {
		assert.ErrorIs(t, err, base)
	}
}

func newService(ctrl *gomock.Controller) (Manager, *mocks.MockServiceRecordRepository, *mocks.MockClientRepository, *cachemocks.MockSummaryCache) {
	serviceRepo := mocks.NewMockServiceRecordRepository(ctrl)
	clientRepo := mocks.NewMockClientRepository(ctrl)
	summaryCache := cachemocks.NewMockSummaryCache(ctrl)

	return NewService(serviceRepo, clientRepo, summaryCache, domain.NewSettlementPolicy()), serviceRepo, clientRepo, summaryCache
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, serviceRepo, _, _ := newService(ctrl)

	records := []*domain.ServiceRecord{
		{ID: "a", Owner: owner, Date: "2025-06-01", Status: "Pendente", ClientID: strPtr("c1")},
		{ID: "b", Owner: owner, Date: "15/06/2025", Status: "pago"},
		{ID: "c", Owner: owner, Date: "", Status: "Pendente"},
		{ID: "d", Owner: owner, Date: time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC), Status: "Pago", ClientID: strPtr("c1")},
	}

	tests := []struct {
		name    string
		filters domain.ServiceRecordFilters
		wantIDs []string
		wantErr string
	}{
		{name: "Sem filtros ordena por data decrescente e deixa sem data no fim", wantIDs: []string{"b", "a", "d", "c"}},
		{name: "Filtro de status é exato", filters: domain.ServiceRecordFilters{Status: "Pendente"}, wantIDs: []string{"a", "c"}},
		{name: "Filtro por cliente", filters: domain.ServiceRecordFilters{ClientID: "c1"}, wantIDs: []string{"a", "d"}},
		{name: "Período exclui serviços sem data", filters: domain.ServiceRecordFilters{From: "2025-06-01"}, wantIDs: []string{"b", "a"}},
		{name: "Período aceita data com barras", filters: domain.ServiceRecordFilters{From: "01/05/2025", To: "31/05/2025"}, wantIDs: []string{"d"}},
		{name: "Período inválido", filters: domain.ServiceRecordFilters{To: "ontem"}, wantErr: apiErrors.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr != "" {
				_, err := service.List(context.Background(), owner, tt.filters)
				assertRecordError(t, err, ErrInvalidDate, tt.wantErr)
				return
			}

			serviceRepo.EXPECT().ListByOwner(gomock.Any(), owner).Return(records, nil)

			result, err := service.List(context.Background(), owner, tt.filters)
			require.NoError(t, err)

			ids := make([]string, 0, len(result))
			for _, r := range result {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, serviceRepo, clientRepo, summaryCache := newService(ctrl)

	tests := []struct {
		name     string
		input    *domain.ServiceRecordInput
		setup    func()
		validate func(t *testing.T, response *domain.ServiceRecordResponse, err error)
	}{
		{
			name:  "Cria serviço com cliente avulso e status padrão",
			input: &domain.ServiceRecordInput{ClientName: " Sr. José ", Date: "10/06/2025", ServiceType: "Dedetização", Value: "150,00"},
			setup: func() {
				serviceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, record *domain.ServiceRecord) error {
						assert.Equal(t, owner, record.Owner)
						assert.Equal(t, "10/06/2025", record.Date)
						record.ID = "novo"
						return nil
					})
				summaryCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)
			},
			validate: func(t *testing.T, response *domain.ServiceRecordResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, "novo", response.ID)
				assert.Equal(t, "Sr. José", response.ClientName)
				assert.Equal(t, "2025-06-10", response.Date)
				assert.Equal(t, domain.DefaultStatus, response.Status)
				assert.Equal(t, domain.StatusClassOutstanding, response.StatusClass)
				assert.Equal(t, domain.MoneyText("150,00"), response.Value)
			},
		},
		{
			name:  "Cliente vinculado define o nome",
			input: &domain.ServiceRecordInput{ClientID: strPtr("c1"), ClientName: "qualquer", Date: "2025-06-10", Status: "Pago"},
			setup: func() {
				clientRepo.EXPECT().GetByID(gomock.Any(), owner, "c1").Return(&domain.Client{ID: "c1", Owner: owner, Name: "Padaria Central"}, nil)
				serviceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				summaryCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)
			},
			validate: func(t *testing.T, response *domain.ServiceRecordResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, "Padaria Central", response.ClientName)
				require.NotNil(t, response.ClientID)
				assert.Equal(t, "c1", *response.ClientID)
				assert.Equal(t, domain.StatusClassSettled, response.StatusClass)
			},
		},
		{
			name:  "Data e hora ISO longa é gravada como informada",
			input: &domain.ServiceRecordInput{ClientName: "José", Date: "2025-06-01T10:00:00.123456789-03:00", ServiceType: "Desratização de galpão industrial com barreira química e iscas"},
			setup: func() {
				serviceRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, record *domain.ServiceRecord) error {
						assert.Equal(t, "2025-06-01T10:00:00.123456789-03:00", record.Date)
						return nil
					})
				summaryCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)
			},
			validate: func(t *testing.T, response *domain.ServiceRecordResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, "2025-06-01", response.Date)
			},
		},
		{
			name:  "Cliente de outro usuário é rejeitado",
			input: &domain.ServiceRecordInput{ClientID: strPtr("c9"), Date: "2025-06-10"},
			setup: func() {
				clientRepo.EXPECT().GetByID(gomock.Any(), owner, "c9").Return(nil, nil)
			},
			validate: func(t *testing.T, _ *domain.ServiceRecordResponse, err error) {
				assertRecordError(t, err, ErrClientNotFound, apiErrors.ErrInvalidRequest)
			},
		},
		{
			name:  "Sem cliente",
			input: &domain.ServiceRecordInput{Date: "2025-06-10"},
			setup: func() {},
			validate: func(t *testing.T, _ *domain.ServiceRecordResponse, err error) {
				assertRecordError(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)
			},
		},
		{
			name:  "Sem data",
			input: &domain.ServiceRecordInput{ClientName: "José"},
			setup: func() {},
			validate: func(t *testing.T, _ *domain.ServiceRecordResponse, err error) {
				assertRecordError(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)
			},
		},
		{
			name:  "Data impossível",
			input: &domain.ServiceRecordInput{ClientName: "José", Date: "31/02/2025"},
			setup: func() {},
			validate: func(t *testing.T, _ *domain.ServiceRecordResponse, err error) {
				assertRecordError(t, err, ErrInvalidDate, apiErrors.ErrInvalidFormat)
			},
		},
		{
			name:  "Valor inválido",
			input: &domain.ServiceRecordInput{ClientName: "José", Date: "2025-06-10", Value: "cem reais"},
			setup: func() {},
			validate: func(t *testing.T, _ *domain.ServiceRecordResponse, err error) {
				assertRecordError(t, err, ErrInvalidValue, apiErrors.ErrInvalidFormat)
			},
		},
		{
			name:  "Corpo vazio",
			input: nil,
			setup: func() {},
			validate: func(t *testing.T, _ *domain.ServiceRecordResponse, err error) {
				assertRecordError(t, err, ErrMissingRequiredData, apiErrors.ErrInvalidRequest)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			response, err := service.Create(context.Background(), owner, tt.input)
			tt.validate(t, response, err)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, serviceRepo, _, summaryCache := newService(ctrl)

	t.Run("Atualiza e mantém o dono", func(t *testing.T) {
		serviceRepo.EXPECT().GetByID(gomock.Any(), owner, "a").Return(&domain.ServiceRecord{ID: "a", Owner: owner, ClientID: strPtr("c1"), ClientName: "Antigo", Date: "2025-01-01"}, nil)
		serviceRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, record *domain.ServiceRecord) error {
				assert.Equal(t, owner, record.Owner)
				assert.Nil(t, record.ClientID)
				return nil
			})
		summaryCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)

		response, err := service.Update(context.Background(), owner, "a", &domain.ServiceRecordInput{ClientName: "Avulso", Date: "2025-02-02", Status: "pago"})
		require.NoError(t, err)
		assert.Equal(t, "2025-02-02", response.Date)
		assert.Equal(t, domain.StatusClassSettled, response.StatusClass)
	})

	t.Run("Serviço inexistente", func(t *testing.T) {
		serviceRepo.EXPECT().GetByID(gomock.Any(), owner, "x").Return(nil, nil)

		_, err := service.Update(context.Background(), owner, "x", &domain.ServiceRecordInput{ClientName: "Avulso", Date: "2025-02-02"})
		assertRecordError(t, err, ErrServiceNotFound, apiErrors.ErrResourceNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service, serviceRepo, _, summaryCache := newService(ctrl)

	t.Run("Remove e invalida o cache", func(t *testing.T) {
		serviceRepo.EXPECT().Delete(gomock.Any(), owner, "a").Return(nil)
		summaryCache.EXPECT().Invalidate(gomock.Any(), owner).Return(nil)

		assert.NoError(t, service.Delete(context.Background(), owner, "a"))
	})

	t.Run("Serviço de outro usuário", func(t *testing.T) {
		serviceRepo.EXPECT().Delete(gomock.Any(), owner, "b").Return(repository.ErrNotFound)

		err := service.Delete(context.Background(), owner, "b")
		assertRecordError(t, err, ErrServiceNotFound, apiErrors.ErrResourceNotFound)
	})
}
