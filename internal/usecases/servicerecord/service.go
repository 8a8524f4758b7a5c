package servicerecord

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/vfg2006/insect-control-api/infrastructure/cache"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/log"
)

type Manager interface {
	List(ctx context.Context, owner string, filters domain.ServiceRecordFilters) ([]*domain.ServiceRecordResponse, error)
	Get(ctx context.Context, owner, id string) (*domain.ServiceRecordResponse, error)
	Create(ctx context.Context, owner string, input *domain.ServiceRecordInput) (*domain.ServiceRecordResponse, error)
	Update(ctx context.Context, owner, id string, input *domain.ServiceRecordInput) (*domain.ServiceRecordResponse, error)
	Delete(ctx context.Context, owner, id string) error
}

type Service struct {
	serviceRepo repository.ServiceRecordRepository
	clientRepo  repository.ClientRepository
	cache       cache.SummaryCache
	policy      domain.SettlementPolicy
}

func NewService(
	serviceRepo repository.ServiceRecordRepository,
	clientRepo repository.ClientRepository,
	summaryCache cache.SummaryCache,
	policy domain.SettlementPolicy,
) Manager {
	return &Service{
		serviceRepo: serviceRepo,
		clientRepo:  clientRepo,
		cache:       summaryCache,
		policy:      policy,
	}
}

// List aplica os filtros e ordena pela data normalizada, mais recentes primeiro.
// Serviços sem data válida vão para o fim e só aparecem quando não há janela de datas.
func (s *Service) List(ctx context.Context, owner string, filters domain.ServiceRecordFilters) ([]*domain.ServiceRecordResponse, error) {
	window, err := filterWindow(filters)
	if err != nil {
		return nil, err
	}

	records, err := s.serviceRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, NewRecordError(err, apiErrors.ErrDatabaseOperation, "Erro ao listar serviços")
	}

	hasWindow := window.From != "" || window.To != ""
	responses := make([]*domain.ServiceRecordResponse, 0, len(records))
	for _, record := range records {
		if filters.Status != "" && record.Status != filters.Status {
			continue
		}
		if filters.ClientID != "" && (record.ClientID == nil || *record.ClientID != filters.ClientID) {
			continue
		}

		response := domain.NewServiceRecordResponse(record, s.policy)
		if hasWindow && (response.Date == "" || !window.Contains(response.Date)) {
			continue
		}
		responses = append(responses, response)
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Date > responses[j].Date
	})

	return responses, nil
}

func filterWindow(filters domain.ServiceRecordFilters) (domain.DateWindow, error) {
	window := domain.DateWindow{
		From: domain.NormalizeDate(filters.From),
		To:   domain.NormalizeDate(filters.To),
	}

	if (filters.From != "" && window.From == "") || (filters.To != "" && window.To == "") {
		return window, NewRecordError(ErrInvalidDate, apiErrors.ErrInvalidFormat, "Período inválido")
	}

	return window, nil
}

func (s *Service) Get(ctx context.Context, owner, id string) (*domain.ServiceRecordResponse, error) {
	record, err := s.get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	return domain.NewServiceRecordResponse(record, s.policy), nil
}

func (s *Service) get(ctx context.Context, owner, id string) (*domain.ServiceRecord, error) {
	record, err := s.serviceRepo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, NewRecordError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar serviço")
	}
	if record == nil {
		return nil, NewRecordError(ErrServiceNotFound, apiErrors.ErrResourceNotFound, "Serviço não encontrado")
	}

	return record, nil
}

func (s *Service) Create(ctx context.Context, owner string, input *domain.ServiceRecordInput) (*domain.ServiceRecordResponse, error) {
	record := &domain.ServiceRecord{Owner: owner}
	if err := s.apply(ctx, owner, record, input); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Create(ctx, record); err != nil {
		return nil, NewRecordError(err, apiErrors.ErrDatabaseOperation, "Erro ao criar serviço")
	}

	s.invalidate(ctx, owner)

	return domain.NewServiceRecordResponse(record, s.policy), nil
}

func (s *Service) Update(ctx context.Context, owner, id string, input *domain.ServiceRecordInput) (*domain.ServiceRecordResponse, error) {
	record, err := s.get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, owner, record, input); err != nil {
		return nil, err
	}

	err = s.serviceRepo.Update(ctx, record)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewRecordError(ErrServiceNotFound, apiErrors.ErrResourceNotFound, "Serviço não encontrado")
	}
	if err != nil {
		return nil, NewRecordError(err, apiErrors.ErrDatabaseOperation, "Erro ao atualizar serviço")
	}

	s.invalidate(ctx, owner)

	return domain.NewServiceRecordResponse(record, s.policy), nil
}

func (s *Service) Delete(ctx context.Context, owner, id string) error {
	err := s.serviceRepo.Delete(ctx, owner, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewRecordError(ErrServiceNotFound, apiErrors.ErrResourceNotFound, "Serviço não encontrado")
	}
	if err != nil {
		return NewRecordError(err, apiErrors.ErrDatabaseOperation, "Erro ao remover serviço")
	}

	s.invalidate(ctx, owner)

	return nil
}

// apply valida a entrada e copia os campos para o registro. A data é gravada como recebida.
func (s *Service) apply(ctx context.Context, owner string, record *domain.ServiceRecord, input *domain.ServiceRecordInput) error {
	if input == nil {
		return NewRecordError(ErrMissingRequiredData, apiErrors.ErrInvalidRequest, "Corpo da requisição vazio")
	}

	clientName := strings.TrimSpace(input.ClientName)
	var clientID *string
	if input.ClientID != nil && strings.TrimSpace(*input.ClientID) != "" {
		id := strings.TrimSpace(*input.ClientID)
		c, err := s.clientRepo.GetByID(ctx, owner, id)
		if err != nil {
			return NewRecordError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar cliente")
		}
		if c == nil {
			return NewRecordError(ErrClientNotFound, apiErrors.ErrInvalidRequest, "Cliente informado não existe")
		}
		clientID = &id
		clientName = c.Name
	}

	if clientName == "" {
		return NewRecordError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Cliente é obrigatório")
	}

	date := strings.TrimSpace(input.Date)
	if date == "" {
		return NewRecordError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Data é obrigatória")
	}
	if domain.NormalizeDate(date) == "" {
		return NewRecordError(ErrInvalidDate, apiErrors.ErrInvalidFormat, "Data inválida, use YYYY-MM-DD ou DD/MM/YYYY")
	}

	value := strings.TrimSpace(string(input.Value))
	if value != "" && !domain.IsValidMoney(value) {
		return NewRecordError(ErrInvalidValue, apiErrors.ErrInvalidFormat, "Valor inválido")
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = domain.DefaultStatus
	}

	record.ClientID = clientID
	record.ClientName = clientName
	record.Contact = strings.TrimSpace(input.Contact)
	record.Location = strings.TrimSpace(input.Location)
	record.Date = date
	record.ServiceType = strings.TrimSpace(input.ServiceType)
	record.Value = domain.MoneyText(value)
	record.Status = status

	return nil
}

func (s *Service) invalidate(ctx context.Context, owner string) {
	if err := s.cache.Invalidate(ctx, owner); err != nil {
		log.ForContext(ctx).WithError(err).WithField("owner", owner).Warn("servicerecord: falha ao invalidar cache do resumo")
	}
}
