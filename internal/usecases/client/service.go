package client

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

import (
	"context"
	"errors"
	"strings"

	"github.com/vfg2006/insect-control-api/infrastructure/cache"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/pkg/apiErrors"
	"github.com/vfg2006/insect-control-api/pkg/log"
)

type Manager interface {
	List(ctx context.Context, owner string, filters domain.ClientFilters) ([]*domain.Client, error)
	Get(ctx context.Context, owner, id string) (*domain.Client, error)
	Create(ctx context.Context, owner string, input *domain.ClientInput) (*domain.Client, error)
	Update(ctx context.Context, owner, id string, input *domain.ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, owner, id string) error
}

type Service struct {
	clientRepo  repository.ClientRepository
	serviceRepo repository.ServiceRecordRepository
	cache       cache.SummaryCache
}

func NewService(clientRepo repository.ClientRepository, serviceRepo repository.ServiceRecordRepository, summaryCache cache.SummaryCache) Manager {
	return &Service{
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
		cache:       summaryCache,
	}
}

func (s *Service) List(ctx context.Context, owner string, filters domain.ClientFilters) ([]*domain.Client, error) {
	clients, err := s.clientRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, NewClientError(err, apiErrors.ErrDatabaseOperation, "Erro ao listar clientes")
	}

	query := strings.ToLower(strings.TrimSpace(filters.Query))
	if query == "" {
		return clients, nil
	}

	filtered := make([]*domain.Client, 0, len(clients))
	for _, c := range clients {
		if matches(c, query) {
			filtered = append(filtered, c)
		}
	}

	return filtered, nil
}

func matches(c *domain.Client, query string) bool {
	for _, field := range []string{c.Name, c.Phone, c.Email, c.City, c.Neighborhood} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (s *Service) Get(ctx context.Context, owner, id string) (*domain.Client, error) {
	c, err := s.clientRepo.GetByID(ctx, owner, id)
	if err != nil {
		return nil, NewClientError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar cliente")
	}
	if c == nil {
		return nil, NewClientError(ErrClientNotFound, apiErrors.ErrResourceNotFound, "Cliente não encontrado")
	}

	return c, nil
}

func (s *Service) Create(ctx context.Context, owner string, input *domain.ClientInput) (*domain.Client, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	c := &domain.Client{Owner: owner}
	apply(c, input)

	if err := s.clientRepo.Create(ctx, c); err != nil {
		return nil, NewClientError(err, apiErrors.ErrDatabaseOperation, "Erro ao criar cliente")
	}

	s.invalidate(ctx, owner)

	return c, nil
}

func (s *Service) Update(ctx context.Context, owner, id string, input *domain.ClientInput) (*domain.Client, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	c, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	apply(c, input)

	err = s.clientRepo.Update(ctx, c)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NewClientError(ErrClientNotFound, apiErrors.ErrResourceNotFound, "Cliente não encontrado")
	}
	if err != nil {
		return nil, NewClientError(err, apiErrors.ErrDatabaseOperation, "Erro ao atualizar cliente")
	}

	s.invalidate(ctx, owner)

	return c, nil
}

// Delete recusa a remoção de clientes que ainda possuem serviços
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}

	total, err := s.serviceRepo.CountByClient(ctx, owner, id)
	if err != nil {
		return NewClientError(err, apiErrors.ErrDatabaseOperation, "Erro ao consultar serviços do cliente")
	}
	if total > 0 {
		return NewClientError(ErrClientHasServices, apiErrors.ErrResourceInUse, "Cliente possui serviços vinculados")
	}

	err = s.clientRepo.Delete(ctx, owner, id)
	if errors.Is(err, repository.ErrNotFound) {
		return NewClientError(ErrClientNotFound, apiErrors.ErrResourceNotFound, "Cliente não encontrado")
	}
	if err != nil {
		return NewClientError(err, apiErrors.ErrDatabaseOperation, "Erro ao remover cliente")
	}

	s.invalidate(ctx, owner)

	return nil
}

func (s *Service) invalidate(ctx context.Context, owner string) {
	if err := s.cache.Invalidate(ctx, owner); err != nil {
		log.ForContext(ctx).WithError(err).WithField("owner", owner).Warn("client: falha ao invalidar cache do resumo")
	}
}

func validate(input *domain.ClientInput) error {
	if input == nil || strings.TrimSpace(input.Name) == "" {
		return NewClientError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Nome do cliente é obrigatório")
	}
	return nil
}

func apply(c *domain.Client, input *domain.ClientInput) {
	c.Name = strings.TrimSpace(input.Name)
	c.Phone = strings.TrimSpace(input.Phone)
	c.Address = strings.TrimSpace(input.Address)
	c.City = strings.TrimSpace(input.City)
	c.Neighborhood = strings.TrimSpace(input.Neighborhood)
	c.Email = strings.ToLower(strings.TrimSpace(input.Email))
}
