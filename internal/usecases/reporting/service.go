package reporting

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/insect-control-api/infrastructure/cache"
	"github.com/vfg2006/insect-control-api/infrastructure/repository"
	"github.com/vfg2006/insect-control-api/internal/domain"
	"github.com/vfg2006/insect-control-api/pkg/log"
	"golang.org/x/sync/errgroup"
)

const recentServicesLimit = 8

type Reporter interface {
	GetSummary(ctx context.Context, owner string) (*domain.ServicesSummary, error)
	GetAgenda(ctx context.Context, owner string, window domain.DateWindow) (*domain.Agenda, error)
	GetDashboard(ctx context.Context, owner string, now time.Time) (*domain.Dashboard, error)
	WarmUp(ctx context.Context, owner string) error
}

type Service struct {
	clientRepo  repository.ClientRepository
	serviceRepo repository.ServiceRecordRepository
	cache       cache.SummaryCache
	policy      domain.SettlementPolicy
}

func NewService(
	clientRepo repository.ClientRepository,
	serviceRepo repository.ServiceRecordRepository,
	summaryCache cache.SummaryCache,
	policy domain.SettlementPolicy,
) Reporter {
	return &Service{
		clientRepo:  clientRepo,
		serviceRepo: serviceRepo,
		cache:       summaryCache,
		policy:      policy,
	}
}

// GetSummary devolve o resumo em cache da geração atual ou recalcula.
// A geração é lida antes da consulta, então um resultado calculado antes de uma escrita
// fica gravado sob uma geração antiga e nunca é servido depois dela.
func (s *Service) GetSummary(ctx context.Context, owner string) (*domain.ServicesSummary, error) {
	logger := log.ForContext(ctx).WithField("owner", owner)

	generation, err := s.cache.Generation(ctx, owner)
	if err != nil {
		logger.WithError(err).Warn("reporting: falha ao ler geração do cache, calculando sem cache")
		return s.compute(ctx, owner)
	}

	cached, found, err := s.cache.Get(ctx, owner, generation)
	if err != nil {
		logger.WithError(err).Warn("reporting: falha ao ler resumo do cache")
	}
	if found {
		return cached, nil
	}

	summary, err := s.compute(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, owner, generation, summary); err != nil {
		logger.WithError(err).Warn("reporting: falha ao gravar resumo no cache")
	}

	return summary, nil
}

// WarmUp recalcula o resumo e grava no cache
func (s *Service) WarmUp(ctx context.Context, owner string) error {
	generation, err := s.cache.Generation(ctx, owner)
	if err != nil {
		return errors.Wrap(err, "erro ao ler geração do cache")
	}

	summary, err := s.compute(ctx, owner)
	if err != nil {
		return err
	}

	return s.cache.Set(ctx, owner, generation, summary)
}

func (s *Service) compute(ctx context.Context, owner string) (*domain.ServicesSummary, error) {
	records, err := s.serviceRepo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao listar serviços")
	}

	return Summarize(owner, records, s.policy), nil
}

func (s *Service) GetAgenda(ctx context.Context, owner string, window domain.DateWindow) (*domain.Agenda, error) {
	clients, records, err := s.fetch(ctx, owner)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	agenda := &domain.Agenda{
		From: window.From,
		To:   window.To,
		Days: make([]*domain.AgendaDayResponse, 0),
	}

	for _, day := range GroupAgenda(owner, records, window) {
		items := make([]*domain.AgendaItem, 0, len(day.Items))
		for _, record := range day.Items {
			items = append(items, &domain.AgendaItem{
				ID:          record.ID,
				ClientName:  displayName(record, names),
				Contact:     record.Contact,
				Location:    record.Location,
				ServiceType: record.ServiceType,
				Value:       record.Value,
				Status:      record.Status,
				StatusClass: s.policy.Classify(record.Status),
			})
		}
		agenda.Days = append(agenda.Days, &domain.AgendaDayResponse{Date: day.DateKey, Items: items})
	}

	return agenda, nil
}

// GetDashboard resume o mês corrente de now
func (s *Service) GetDashboard(ctx context.Context, owner string, now time.Time) (*domain.Dashboard, error) {
	clients, records, err := s.fetch(ctx, owner)
	if err != nil {
		return nil, err
	}

	month := domain.MonthKey(now)
	dashboard := &domain.Dashboard{
		Month:        month,
		ClientsTotal: len(clients),
		RevenueMonth: decimal.Zero,
		Recent:       make([]*domain.ServiceRecordResponse, 0, recentServicesLimit),
	}

	owned := make([]*domain.ServiceRecord, 0, len(records))
	for _, record := range records {
		if record == nil || record.Owner != owner {
			continue
		}
		owned = append(owned, record)

		if domain.MonthKey(record.Date) != month {
			continue
		}
		dashboard.ServicesMonth++
		if s.policy.IsSettled(record.Status) {
			dashboard.RevenueMonth = dashboard.RevenueMonth.Add(record.Value.Decimal())
		} else {
			dashboard.PendingMonth++
		}
	}

	// mais recentes pela data do serviço; empate pela data de cadastro
	sort.SliceStable(owned, func(i, j int) bool {
		di, dj := owned[i].NormalizedDate(), owned[j].NormalizedDate()
		if di != dj {
			return di > dj
		}
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	for i := 0; i < len(owned) && i < recentServicesLimit; i++ {
		dashboard.Recent = append(dashboard.Recent, domain.NewServiceRecordResponse(owned[i], s.policy))
	}

	return dashboard, nil
}

func (s *Service) fetch(ctx context.Context, owner string) ([]*domain.Client, []*domain.ServiceRecord, error) {
	var (
		clients []*domain.Client
		records []*domain.ServiceRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		clients, err = s.clientRepo.ListByOwner(gctx, owner)
		return errors.Wrap(err, "erro ao listar clientes")
	})
	g.Go(func() error {
		var err error
		records, err = s.serviceRepo.ListByOwner(gctx, owner)
		return errors.Wrap(err, "erro ao listar serviços")
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return clients, records, nil
}

// displayName prioriza o nome atual do cliente vinculado
func displayName(record *domain.ServiceRecord, names map[string]string) string {
	if record.ClientID != nil {
		if name, ok := names[*record.ClientID]; ok && name != "" {
			return name
		}
	}
	if record.ClientName != "" {
		return record.ClientName
	}
	if record.ClientID != nil {
		return *record.ClientID
	}
	return ""
}
