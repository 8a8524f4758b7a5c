package reporting

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/insect-control-api/internal/domain"
)

const (
	topTypesLimit      = 10
	monthsRankingLimit = 24
)

// Summarize calcula o resumo de serviços do usuário em uma única passada.
// Registros de outros donos são ignorados. Não altera os registros recebidos.
func Summarize(owner string, records []*domain.ServiceRecord, policy domain.SettlementPolicy) *domain.ServicesSummary {
	summary := &domain.ServicesSummary{
		TotalRevenuePaid: decimal.Zero,
		RevenueByMonth:   make(map[string]decimal.Decimal),
		BestMonth:        domain.NoValueLabel,
		BestMonthValue:   decimal.Zero,
		CountByType:      make(map[string]int),
		TopType:          domain.NoValueLabel,
		TopTypes:         []domain.TypeCount{},
		MonthsRanking:    []domain.MonthValue{},
		CountByStatus:    make(map[string]int),
	}

	// ordem de primeira aparição, usada nos desempates
	var monthOrder, typeOrder []string

	for _, record := range records {
		if record == nil || record.Owner != owner {
			continue
		}

		summary.TotalServices++
		summary.CountByStatus[record.Status]++

		serviceType := strings.TrimSpace(record.ServiceType)
		if serviceType == "" {
			serviceType = domain.UntypedLabel
		}
		if _, seen := summary.CountByType[serviceType]; !seen {
			typeOrder = append(typeOrder, serviceType)
		}
		summary.CountByType[serviceType]++

		if !policy.IsSettled(record.Status) {
			continue
		}

		value := record.Value.Decimal()
		summary.TotalRevenuePaid = summary.TotalRevenuePaid.Add(value)

		month := domain.MonthKey(record.Date)
		if month == "" {
			continue
		}

		current, seen := summary.RevenueByMonth[month]
		if !seen {
			monthOrder = append(monthOrder, month)
			current = decimal.Zero
		}
		summary.RevenueByMonth[month] = current.Add(value)
	}

	for i, month := range monthOrder {
		value := summary.RevenueByMonth[month]
		if i == 0 || value.GreaterThan(summary.BestMonthValue) {
			summary.BestMonth = month
			summary.BestMonthValue = value
		}
		summary.MonthsRanking = append(summary.MonthsRanking, domain.MonthValue{Month: month, Value: value})
	}

	for i, serviceType := range typeOrder {
		count := summary.CountByType[serviceType]
		if i == 0 || count > summary.TopTypeCount {
			summary.TopType = serviceType
			summary.TopTypeCount = count
		}
		summary.TopTypes = append(summary.TopTypes, domain.TypeCount{Type: serviceType, Count: count})
	}

	sort.SliceStable(summary.TopTypes, func(i, j int) bool {
		return summary.TopTypes[i].Count > summary.TopTypes[j].Count
	})
	if len(summary.TopTypes) > topTypesLimit {
		summary.TopTypes = summary.TopTypes[:topTypesLimit]
	}

	sort.SliceStable(summary.MonthsRanking, func(i, j int) bool {
		return summary.MonthsRanking[i].Value.GreaterThan(summary.MonthsRanking[j].Value)
	})
	if len(summary.MonthsRanking) > monthsRankingLimit {
		summary.MonthsRanking = summary.MonthsRanking[:monthsRankingLimit]
	}

	return summary
}

// GroupAgenda agrupa por data os serviços do usuário dentro da janela [from, to].
// Datas inválidas ficam de fora. Os dias saem em ordem crescente e os itens
// de cada dia ordenados por ID.
func GroupAgenda(owner string, records []*domain.ServiceRecord, window domain.DateWindow) []domain.AgendaDay {
	buckets := make(map[string][]*domain.ServiceRecord)

	for _, record := range records {
		if record == nil || record.Owner != owner {
			continue
		}

		date := record.NormalizedDate()
		if date == "" || !window.Contains(date) {
			continue
		}

		buckets[date] = append(buckets[date], record)
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	days := make([]domain.AgendaDay, 0, len(keys))
	for _, key := range keys {
		items := buckets[key]
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ID < items[j].ID
		})

		days = append(days, domain.AgendaDay{DateKey: key, Items: items})
	}

	return days
}
