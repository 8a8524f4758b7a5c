package domain

import "github.com/shopspring/decimal"

const (
	// NoValueLabel é usado quando não existe melhor mês ou tipo mais frequente
	NoValueLabel = "—"
	// UntypedLabel agrupa serviços sem tipo informado
	UntypedLabel = "Sem tipo"
)

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type MonthValue struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// ServicesSummary é o resumo de serviços e faturamento de um usuário
type ServicesSummary struct {
	TotalServices    int                        `json:"total_services"`
	TotalRevenuePaid decimal.Decimal            `json:"total_revenue_paid"`
	RevenueByMonth   map[string]decimal.Decimal `json:"revenue_by_month"`
	BestMonth        string                     `json:"best_month"`
	BestMonthValue   decimal.Decimal            `json:"best_month_value"`
	CountByType      map[string]int             `json:"count_by_type"`
	TopType          string                     `json:"top_type"`
	TopTypeCount     int                        `json:"top_type_count"`
	TopTypes         []TypeCount                `json:"top_types"`
	MonthsRanking    []MonthValue               `json:"months_ranking"`
	CountByStatus    map[string]int             `json:"count_by_status"`
}

type DateWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Contains compara lexicograficamente datas no formato YYYY-MM-DD
func (w DateWindow) Contains(date string) bool {
	if w.From != "" && date < w.From {
		return false
	}
	if w.To != "" && date > w.To {
		return false
	}
	return true
}

type AgendaDay struct {
	DateKey string           `json:"date"`
	Items   []*ServiceRecord `json:"-"`
}

type AgendaItem struct {
	ID          string      `json:"id"`
	ClientName  string      `json:"client_name"`
	Contact     string      `json:"contact"`
	Location    string      `json:"location"`
	ServiceType string      `json:"service_type"`
	Value       MoneyText   `json:"value"`
	Status      string      `json:"status"`
	StatusClass StatusClass `json:"status_class"`
}

type AgendaDayResponse struct {
	Date  string        `json:"date"`
	Items []*AgendaItem `json:"items"`
}

type Agenda struct {
	From string               `json:"from"`
	To   string               `json:"to"`
	Days []*AgendaDayResponse `json:"days"`
}

// Dashboard é a visão geral do mês corrente
type Dashboard struct {
	Month         string                   `json:"month"`
	ClientsTotal  int                      `json:"clients_total"`
	ServicesMonth int                      `json:"services_month"`
	PendingMonth  int                      `json:"pending_month"`
	RevenueMonth  decimal.Decimal          `json:"revenue_month"`
	Recent        []*ServiceRecordResponse `json:"recent"`
}
