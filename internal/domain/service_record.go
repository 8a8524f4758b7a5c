package domain

import "time"

// ServiceRecord é um serviço de controle de pragas realizado ou agendado.
// Date guarda o valor bruto vindo do store (string ou timestamp nativo).
type ServiceRecord struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	ClientID    *string   `json:"client_id"`
	ClientName  string    `json:"client_name"`
	Contact     string    `json:"contact"`
	Location    string    `json:"location"`
	Date        any       `json:"-"`
	ServiceType string    `json:"service_type"`
	Value       MoneyText `json:"value"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NormalizedDate é a data do serviço em YYYY-MM-DD, ou "" quando inválida
func (r *ServiceRecord) NormalizedDate() string {
	return NormalizeDate(r.Date)
}

type ServiceRecordInput struct {
	ClientID    *string   `json:"client_id"`
	ClientName  string    `json:"client_name"`
	Contact     string    `json:"contact"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	ServiceType string    `json:"service_type"`
	Value       MoneyText `json:"value"`
	Status      string    `json:"status"`
}

type ServiceRecordFilters struct {
	Status   string
	From     string
	To       string
	ClientID string
}

// ServiceRecordResponse é a representação exposta na API
type ServiceRecordResponse struct {
	ID          string      `json:"id"`
	ClientID    *string     `json:"client_id"`
	ClientName  string      `json:"client_name"`
	Contact     string      `json:"contact"`
	Location    string      `json:"location"`
	Date        string      `json:"date"`
	ServiceType string      `json:"service_type"`
	Value       MoneyText   `json:"value"`
	Status      string      `json:"status"`
	StatusClass StatusClass `json:"status_class"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func NewServiceRecordResponse(record *ServiceRecord, policy SettlementPolicy) *ServiceRecordResponse {
	return &ServiceRecordResponse{
		ID:          record.ID,
		ClientID:    record.ClientID,
		ClientName:  record.ClientName,
		Contact:     record.Contact,
		Location:    record.Location,
		Date:        record.NormalizedDate(),
		ServiceType: record.ServiceType,
		Value:       record.Value,
		Status:      record.Status,
		StatusClass: policy.Classify(record.Status),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}
