package domain

import "strings"

type StatusClass string

const (
	StatusClassSettled     StatusClass = "SETTLED"
	StatusClassOutstanding StatusClass = "OUTSTANDING"

	DefaultSettledStatus = "pago"
	DefaultStatus        = "Pendente"
)

// SettlementPolicy concentra a regra de "serviço pago" usada em todo o sistema
type SettlementPolicy struct {
	labels map[string]struct{}
}

// NewSettlementPolicy recebe os status considerados quitados. Sem rótulos, usa "pago".
func NewSettlementPolicy(labels ...string) SettlementPolicy {
	policy := SettlementPolicy{labels: make(map[string]struct{})}

	for _, label := range labels {
		label = strings.ToLower(strings.TrimSpace(label))
		if label != "" {
			policy.labels[label] = struct{}{}
		}
	}

	if len(policy.labels) == 0 {
		policy.labels[DefaultSettledStatus] = struct{}{}
	}

	return policy
}

func (p SettlementPolicy) IsSettled(status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	if p.labels == nil {
		return status == DefaultSettledStatus
	}

	_, ok := p.labels[status]
	return ok
}

func (p SettlementPolicy) Classify(status string) StatusClass {
	if p.IsSettled(status) {
		return StatusClassSettled
	}
	return StatusClassOutstanding
}
