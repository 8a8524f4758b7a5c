package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettlementPolicy(t *testing.T) {
	tests := []struct {
		name    string
		policy  SettlementPolicy
		status  string
		settled bool
	}{
		{name: "padrão aceita pago", policy: NewSettlementPolicy(), status: "pago", settled: true},
		{name: "padrão ignora caixa", policy: NewSettlementPolicy(), status: "PAGO", settled: true},
		{name: "padrão rejeita pendente", policy: NewSettlementPolicy(), status: "Pendente", settled: false},
		{name: "valor zero se comporta como padrão", policy: SettlementPolicy{}, status: "Pago", settled: true},
		{name: "rótulos configurados", policy: NewSettlementPolicy("Pago", " CONCLUIDO "), status: "concluido", settled: true},
		{name: "rótulos em branco caem no padrão", policy: NewSettlementPolicy(" ", ""), status: "pago", settled: true},
		{name: "rótulo não configurado", policy: NewSettlementPolicy("concluido"), status: "pago", settled: false},
		{name: "status com espaços do legado", policy: NewSettlementPolicy(), status: "Pago ", settled: true},
		{name: "status com espaços e rótulo configurado", policy: NewSettlementPolicy("quitado"), status: "  QUITADO", settled: true},
		{name: "valor zero com espaços", policy: SettlementPolicy{}, status: " pago", settled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.settled, tt.policy.IsSettled(tt.status))

			want := StatusClassOutstanding
			if tt.settled {
				want = StatusClassSettled
			}
			assert.Equal(t, want, tt.policy.Classify(tt.status))
		})
	}
}
