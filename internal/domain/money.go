package domain

import (
	"bytes"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseMoney aceita "," ou "." como separador decimal. Valores inválidos valem zero.
func ParseMoney(text string) decimal.Decimal {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if normalized == "" {
		return decimal.Zero
	}

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}

	return value
}

// IsValidMoney indica se o texto é vazio ou um valor monetário reconhecível
func IsValidMoney(text string) bool {
	normalized := strings.TrimSpace(strings.ReplaceAll(text, ",", "."))
	if normalized == "" {
		return true
	}

	_, err := decimal.NewFromString(normalized)
	return err == nil
}

// MoneyText guarda o valor exatamente como informado pelo usuário.
// No JSON aceita tanto número quanto string.
type MoneyText string

func (m MoneyText) Decimal() decimal.Decimal {
	return ParseMoney(string(m))
}

func (m *MoneyText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := jsoniter.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MoneyText(s)
		return nil
	}

	if _, err := decimal.NewFromString(string(data)); err != nil {
		return fmt.Errorf("valor monetário inválido: %s", data)
	}
	*m = MoneyText(data)

	return nil
}
