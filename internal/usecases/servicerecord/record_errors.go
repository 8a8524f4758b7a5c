package servicerecord

import (
	"errors"
	"fmt"
)

var (
	ErrServiceNotFound     = errors.New("serviço não encontrado")
	ErrClientNotFound      = errors.New("cliente não encontrado")
	ErrInvalidDate         = errors.New("data inválida")
	ErrInvalidValue        = errors.New("valor inválido")
	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")
	ErrDatabaseOperation   = errors.New("erro ao realizar operação no banco de dados")
)

// RecordError carrega o código de erro da API junto com o erro base
type RecordError struct {
	Err     error
	Code    string
	Details string
}

func (e *RecordError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

func NewRecordError(baseErr error, code string, details string) *RecordError {
	return &RecordError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}
