package client

import (
	"errors"
	"fmt"
)

var (
	ErrClientNotFound      = errors.New("cliente não encontrado")
	ErrClientHasServices   = errors.New("cliente possui serviços vinculados")
	ErrMissingRequiredData = errors.New("dados obrigatórios ausentes")
	ErrDatabaseOperation   = errors.New("erro ao realizar operação no banco de dados")
)

// ClientError carrega o código de erro da API junto com o erro base
type ClientError struct {
	Err     error
	Code    string
	Details string
}

func (e *ClientError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

func NewClientError(baseErr error, code string, details string) *ClientError {
	return &ClientError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}
