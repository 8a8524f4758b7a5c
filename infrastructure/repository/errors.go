package repository

import "errors"

// ErrNotFound indica que o registro não existe ou pertence a outro usuário
var ErrNotFound = errors.New("registro não encontrado")
