package tracking

import (
	"errors"
	"fmt"

	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
)

// Tipos de erros de acompanhamento de desempenho
var (
	// Erros de validação
	ErrNegativeTarget = errors.New("meta não pode ser negativa")

	// Erros de banco de dados
	ErrPerformanceStoreUnavailable = errors.New("erro ao consultar desempenho no banco de dados")
)

// TrackingError é um erro com contexto adicional para o acompanhamento de metas
type TrackingError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *TrackingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *TrackingError) Unwrap() error {
	return e.Err
}

// NewTrackingError cria um novo TrackingError, derivando o código do erro base
// quando não informado
func NewTrackingError(err error, code string, details string) *TrackingError {
	if code == "" {
		switch {
		case errors.Is(err, ErrNegativeTarget):
			code = apiErrors.ErrNegativeTarget
		case errors.Is(err, ErrPerformanceStoreUnavailable):
			code = apiErrors.ErrPerformanceUnavailable
		default:
			code = apiErrors.ErrInternalServer
		}
	}

	return &TrackingError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}
