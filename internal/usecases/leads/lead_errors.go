package leads

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de leads
var (
	// Erros de validação
	ErrLeadIDRequired   = errors.New("lead ID is required")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrNameRequired     = errors.New("lead name is required")
	ErrPhoneRequired    = errors.New("lead phone is required")
	ErrInvalidStatus    = errors.New("invalid lead status")
	ErrMembershipAmount = errors.New("membership amount must not be negative")

	// Erros de banco de dados
	ErrDatabaseOperation = errors.New("database operation error")

	// Erros de geração de identificador
	ErrGenerateID = errors.New("error generating lead ID")
)

// LeadError é um erro com contexto adicional para leads
type LeadError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	LeadID  string // ID do lead envolvido (quando aplicável)
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *LeadError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *LeadError) Unwrap() error {
	return e.Err
}

// NewLeadError cria um novo LeadError
func NewLeadError(err error, code string, details string) *LeadError {
	return &LeadError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewLeadErrorWithID cria um novo LeadError com o ID do lead
func NewLeadErrorWithID(err error, code string, leadID string, details string) *LeadError {
	return &LeadError{
		Err:     err,
		Code:    code,
		LeadID:  leadID,
		Details: details,
	}
}
