package reporting

import (
	"errors"
	"fmt"

	"github.com/vfg2006/gym-manager-api/pkg/apiErrors"
)

// Tipos de erros de relatórios mensais
var (
	// Erros de validação
	ErrInvalidPeriod     = errors.New("período inválido")
	ErrInvalidReportKind = errors.New("tipo de relatório inválido")
	ErrInvalidPagination = errors.New("parâmetros de paginação inválidos")

	// Erros de banco de dados
	ErrLeadStoreUnavailable     = errors.New("erro ao consultar leads no banco de dados")
	ErrSnapshotStoreUnavailable = errors.New("erro ao consultar snapshots no banco de dados")
)

// ReportingError é um erro com contexto adicional para relatórios
type ReportingError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *ReportingError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *ReportingError) Unwrap() error {
	return e.Err
}

// NewReportingError cria um novo ReportingError. Quando o código não é
// informado ele é derivado do erro base.
func NewReportingError(err error, code string, details string) *ReportingError {
	if code == "" {
		code = codeForError(err)
	}

	return &ReportingError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

func codeForError(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrInvalidPagination):
		return apiErrors.ErrInvalidPeriod
	case errors.Is(err, ErrInvalidReportKind):
		return apiErrors.ErrInvalidReportKind
	case errors.Is(err, ErrLeadStoreUnavailable), errors.Is(err, ErrSnapshotStoreUnavailable):
		return apiErrors.ErrReportUnavailable
	}
	return apiErrors.ErrInternalServer
}

// IsValidationError verifica se o erro é de validação de entrada
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidReportKind) ||
		errors.Is(err, ErrInvalidPagination)
}
