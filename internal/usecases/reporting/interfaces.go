package reporting

import (
	"github.com/vfg2006/gym-manager-api/internal/domain"
)

// Reporter define as operações de relatório mensal e arquivamento
type Reporter interface {
	// GetMonthlyReport retorna uma página do relatório do mês. Para meses já
	// arquivados serve o snapshot congelado; para meses abertos agrega os
	// leads ao vivo e mescla o resultado no snapshot provisório.
	GetMonthlyReport(kind domain.ReportKind, year, month, page, limit int) (*domain.MonthlyReportPage, error)

	// ArchiveMonth congela o snapshot do mês. Idempotente: arquivar um mês
	// já congelado devolve o resumo existente sem reescrever nada.
	ArchiveMonth(kind domain.ReportKind, year, month int) (*domain.ArchiveSummary, error)

	// ArchivePreviousMonth congela o mês anterior para todos os tipos de relatório
	ArchivePreviousMonth() ([]*domain.ArchiveSummary, error)

	// MonthlyRevenue calcula a receita de conversões do mês a partir dos
	// valores de matrícula embutidos nos leads convertidos
	MonthlyRevenue(year, month int) (float64, int, error)
}
