package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/gym-manager-api/infrastructure/database/postgres"
	"github.com/vfg2006/gym-manager-api/internal/domain"
)

const (
	monthlyPerformanceTable = "monthly_performance mp"

	performanceColumns = "mp.id, mp.year, mp.month, mp.target, mp.achieved_revenue, mp.converted_count, mp.average_revenue_per_day, mp.target_history, mp.last_computed_at, mp.created_at, mp.updated_at"
)

type PerformanceRepository interface {
	GetByPeriod(year, month int) (*domain.MonthlyPerformance, error)
	SaveOrUpdate(performance *domain.MonthlyPerformance) error
	GetAll() ([]*domain.MonthlyPerformance, error)
}

type performanceRepository struct {
	conn *postgres.Connection
}

func NewPerformanceRepository(conn *postgres.Connection) PerformanceRepository {
	return &performanceRepository{
		conn: conn,
	}
}

func (r *performanceRepository) GetByPeriod(year, month int) (*domain.MonthlyPerformance, error) {
	query, args, err := squirrel.
		Select(performanceColumns).
		From(monthlyPerformanceTable).
		Where(squirrel.Eq{"mp.year": year, "mp.month": month}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	performance, err := r.scanPerformance(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear desempenho mensal: %w", err)
	}

	return performance, nil
}

// SaveOrUpdate faz upsert na chave única (year, month). O ledger inteiro é
// reescrito a cada save; o domínio garante que ele só cresce.
func (r *performanceRepository) SaveOrUpdate(performance *domain.MonthlyPerformance) error {
	historyJSON, err := json.Marshal(performance.TargetHistory)
	if err != nil {
		return fmt.Errorf("erro ao serializar histórico de metas para JSON: %w", err)
	}

	query := squirrel.StatementBuilder.
		Insert("monthly_performance").
		Columns("year", "month", "target", "achieved_revenue", "converted_count", "average_revenue_per_day", "target_history", "last_computed_at").
		Values(
			performance.Year,
			performance.Month,
			performance.Target,
			performance.AchievedRevenue,
			performance.ConvertedCount,
			performance.AverageRevenuePerDay,
			historyJSON,
			performance.LastComputedAt,
		).
		Suffix(`
			ON CONFLICT (year, month) DO UPDATE SET
				target = EXCLUDED.target,
				achieved_revenue = EXCLUDED.achieved_revenue,
				converted_count = EXCLUDED.converted_count,
				average_revenue_per_day = EXCLUDED.average_revenue_per_day,
				target_history = EXCLUDED.target_history,
				last_computed_at = EXCLUDED.last_computed_at,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

// GetAll retorna todos os registros mensais, do mais recente para o mais antigo
func (r *performanceRepository) GetAll() ([]*domain.MonthlyPerformance, error) {
	query, args, err := squirrel.
		Select(performanceColumns).
		From(monthlyPerformanceTable).
		OrderBy("mp.year DESC", "mp.month DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.MonthlyPerformance, 0)
	for rows.Next() {
		performance, err := r.scanPerformance(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear desempenho mensal: %w", err)
		}
		records = append(records, performance)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *performanceRepository) scanPerformance(scan func(dest ...interface{}) error) (*domain.MonthlyPerformance, error) {
	performance := &domain.MonthlyPerformance{}
	var historyJSON []byte

	err := scan(
		&performance.ID,
		&performance.Year,
		&performance.Month,
		&performance.Target,
		&performance.AchievedRevenue,
		&performance.ConvertedCount,
		&performance.AverageRevenuePerDay,
		&historyJSON,
		&performance.LastComputedAt,
		&performance.CreatedAt,
		&performance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	performance.TargetHistory = make([]domain.TargetLedgerEntry, 0)
	if historyJSON != nil {
		if err := json.Unmarshal(historyJSON, &performance.TargetHistory); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de target_history: %w", err)
		}
	}

	return performance, nil
}
