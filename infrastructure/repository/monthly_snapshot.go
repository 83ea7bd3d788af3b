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
	monthlySnapshotsTable = "monthly_snapshots ms"
)

// MonthlySnapshotRepository é o armazenamento chaveado por (kind, year, month).
// Toda leitura e escrita de snapshots passa por aqui, para que a política de
// concorrência possa ser trocada em um único lugar.
type MonthlySnapshotRepository interface {
	GetByPeriod(kind domain.ReportKind, year, month int) (*domain.MonthlySnapshot, error)
	SaveOrUpdate(snapshot *domain.MonthlySnapshot) error
}

type monthlySnapshotRepository struct {
	conn *postgres.Connection
}

func NewMonthlySnapshotRepository(conn *postgres.Connection) MonthlySnapshotRepository {
	return &monthlySnapshotRepository{
		conn: conn,
	}
}

// GetByPeriod retorna o snapshot do período ou nil se ainda não existe
func (r *monthlySnapshotRepository) GetByPeriod(kind domain.ReportKind, year, month int) (*domain.MonthlySnapshot, error) {
	query, args, err := squirrel.
		Select("ms.id, ms.kind, ms.year, ms.month, ms.leads, ms.total_count, ms.is_archived, ms.archived_at, ms.created_at, ms.updated_at").
		From(monthlySnapshotsTable).
		Where(squirrel.Eq{"ms.kind": string(kind), "ms.year": year, "ms.month": month}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	snapshot, err := r.scanSnapshot(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear snapshot mensal: %w", err)
	}

	return snapshot, nil
}

// SaveOrUpdate faz upsert do snapshot na chave única (kind, year, month).
// A escrita da linha é atômica; leituras concorrentes do mesmo mês provisório
// seguem last-write-wins, como documentado no serviço de relatórios.
func (r *monthlySnapshotRepository) SaveOrUpdate(snapshot *domain.MonthlySnapshot) error {
	leadsJSON, err := json.Marshal(snapshot.Leads)
	if err != nil {
		return fmt.Errorf("erro ao serializar leads para JSON: %w", err)
	}

	query := squirrel.StatementBuilder.
		Insert("monthly_snapshots").
		Columns("kind", "year", "month", "leads", "total_count", "is_archived", "archived_at").
		Values(
			string(snapshot.Kind),
			snapshot.Year,
			snapshot.Month,
			leadsJSON,
			snapshot.TotalCount,
			snapshot.IsArchived,
			snapshot.ArchivedAt,
		).
		Suffix(`
			ON CONFLICT (kind, year, month) DO UPDATE SET
				leads = EXCLUDED.leads,
				total_count = EXCLUDED.total_count,
				is_archived = EXCLUDED.is_archived,
				archived_at = EXCLUDED.archived_at,
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

func (r *monthlySnapshotRepository) scanSnapshot(row *sql.Row) (*domain.MonthlySnapshot, error) {
	snapshot := &domain.MonthlySnapshot{}
	var kind string
	var leadsJSON []byte

	err := row.Scan(
		&snapshot.ID,
		&kind,
		&snapshot.Year,
		&snapshot.Month,
		&leadsJSON,
		&snapshot.TotalCount,
		&snapshot.IsArchived,
		&snapshot.ArchivedAt,
		&snapshot.CreatedAt,
		&snapshot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	snapshot.Kind = domain.ReportKind(kind)
	snapshot.Leads = make([]domain.LeadSnapshotEntry, 0)

	if leadsJSON != nil {
		if err := json.Unmarshal(leadsJSON, &snapshot.Leads); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de leads: %w", err)
		}
	}

	return snapshot, nil
}
