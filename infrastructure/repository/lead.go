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
	leadsTable = "leads"

	leadColumns = "id, name, phone, email, interest, plan, source, status, membership, converted_at, trial_attended_at, created_at, updated_at"
)

type LeadRepository interface {
	Create(lead *domain.Lead) error
	Update(lead *domain.Lead) error
	GetByID(id string) (*domain.Lead, error)
	List(status *domain.LeadStatus) ([]*domain.Lead, error)
	GetByStatus(status domain.LeadStatus) ([]*domain.Lead, error)
}

type leadRepository struct {
	conn *postgres.Connection
}

func NewLeadRepository(conn *postgres.Connection) LeadRepository {
	return &leadRepository{
		conn: conn,
	}
}

func (r *leadRepository) Create(lead *domain.Lead) error {
	membershipJSON, err := marshalMembership(lead.Membership)
	if err != nil {
		return err
	}

	query := squirrel.StatementBuilder.
		Insert(leadsTable).
		Columns("id", "name", "phone", "email", "interest", "plan", "source", "status", "membership", "converted_at", "trial_attended_at").
		Values(
			lead.ID,
			lead.Name,
			lead.Phone,
			lead.Email,
			lead.Interest,
			lead.Plan,
			lead.Source,
			string(lead.Status),
			membershipJSON,
			lead.ConvertedAt,
			lead.TrialAttendedAt,
		).
		Suffix("RETURNING created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	err = r.conn.QueryRow(sqlQuery, args...).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *leadRepository) Update(lead *domain.Lead) error {
	membershipJSON, err := marshalMembership(lead.Membership)
	if err != nil {
		return err
	}

	query := squirrel.
		Update(leadsTable).
		Set("name", lead.Name).
		Set("phone", lead.Phone).
		Set("email", lead.Email).
		Set("interest", lead.Interest).
		Set("plan", lead.Plan).
		Set("source", lead.Source).
		Set("status", string(lead.Status)).
		Set("membership", membershipJSON).
		Set("converted_at", lead.ConvertedAt).
		Set("trial_attended_at", lead.TrialAttendedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lead.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("erro ao executar a query: %w", err)
	}

	return nil
}

func (r *leadRepository) GetByID(id string) (*domain.Lead, error) {
	query, args, err := squirrel.
		Select(leadColumns).
		From(leadsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)
	lead, err := r.scanLead(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear lead: %w", err)
	}

	return lead, nil
}

func (r *leadRepository) List(status *domain.LeadStatus) ([]*domain.Lead, error) {
	query := squirrel.
		Select(leadColumns).
		From(leadsTable).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if status != nil {
		query = query.Where(squirrel.Eq{"status": string(*status)})
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryLeads(sqlQuery, args)
}

// GetByStatus retorna todos os leads em um estado exato do funil.
// O filtro por janela de tempo é responsabilidade do agregador.
func (r *leadRepository) GetByStatus(status domain.LeadStatus) ([]*domain.Lead, error) {
	query, args, err := squirrel.
		Select(leadColumns).
		From(leadsTable).
		Where(squirrel.Eq{"status": string(status)}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	return r.queryLeads(query, args)
}

func (r *leadRepository) queryLeads(sqlQuery string, args []interface{}) ([]*domain.Lead, error) {
	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	leads := make([]*domain.Lead, 0)
	for rows.Next() {
		lead, err := r.scanLeadRows(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear leads: %w", err)
		}
		leads = append(leads, lead)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return leads, nil
}

func (r *leadRepository) scanLead(row *sql.Row) (*domain.Lead, error) {
	lead := &domain.Lead{}
	var status string
	var membershipJSON []byte

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Interest,
		&lead.Plan,
		&lead.Source,
		&status,
		&membershipJSON,
		&lead.ConvertedAt,
		&lead.TrialAttendedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.hydrateLead(lead, status, membershipJSON)
}

func (r *leadRepository) scanLeadRows(rows *sql.Rows) (*domain.Lead, error) {
	lead := &domain.Lead{}
	var status string
	var membershipJSON []byte

	err := rows.Scan(
		&lead.ID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.Interest,
		&lead.Plan,
		&lead.Source,
		&status,
		&membershipJSON,
		&lead.ConvertedAt,
		&lead.TrialAttendedAt,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return r.hydrateLead(lead, status, membershipJSON)
}

func (r *leadRepository) hydrateLead(lead *domain.Lead, status string, membershipJSON []byte) (*domain.Lead, error) {
	lead.Status = domain.LeadStatus(status)

	if membershipJSON != nil {
		membership := &domain.Membership{}
		if err := json.Unmarshal(membershipJSON, membership); err != nil {
			return nil, fmt.Errorf("erro ao deserializar JSON de membership: %w", err)
		}
		lead.Membership = membership
	}

	return lead, nil
}

func marshalMembership(membership *domain.Membership) ([]byte, error) {
	if membership == nil {
		return nil, nil
	}

	data, err := json.Marshal(membership)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar membership para JSON: %w", err)
	}
	return data, nil
}
