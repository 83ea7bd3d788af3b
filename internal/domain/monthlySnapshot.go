package domain

import (
	"errors"
	"time"
)

// ReportKind identifica o tipo de relatório mensal
type ReportKind string

const (
	ReportKindNewMembers    ReportKind = "new-members"
	ReportKindTrialAttended ReportKind = "trial-attended"
)

// ParseReportKind valida uma string contra os tipos de relatório suportados
func ParseReportKind(s string) (ReportKind, bool) {
	switch ReportKind(s) {
	case ReportKindNewMembers, ReportKindTrialAttended:
		return ReportKind(s), true
	}
	return "", false
}

// StatusForKind retorna o estado do funil que um lead precisa ter para
// entrar no relatório do tipo informado
func StatusForKind(kind ReportKind) LeadStatus {
	if kind == ReportKindTrialAttended {
		return StatusTrialAttended
	}
	return StatusConverted
}

// ErrSnapshotFrozen indica tentativa de mesclar dados em um snapshot já arquivado
var ErrSnapshotFrozen = errors.New("snapshot mensal já arquivado não aceita novas entradas")

// LeadSnapshotEntry é a cópia desnormalizada de um lead no momento da captura
type LeadSnapshotEntry struct {
	LeadID      string              `json:"lead_id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	Email       string              `json:"email"`
	Interest    string              `json:"interest"`
	Plan        string              `json:"plan"`
	Source      string              `json:"source"`
	Status      LeadStatus          `json:"status"`
	EffectiveAt time.Time           `json:"effective_at"`
	Membership  *MembershipSnapshot `json:"membership,omitempty"`
	ArchivedAt  time.Time           `json:"archived_at"`
}

// MembershipSnapshot congela os dados de matrícula relevantes para o relatório
type MembershipSnapshot struct {
	PlanLabel string     `json:"plan_label"`
	Amount    float64    `json:"amount"`
	Duration  string     `json:"duration,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// MonthlySnapshot é o documento mensal de um tipo de relatório.
// Enquanto IsArchived for falso o snapshot é provisório e aceita merges;
// depois de arquivado ele é imutável e serve as leituras diretamente.
type MonthlySnapshot struct {
	ID         int                 `json:"id"`
	Kind       ReportKind          `json:"kind"`
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	Leads      []LeadSnapshotEntry `json:"leads"`
	TotalCount int                 `json:"total_count"`
	IsArchived bool                `json:"is_archived"`
	ArchivedAt *time.Time          `json:"archived_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// Contains informa se um lead já foi capturado neste snapshot
func (s *MonthlySnapshot) Contains(leadID string) bool {
	for _, entry := range s.Leads {
		if entry.LeadID == leadID {
			return true
		}
	}
	return false
}

// Merge anexa ao snapshot provisório as entradas ainda não vistas,
// preservando ordem e conteúdo das entradas existentes (first-seen-wins).
// Retorna ErrSnapshotFrozen se o snapshot já foi arquivado.
func (s *MonthlySnapshot) Merge(entries []LeadSnapshotEntry) (int, error) {
	if s.IsArchived {
		return 0, ErrSnapshotFrozen
	}

	added := 0
	for _, entry := range entries {
		if s.Contains(entry.LeadID) {
			continue
		}
		s.Leads = append(s.Leads, entry)
		added++
	}

	s.TotalCount = len(s.Leads)
	return added, nil
}

// Freeze sela o snapshot com o conjunto final de entradas.
// Se já estiver arquivado a chamada é um no-op e retorna falso.
func (s *MonthlySnapshot) Freeze(entries []LeadSnapshotEntry, now time.Time) bool {
	if s.IsArchived {
		return false
	}

	s.Leads = entries
	s.TotalCount = len(entries)
	s.IsArchived = true
	s.ArchivedAt = &now
	return true
}

// Page devolve a fatia [(page-1)*limit, page*limit) das entradas armazenadas
func (s *MonthlySnapshot) Page(page, limit int) []LeadSnapshotEntry {
	return PageEntries(s.Leads, page, limit)
}

// PageEntries pagina uma sequência de entradas sem reordená-la
func PageEntries(entries []LeadSnapshotEntry, page, limit int) []LeadSnapshotEntry {
	start := (page - 1) * limit
	if start >= len(entries) || start < 0 {
		return []LeadSnapshotEntry{}
	}

	end := start + limit
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}

// MonthlyReportPage é a página de relatório devolvida para o cliente
type MonthlyReportPage struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	TotalCount int                 `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Data       []LeadSnapshotEntry `json:"data"`
	IsArchived bool                `json:"is_archived"`
	ArchivedAt *time.Time          `json:"archived_at,omitempty"`
}

// ArchiveSummary é o resultado de um comando de arquivamento
type ArchiveSummary struct {
	Kind       ReportKind `json:"kind"`
	Year       int        `json:"year"`
	Month      int        `json:"month"`
	TotalCount int        `json:"total_count"`
	ArchivedAt time.Time  `json:"archived_at"`
}
