// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import "time"

// LeadStatus é o conjunto fechado de estados do ciclo de vida de um lead.
// Nenhum matching dinâmico de strings é feito fora desta enumeração.
type LeadStatus string

const (
	StatusNew            LeadStatus = "New"
	StatusContacted      LeadStatus = "Contacted"
	StatusTrialScheduled LeadStatus = "Trial Scheduled"
	StatusTrialAttended  LeadStatus = "Trial Attended"
	StatusQualified      LeadStatus = "Qualified"
	StatusConverted      LeadStatus = "Converted"
	StatusLost           LeadStatus = "Lost"
)

// AllStatuses lista todos os estados válidos, na ordem do funil
var AllStatuses = []LeadStatus{
	StatusNew,
	StatusContacted,
	StatusTrialScheduled,
	StatusTrialAttended,
	StatusQualified,
	StatusConverted,
	StatusLost,
}

// ParseLeadStatus valida uma string contra a enumeração de estados
func ParseLeadStatus(s string) (LeadStatus, bool) {
	for _, status := range AllStatuses {
		if string(status) == s {
			return status, true
		}
	}
	return "", false
}

// Lead representa um prospecto ou membro convertido da academia.
// É a fonte de verdade mutável lida pela agregação mensal.
type Lead struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Phone           string      `json:"phone"`
	Email           string      `json:"email"`
	Interest        string      `json:"interest"`
	Plan            string      `json:"plan"`
	Source          string      `json:"source"`
	Status          LeadStatus  `json:"status"`
	Membership      *Membership `json:"membership,omitempty"`
	ConvertedAt     *time.Time  `json:"converted_at,omitempty"`
	TrialAttendedAt *time.Time  `json:"trial_attended_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Membership é o sub-registro de matrícula embutido no lead após a conversão
type Membership struct {
	PlanLabel   string     `json:"plan_label"`
	Amount      float64    `json:"amount"`
	PaymentMode string     `json:"payment_mode,omitempty"`
	Duration    string     `json:"duration,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// UpdateLeadRequest representa uma atualização parcial de um lead
type UpdateLeadRequest struct {
	ID         string      `json:"id"`
	Name       *string     `json:"name"`
	Phone      *string     `json:"phone"`
	Email      *string     `json:"email"`
	Interest   *string     `json:"interest"`
	Plan       *string     `json:"plan"`
	Source     *string     `json:"source"`
	Status     *string     `json:"status"`
	Membership *Membership `json:"membership"`
}
