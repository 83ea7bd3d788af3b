package domain

import "time"

// TargetLedgerEntry é um registro imutável do histórico de metas de um mês.
// Entradas nunca são alteradas ou removidas, apenas anexadas.
type TargetLedgerEntry struct {
	Target      float64   `json:"target"`
	ChangedAt   time.Time `json:"changed_at"`
	Achievement float64   `json:"achievement"` // receita alcançada no momento da alteração
}

// MonthlyPerformance acompanha meta e realização de receita de um mês
type MonthlyPerformance struct {
	ID                   int                 `json:"id"`
	Year                 int                 `json:"year"`
	Month                int                 `json:"month"`
	Target               float64             `json:"target"`
	AchievedRevenue      float64             `json:"achieved_revenue"`
	ConvertedCount       int                 `json:"converted_count"`
	AverageRevenuePerDay float64             `json:"average_revenue_per_day"`
	TargetHistory        []TargetLedgerEntry `json:"target_history"`
	LastComputedAt       *time.Time          `json:"last_computed_at,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

// CurrentTarget retorna a meta vigente: a entrada do ledger com o
// changed_at mais recente, ou zero se nenhuma meta foi definida
func (p *MonthlyPerformance) CurrentTarget() float64 {
	var target float64
	var latest time.Time

	for _, entry := range p.TargetHistory {
		if entry.ChangedAt.After(latest) || latest.IsZero() {
			latest = entry.ChangedAt
			target = entry.Target
		}
	}
	return target
}

// AppendTarget anexa uma nova entrada ao ledger sem tocar nas anteriores
func (p *MonthlyPerformance) AppendTarget(target, achievement float64, now time.Time) {
	p.TargetHistory = append(p.TargetHistory, TargetLedgerEntry{
		Target:      target,
		ChangedAt:   now,
		Achievement: achievement,
	})
	p.Target = target
}

// PerformanceSummary é a resposta da consulta de desempenho mensal
type PerformanceSummary struct {
	Year                 int        `json:"year"`
	Month                int        `json:"month"`
	Target               float64    `json:"target"`
	AchievedRevenue      float64    `json:"achieved_revenue"`
	ConvertedCount       int        `json:"converted_count"`
	AverageRevenuePerDay float64    `json:"average_revenue_per_day"`
	LastComputedAt       *time.Time `json:"last_computed_at,omitempty"`
}

// TargetHistoryMonth agrupa o ledger de um mês para o endpoint de histórico
type TargetHistoryMonth struct {
	Year    int                 `json:"year"`
	Month   int                 `json:"month"`
	Entries []TargetLedgerEntry `json:"entries"`
}

// TargetHistoryResponse é a resposta do endpoint de histórico de metas
type TargetHistoryResponse struct {
	History []TargetHistoryMonth `json:"history"`
}
