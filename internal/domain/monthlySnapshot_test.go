package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func entry(leadID string) LeadSnapshotEntry {
	return LeadSnapshotEntry{LeadID: leadID, Name: "Lead " + leadID}
}

func TestMonthlySnapshot_Merge(t *testing.T) {
	snapshot := &MonthlySnapshot{
		Kind:  ReportKindNewMembers,
		Year:  2025,
		Month: 10,
	}

	added, err := snapshot.Merge([]LeadSnapshotEntry{entry("A"), entry("B")})
	assert.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, snapshot.TotalCount)

	// Reapresentar uma entrada já vista não duplica nem altera a original
	modified := entry("A")
	modified.Name = "Nome Alterado"
	added, err = snapshot.Merge([]LeadSnapshotEntry{modified, entry("C")})
	assert.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 3, snapshot.TotalCount)
	assert.Equal(t, "Lead A", snapshot.Leads[0].Name)

	// Ordem de chegada preservada
	assert.Equal(t, "A", snapshot.Leads[0].LeadID)
	assert.Equal(t, "B", snapshot.Leads[1].LeadID)
	assert.Equal(t, "C", snapshot.Leads[2].LeadID)
}

func TestMonthlySnapshot_MergeFrozen(t *testing.T) {
	now := time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC)
	snapshot := &MonthlySnapshot{Kind: ReportKindNewMembers, Year: 2025, Month: 10}
	snapshot.Freeze([]LeadSnapshotEntry{entry("A")}, now)

	added, err := snapshot.Merge([]LeadSnapshotEntry{entry("B")})
	assert.ErrorIs(t, err, ErrSnapshotFrozen)
	assert.Equal(t, 0, added)
	assert.Equal(t, 1, snapshot.TotalCount)
}

func TestMonthlySnapshot_FreezeIsIdempotent(t *testing.T) {
	firstFreeze := time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC)
	snapshot := &MonthlySnapshot{Kind: ReportKindNewMembers, Year: 2025, Month: 10}

	assert.True(t, snapshot.Freeze([]LeadSnapshotEntry{entry("A"), entry("B")}, firstFreeze))
	assert.True(t, snapshot.IsArchived)
	assert.Equal(t, &firstFreeze, snapshot.ArchivedAt)

	// Segundo congelamento é um no-op: conteúdo e carimbo originais permanecem
	secondFreeze := firstFreeze.Add(48 * time.Hour)
	assert.False(t, snapshot.Freeze([]LeadSnapshotEntry{entry("C")}, secondFreeze))
	assert.Equal(t, 2, snapshot.TotalCount)
	assert.Equal(t, &firstFreeze, snapshot.ArchivedAt)
	assert.Equal(t, "A", snapshot.Leads[0].LeadID)
}

func TestPageEntries(t *testing.T) {
	entries := []LeadSnapshotEntry{entry("A"), entry("B"), entry("C"), entry("D"), entry("E")}

	tests := []struct {
		name  string
		page  int
		limit int
		want  []string
	}{
		{"Primeira página", 1, 2, []string{"A", "B"}},
		{"Página intermediária", 2, 2, []string{"C", "D"}},
		{"Última página parcial", 3, 2, []string{"E"}},
		{"Página além do fim", 4, 2, []string{}},
		{"Limite maior que o total", 1, 10, []string{"A", "B", "C", "D", "E"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageEntries(entries, tt.page, tt.limit)
			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.LeadID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestParseReportKind(t *testing.T) {
	kind, ok := ParseReportKind("new-members")
	assert.True(t, ok)
	assert.Equal(t, ReportKindNewMembers, kind)

	kind, ok = ParseReportKind("trial-attended")
	assert.True(t, ok)
	assert.Equal(t, ReportKindTrialAttended, kind)

	_, ok = ParseReportKind("monthly-sales")
	assert.False(t, ok)
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, StatusConverted, StatusForKind(ReportKindNewMembers))
	assert.Equal(t, StatusTrialAttended, StatusForKind(ReportKindTrialAttended))
}
