package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		wantStart time.Time
		wantEnd   time.Time
		wantErr   bool
	}{
		{
			name:      "Mês comum",
			year:      2025,
			month:     10,
			wantStart: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 10, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "Fevereiro em ano bissexto",
			year:      2024,
			month:     2,
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:      "Dezembro vira o ano",
			year:      2025,
			month:     12,
			wantStart: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 12, 31, 23, 59, 59, 999999999, time.UTC),
		},
		{
			name:    "Mês zero é inválido",
			year:    2025,
			month:   0,
			wantErr: true,
		},
		{
			name:    "Mês 13 é inválido",
			year:    2025,
			month:   13,
			wantErr: true,
		},
		{
			name:    "Ano zero é inválido",
			year:    0,
			month:   5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := MonthRange(tt.year, tt.month)
			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPeriod)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, 1))
	assert.Equal(t, 28, DaysInMonth(2025, 2))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 30, DaysInMonth(2025, 11))
}

func TestElapsedDays(t *testing.T) {
	now := time.Date(2025, 10, 16, 12, 0, 0, 0, time.UTC)

	// Mês corrente: apenas os dias já decorridos
	assert.Equal(t, 16, ElapsedDays(2025, 10, now))

	// Mês encerrado: o mês inteiro
	assert.Equal(t, 30, ElapsedDays(2025, 9, now))

	// Mês futuro também usa o mês inteiro
	assert.Equal(t, 30, ElapsedDays(2025, 11, now))
}

func TestPreviousMonth(t *testing.T) {
	year, month := PreviousMonth(time.Date(2025, 11, 1, 5, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, year)
	assert.Equal(t, 10, month)

	// Janeiro volta para dezembro do ano anterior
	year, month = PreviousMonth(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, year)
	assert.Equal(t, 12, month)
}
