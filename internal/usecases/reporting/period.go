package reporting

import "time"

// MonthRange calcula o intervalo UTC inclusivo de um mês do calendário:
// do primeiro instante do dia 1 até o último instante do último dia.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, NewReportingError(ErrInvalidPeriod, "", "mês deve estar entre 1 e 12")
	}

	if year < 1 {
		return time.Time{}, time.Time{}, NewReportingError(ErrInvalidPeriod, "", "ano inválido")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// DaysInMonth retorna a quantidade de dias do mês do calendário
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 1, 0).
		Add(-time.Nanosecond).
		Day()
}

// ElapsedDays retorna quantos dias do mês devem entrar no cálculo de média
// diária: os dias já decorridos se o mês é o corrente, senão o mês inteiro
func ElapsedDays(year, month int, now time.Time) int {
	now = now.UTC()
	if now.Year() == year && int(now.Month()) == month {
		return now.Day()
	}
	return DaysInMonth(year, month)
}

// PreviousMonth retorna o (ano, mês) do mês anterior à data informada
func PreviousMonth(now time.Time) (int, int) {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}
