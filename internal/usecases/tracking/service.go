package tracking

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/gym-manager-api/infrastructure/repository"
	"github.com/vfg2006/gym-manager-api/internal/domain"
	"github.com/vfg2006/gym-manager-api/internal/usecases/reporting"
	"github.com/vfg2006/gym-manager-api/pkg/utils"
)

// Tracker define as operações de meta e desempenho mensal
type Tracker interface {
	// SetTarget define a meta do mês e anexa uma entrada ao ledger de metas.
	// O ledger é append-only: entradas anteriores nunca são tocadas.
	SetTarget(year, month int, target float64) (*domain.PerformanceSummary, error)

	// GetPerformance retorna meta e realização do mês. Sem meta definida
	// devolve zeros sem varrer a receita.
	GetPerformance(year, month int) (*domain.PerformanceSummary, error)

	// GetTargetHistory retorna o ledger completo de metas de todos os meses
	GetTargetHistory() (*domain.TargetHistoryResponse, error)
}

// Service implementa Tracker sobre o repositório de desempenho, usando o
// agregador de relatórios para o cálculo de receita alcançada
type Service struct {
	performanceRepo repository.PerformanceRepository
	reporter        reporting.Reporter
	now             func() time.Time
}

// NewService cria uma nova instância do serviço de acompanhamento de metas
func NewService(
	performanceRepo repository.PerformanceRepository,
	reporter reporting.Reporter,
) Tracker {
	return &Service{
		performanceRepo: performanceRepo,
		reporter:        reporter,
		now:             time.Now,
	}
}

// SetTarget define a meta do mês, recalculando a realização no momento da
// alteração e fotografando-a junto da nova entrada do ledger
func (s *Service) SetTarget(year, month int, target float64) (*domain.PerformanceSummary, error) {
	if _, _, err := reporting.MonthRange(year, month); err != nil {
		return nil, err
	}

	if target < 0 {
		return nil, NewTrackingError(ErrNegativeTarget, "", "")
	}

	performance, err := s.performanceRepo.GetByPeriod(year, month)
	if err != nil {
		return nil, NewTrackingError(ErrPerformanceStoreUnavailable, "", err.Error())
	}

	if performance == nil {
		performance = &domain.MonthlyPerformance{
			Year:  year,
			Month: month,
		}
	}

	revenue, convertedCount, err := s.reporter.MonthlyRevenue(year, month)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	performance.AppendTarget(target, revenue, now)
	s.refreshFigures(performance, revenue, convertedCount, now)

	if err := s.performanceRepo.SaveOrUpdate(performance); err != nil {
		return nil, NewTrackingError(ErrPerformanceStoreUnavailable, "", err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"year":           year,
		"month":          month,
		"target":         target,
		"ledger_entries": len(performance.TargetHistory),
	}).Info("Meta mensal definida")

	return s.summary(performance), nil
}

// GetPerformance retorna meta e realização do mês
func (s *Service) GetPerformance(year, month int) (*domain.PerformanceSummary, error) {
	if _, _, err := reporting.MonthRange(year, month); err != nil {
		return nil, err
	}

	performance, err := s.performanceRepo.GetByPeriod(year, month)
	if err != nil {
		return nil, NewTrackingError(ErrPerformanceStoreUnavailable, "", err.Error())
	}

	// Mês nunca configurado: estado explícito de zeros, sem varrer a receita
	if performance == nil || performance.CurrentTarget() == 0 {
		return &domain.PerformanceSummary{
			Year:  year,
			Month: month,
		}, nil
	}

	revenue, convertedCount, err := s.reporter.MonthlyRevenue(year, month)
	if err != nil {
		return nil, err
	}

	// Recalcula e persiste os números correntes, sem anexar entrada ao
	// ledger: entradas só nascem de SetTarget
	now := s.now().UTC()
	s.refreshFigures(performance, revenue, convertedCount, now)

	if err := s.performanceRepo.SaveOrUpdate(performance); err != nil {
		return nil, NewTrackingError(ErrPerformanceStoreUnavailable, "", err.Error())
	}

	return s.summary(performance), nil
}

// GetTargetHistory retorna o ledger completo de metas de todos os meses
func (s *Service) GetTargetHistory() (*domain.TargetHistoryResponse, error) {
	records, err := s.performanceRepo.GetAll()
	if err != nil {
		return nil, NewTrackingError(ErrPerformanceStoreUnavailable, "", err.Error())
	}

	history := make([]domain.TargetHistoryMonth, 0, len(records))
	for _, record := range records {
		history = append(history, domain.TargetHistoryMonth{
			Year:    record.Year,
			Month:   record.Month,
			Entries: record.TargetHistory,
		})
	}

	return &domain.TargetHistoryResponse{History: history}, nil
}

func (s *Service) refreshFigures(performance *domain.MonthlyPerformance, revenue float64, convertedCount int, now time.Time) {
	days := reporting.ElapsedDays(performance.Year, performance.Month, now)

	performance.AchievedRevenue = revenue
	performance.ConvertedCount = convertedCount
	performance.AverageRevenuePerDay = utils.RoundWithTwoDecimalPlace(revenue / float64(days))
	performance.LastComputedAt = &now
}

func (s *Service) summary(performance *domain.MonthlyPerformance) *domain.PerformanceSummary {
	return &domain.PerformanceSummary{
		Year:                 performance.Year,
		Month:                performance.Month,
		Target:               performance.CurrentTarget(),
		AchievedRevenue:      performance.AchievedRevenue,
		ConvertedCount:       performance.ConvertedCount,
		AverageRevenuePerDay: performance.AverageRevenuePerDay,
		LastComputedAt:       performance.LastComputedAt,
	}
}
