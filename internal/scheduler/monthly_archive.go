package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/gym-manager-api/internal/config"
	"github.com/vfg2006/gym-manager-api/internal/usecases/reporting"
)

// MonthlyArchiveConfig representa a configuração do agendador de arquivamento mensal
type MonthlyArchiveConfig struct {
	CronSchedule string
	Enabled      bool
}

// MonthlyArchiveService gerencia o agendamento do congelamento dos relatórios
// do mês anterior. Por padrão o agendador fica desabilitado e o arquivamento
// é disparado externamente pelo endpoint de cron.
type MonthlyArchiveService struct {
	scheduler          *gocron.Scheduler
	config             MonthlyArchiveConfig
	reporter           reporting.Reporter
	runMutex           sync.Mutex
	running            bool
	lastRunStartedAt   time.Time
	lastRunCompletedAt time.Time
	lastRunError       string
}

// NewMonthlyArchiveService cria uma nova instância do serviço de arquivamento mensal
func NewMonthlyArchiveService(reporter reporting.Reporter, appConfig *config.Config) *MonthlyArchiveService {
	archiveConfig := MonthlyArchiveConfig{
		CronSchedule: appConfig.MonthlyArchive.CronSchedule,
		Enabled:      appConfig.MonthlyArchive.Enabled,
	}

	scheduler := gocron.NewScheduler(time.UTC)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": archiveConfig.CronSchedule,
		"enabled":       archiveConfig.Enabled,
	}).Info("Configuração do agendador de arquivamento mensal carregada")

	return &MonthlyArchiveService{
		scheduler: scheduler,
		config:    archiveConfig,
		reporter:  reporter,
	}
}

// Start inicia o agendador
func (s *MonthlyArchiveService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Arquivamento mensal automático desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de arquivamento mensal")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.archivePreviousMonth()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar arquivamento mensal: %w", err)
	}

	s.scheduler.StartAsync()

	// Parar o agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de arquivamento mensal")
		s.scheduler.Stop()
	}()

	return nil
}

// archivePreviousMonth congela o mês anterior para todos os tipos de relatório
func (s *MonthlyArchiveService) archivePreviousMonth() {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		logrus.Info("Arquivamento mensal já em andamento, ignorando")
		return
	}
	s.running = true
	s.lastRunStartedAt = time.Now()
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.lastRunCompletedAt = time.Now()
		s.runMutex.Unlock()
	}()

	logrus.Info("Iniciando arquivamento dos relatórios do mês anterior")

	summaries, err := s.reporter.ArchivePreviousMonth()
	if err != nil {
		s.runMutex.Lock()
		s.lastRunError = err.Error()
		s.runMutex.Unlock()

		logrus.WithError(err).Error("Erro ao arquivar relatórios do mês anterior")
		return
	}

	s.runMutex.Lock()
	s.lastRunError = ""
	s.runMutex.Unlock()

	for _, summary := range summaries {
		logrus.WithFields(logrus.Fields{
			"kind":        summary.Kind,
			"year":        summary.Year,
			"month":       summary.Month,
			"total_count": summary.TotalCount,
		}).Info("Relatório mensal arquivado")
	}
}

// TriggerManualRun inicia manualmente o arquivamento do mês anterior
func (s *MonthlyArchiveService) TriggerManualRun() {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		logrus.Info("Arquivamento mensal já em andamento, ignorando solicitação manual")
		return
	}
	s.runMutex.Unlock()

	logrus.Info("Iniciando arquivamento manual do mês anterior")
	go s.archivePreviousMonth()
}

// GetStatus retorna o status atual do agendador de arquivamento
func (s *MonthlyArchiveService) GetStatus() map[string]any {
	s.runMutex.Lock()
	defer s.runMutex.Unlock()

	return map[string]any{
		"running":               s.running,
		"cron":                  s.config.CronSchedule,
		"enabled":               s.config.Enabled,
		"last_run_started_at":   s.lastRunStartedAt,
		"last_run_completed_at": s.lastRunCompletedAt,
		"last_run_error":        s.lastRunError,
	}
}
