package reporting

import (
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/gym-manager-api/infrastructure/repository"
	"github.com/vfg2006/gym-manager-api/internal/config"
	"github.com/vfg2006/gym-manager-api/internal/domain"
)

// Service implementa a interface Reporter sobre os repositórios de leads e snapshots
type Service struct {
	cfg          *config.Config
	leadRepo     repository.LeadRepository
	snapshotRepo repository.MonthlySnapshotRepository
	now          func() time.Time
}

// NewService cria uma nova instância do serviço de relatórios mensais
func NewService(
	cfg *config.Config,
	leadRepo repository.LeadRepository,
	snapshotRepo repository.MonthlySnapshotRepository,
) Reporter {
	return &Service{
		cfg:          cfg,
		leadRepo:     leadRepo,
		snapshotRepo: snapshotRepo,
		now:          time.Now,
	}
}

// aggregatedLead associa um lead ao timestamp efetivo que o coloca no mês
type aggregatedLead struct {
	lead        *domain.Lead
	effectiveAt time.Time
}

// effectiveTimestamp escolhe o timestamp que decide a que mês o lead pertence.
// Para novos membros: data de conversão, senão criação. Para aula experimental:
// data da aula, senão última atualização, senão criação.
func effectiveTimestamp(kind domain.ReportKind, lead *domain.Lead) time.Time {
	switch kind {
	case domain.ReportKindTrialAttended:
		if lead.TrialAttendedAt != nil {
			return *lead.TrialAttendedAt
		}
		if !lead.UpdatedAt.IsZero() {
			return lead.UpdatedAt
		}
	default:
		if lead.ConvertedAt != nil {
			return *lead.ConvertedAt
		}
	}
	return lead.CreatedAt
}

// aggregate varre os leads no estado exigido pelo tipo de relatório e devolve
// os que caem dentro do intervalo, do mais recente para o mais antigo.
// Falhas do repositório propagam: resultado vazio só significa zero matches.
func (s *Service) aggregate(kind domain.ReportKind, start, end time.Time) ([]aggregatedLead, error) {
	leads, err := s.leadRepo.GetByStatus(domain.StatusForKind(kind))
	if err != nil {
		return nil, NewReportingError(ErrLeadStoreUnavailable, "", err.Error())
	}

	matched := make([]aggregatedLead, 0, len(leads))
	for _, lead := range leads {
		effectiveAt := effectiveTimestamp(kind, lead)
		if effectiveAt.Before(start) || effectiveAt.After(end) {
			continue
		}
		matched = append(matched, aggregatedLead{lead: lead, effectiveAt: effectiveAt})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].effectiveAt.After(matched[j].effectiveAt)
	})

	return matched, nil
}

// snapshotEntries desnormaliza o resultado da agregação em entradas de snapshot
func snapshotEntries(kind domain.ReportKind, matched []aggregatedLead, capturedAt time.Time) []domain.LeadSnapshotEntry {
	entries := make([]domain.LeadSnapshotEntry, 0, len(matched))
	for _, m := range matched {
		entry := domain.LeadSnapshotEntry{
			LeadID:      m.lead.ID,
			Name:        m.lead.Name,
			Phone:       m.lead.Phone,
			Email:       m.lead.Email,
			Interest:    m.lead.Interest,
			Plan:        m.lead.Plan,
			Source:      m.lead.Source,
			Status:      m.lead.Status,
			EffectiveAt: m.effectiveAt,
			ArchivedAt:  capturedAt,
		}

		if kind == domain.ReportKindNewMembers && m.lead.Membership != nil {
			entry.Membership = &domain.MembershipSnapshot{
				PlanLabel: m.lead.Membership.PlanLabel,
				Amount:    m.lead.Membership.Amount,
				Duration:  m.lead.Membership.Duration,
				StartDate: m.lead.Membership.StartDate,
				EndDate:   m.lead.Membership.EndDate,
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

// GetMonthlyReport retorna uma página do relatório do mês
func (s *Service) GetMonthlyReport(kind domain.ReportKind, year, month, page, limit int) (*domain.MonthlyReportPage, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	if page < 1 || limit < 1 {
		return nil, NewReportingError(ErrInvalidPagination, "", "página e limite devem ser positivos")
	}

	if s.cfg.Reports.MaxPageSize > 0 && limit > s.cfg.Reports.MaxPageSize {
		return nil, NewReportingError(ErrInvalidPagination, "", "limite acima do máximo permitido")
	}

	snapshot, err := s.snapshotRepo.GetByPeriod(kind, year, month)
	if err != nil {
		return nil, NewReportingError(ErrSnapshotStoreUnavailable, "", err.Error())
	}

	// Mês congelado: servir o snapshot na ordem armazenada, sem consultar os leads
	if snapshot != nil && snapshot.IsArchived {
		return &domain.MonthlyReportPage{
			Year:       year,
			Month:      month,
			TotalCount: snapshot.TotalCount,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages(snapshot.TotalCount, limit),
			Data:       snapshot.Page(page, limit),
			IsArchived: true,
			ArchivedAt: snapshot.ArchivedAt,
		}, nil
	}

	// Mês aberto: agregar ao vivo e mesclar novidades no snapshot provisório
	matched, err := s.aggregate(kind, start, end)
	if err != nil {
		return nil, err
	}

	capturedAt := s.now().UTC()
	liveEntries := snapshotEntries(kind, matched, capturedAt)

	if snapshot == nil {
		snapshot = &domain.MonthlySnapshot{
			Kind:  kind,
			Year:  year,
			Month: month,
			Leads: make([]domain.LeadSnapshotEntry, 0, len(liveEntries)),
		}
	}

	added, err := snapshot.Merge(liveEntries)
	if err != nil {
		// Impossível no fluxo normal: o snapshot acabou de ser lido como provisório
		return nil, NewReportingError(err, "", "")
	}

	if added > 0 || snapshot.ID == 0 {
		if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
			return nil, NewReportingError(ErrSnapshotStoreUnavailable, "", err.Error())
		}

		logrus.WithFields(logrus.Fields{
			"kind":    kind,
			"year":    year,
			"month":   month,
			"added":   added,
			"tracked": snapshot.TotalCount,
		}).Debug("Snapshot provisório atualizado")
	}

	// Antes do congelamento a leitura de registro é a agregação ao vivo,
	// não a ordem persistida no snapshot
	return &domain.MonthlyReportPage{
		Year:       year,
		Month:      month,
		TotalCount: len(liveEntries),
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(len(liveEntries), limit),
		Data:       domain.PageEntries(liveEntries, page, limit),
		IsArchived: false,
	}, nil
}

// ArchiveMonth congela o snapshot do mês com uma agregação final
func (s *Service) ArchiveMonth(kind domain.ReportKind, year, month int) (*domain.ArchiveSummary, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshotRepo.GetByPeriod(kind, year, month)
	if err != nil {
		return nil, NewReportingError(ErrSnapshotStoreUnavailable, "", err.Error())
	}

	// Arquivamento é idempotente: mês já congelado devolve o resumo existente
	if snapshot != nil && snapshot.IsArchived {
		logrus.WithFields(logrus.Fields{
			"kind":  kind,
			"year":  year,
			"month": month,
		}).Info("Mês já arquivado, nenhuma ação executada")

		return &domain.ArchiveSummary{
			Kind:       kind,
			Year:       year,
			Month:      month,
			TotalCount: snapshot.TotalCount,
			ArchivedAt: *snapshot.ArchivedAt,
		}, nil
	}

	matched, err := s.aggregate(kind, start, end)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	finalEntries := snapshotEntries(kind, matched, now)

	if snapshot == nil {
		snapshot = &domain.MonthlySnapshot{
			Kind:  kind,
			Year:  year,
			Month: month,
		}
	} else {
		// First-seen-wins: entradas já observadas no snapshot provisório
		// permanecem no arquivo mesmo que o lead tenha deixado de casar
		for _, entry := range snapshot.Leads {
			if !containsLead(finalEntries, entry.LeadID) {
				finalEntries = append(finalEntries, entry)
			}
		}
	}

	snapshot.Freeze(finalEntries, now)

	if err := s.snapshotRepo.SaveOrUpdate(snapshot); err != nil {
		return nil, NewReportingError(ErrSnapshotStoreUnavailable, "", err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"kind":        kind,
		"year":        year,
		"month":       month,
		"total_count": snapshot.TotalCount,
	}).Info("Mês arquivado com sucesso")

	return &domain.ArchiveSummary{
		Kind:       kind,
		Year:       year,
		Month:      month,
		TotalCount: snapshot.TotalCount,
		ArchivedAt: now,
	}, nil
}

// ArchivePreviousMonth congela o mês anterior para os dois tipos de relatório
func (s *Service) ArchivePreviousMonth() ([]*domain.ArchiveSummary, error) {
	year, month := PreviousMonth(s.now().UTC())

	summaries := make([]*domain.ArchiveSummary, 0, 2)
	for _, kind := range []domain.ReportKind{domain.ReportKindNewMembers, domain.ReportKindTrialAttended} {
		summary, err := s.ArchiveMonth(kind, year, month)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// MonthlyRevenue soma os valores de matrícula embutidos nos leads convertidos
// do mês. Receita de vendas diretas de catálogo não entra neste cálculo.
func (s *Service) MonthlyRevenue(year, month int) (float64, int, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return 0, 0, err
	}

	matched, err := s.aggregate(domain.ReportKindNewMembers, start, end)
	if err != nil {
		return 0, 0, err
	}

	var revenue float64
	for _, m := range matched {
		if m.lead.Membership != nil {
			revenue += m.lead.Membership.Amount
		}
	}

	return revenue, len(matched), nil
}

func containsLead(entries []domain.LeadSnapshotEntry, leadID string) bool {
	for _, entry := range entries {
		if entry.LeadID == leadID {
			return true
		}
	}
	return false
}

func totalPages(total, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}
