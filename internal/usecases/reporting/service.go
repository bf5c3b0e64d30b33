package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/lock"
	"github.com/vfg2006/campaign-reporter/infrastructure/repository"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/pkg/log"
	"github.com/vfg2006/campaign-reporter/pkg/telemetry"
	"github.com/vfg2006/campaign-reporter/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	SnapshotFileName         = "campaign-details.csv"
	FilteredCampaignsFile    = "filtered-campaigns.json"
	CampaignDetailsDebugFile = "campaign-details-output.json"
	ReportTitle              = "Campaign Details Report"

	noDataNote = "no data for target date"
)

// RunOptions ajusta uma execução diária
type RunOptions struct {
	TargetDate  *time.Time
	SkipPublish bool
}

// RunResult é o resumo de uma execução
type RunResult struct {
	RunID          string                  `json:"runId"`
	Mode           domain.RunMode          `json:"mode"`
	TargetDates    []string                `json:"targetDates"`
	Details        []domain.CampaignDetail `json:"campaigns"`
	Qualified      []string                `json:"qualified"`
	NewlyQualified []string                `json:"newlyQualified"`
	Rows           [][]string              `json:"-"`
	PublishErrors  []PublishError          `json:"publishErrors,omitempty"`
	StartedAt      time.Time               `json:"startedAt"`
	FinishedAt     time.Time               `json:"finishedAt"`
}

// Dependencies agrupa os colaboradores do pipeline
type Dependencies struct {
	Sessions   SessionProvider
	Source     CampaignSource
	Sheet      SheetReader
	Publishers []sink.Publisher
	Runs       repository.RunRepository
	Events     EventLog
	Lock       lock.DistLock
}

// Service é o pipeline: sessão, listagem, filtro, busca, qualificação,
// merge e publicação. Execuções na mesma instância são serializadas.
type Service struct {
	deps           Dependencies
	qualifier      Qualifier
	merger         Merger
	createdAfter   time.Time
	requestDelay   time.Duration
	dataDir        string
	debugArtifacts bool
	historicalMax  int

	mu    sync.Mutex
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewService(cfg *config.Config, deps Dependencies) *Service {
	if deps.Lock == nil {
		deps.Lock = lock.NoopLock{}
	}
	if deps.Runs == nil {
		deps.Runs = repository.NoopRunRepository{}
	}
	if deps.Events == nil {
		deps.Events = noopEvents{}
	}

	return &Service{
		deps:           deps,
		qualifier:      NewQualifier(cfg.Report.LookbackDays, cfg.Report.MinConsecutiveDays, cfg.Report.MinMetricDays),
		merger:         NewMerger(),
		createdAfter:   cfg.Report.CreatedAfter,
		requestDelay:   time.Duration(cfg.Report.RequestDelaySeconds) * time.Second,
		dataDir:        cfg.App.DataDir,
		debugArtifacts: cfg.App.DebugArtifacts,
		historicalMax:  cfg.Report.HistoricalMaxDays,
		now:            time.Now,
		sleep:          sleepContext,
	}
}

func (s *Service) RunDaily(ctx context.Context, opts RunOptions) (*RunResult, error) {
	target := utils.YesterdayIST(s.now())
	if opts.TargetDate != nil {
		target = utils.DayIST(*opts.TargetDate)
	}

	return s.run(ctx, domain.RunModeDaily, []time.Time{target}, !opts.SkipPublish)
}

func (s *Service) RunHistorical(ctx context.Context, from, to time.Time) (*RunResult, error) {
	from, to = utils.DayIST(from), utils.DayIST(to)
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}

	days := utils.DaysBetween(from, to)
	if s.historicalMax > 0 && len(days) > s.historicalMax {
		return nil, fmt.Errorf("%w: %d dias (máximo %d)", ErrDateRangeTooLarge, len(days), s.historicalMax)
	}

	return s.run(ctx, domain.RunModeHistorical, days, true)
}

func (s *Service) run(ctx context.Context, mode domain.RunMode, days []time.Time, publish bool) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acquired, err := s.deps.Lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("reporting: erro ao adquirir trava: %w", err)
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	defer func() {
		if err := s.deps.Lock.Release(context.Background()); err != nil {
			logrus.WithError(err).Warn("reporting: erro ao liberar trava")
		}
	}()

	runID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("reporting: erro ao gerar id: %w", err)
	}

	ctx, span := telemetry.Tracer("reporting").Start(ctx, "reporting.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run.id", runID),
		attribute.String("run.mode", string(mode)),
		attribute.Int("run.days", len(days)),
	)

	runLog := log.ForRun(ctx, runID).WithFields(logrus.Fields{
		"mode": mode,
		"from": domain.DateKey(days[0]),
		"to":   domain.DateKey(days[len(days)-1]),
	})
	runLog.Info("reporting: iniciando execução")

	s.deps.Events.Reset()
	s.clearDebugArtifacts()

	result := &RunResult{
		RunID:       runID,
		Mode:        mode,
		TargetDates: make([]string, 0, len(days)),
		StartedAt:   s.now(),
	}
	for _, day := range days {
		result.TargetDates = append(result.TargetDates, domain.DateKey(day))
	}

	record := &domain.RunRecord{
		ID:        runID,
		Mode:      mode,
		FromDate:  days[0],
		ToDate:    days[len(days)-1],
		Status:    domain.RunStatusRunning,
		StartedAt: result.StartedAt,
	}
	if err := s.deps.Runs.Create(ctx, record); err != nil {
		runLog.WithError(err).Warn("reporting: erro ao registrar execução")
	}

	candidates, err := s.execute(ctx, result, days, publish)

	finished := s.now()
	result.FinishedAt = finished
	record.FinishedAt = &finished
	record.CampaignsTotal = candidates
	record.CampaignsReported = len(result.Qualified)
	record.Status = domain.RunStatusSucceeded
	if err != nil {
		record.Status = domain.RunStatusFailed
		record.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if ferr := s.deps.Runs.Finish(context.Background(), record); ferr != nil {
		runLog.WithError(ferr).Warn("reporting: erro ao finalizar registro da execução")
	}

	if err != nil {
		s.deps.Events.Record("Run %s failed: %s", runID, err.Error())
		runLog.WithError(err).Error("reporting: execução falhou")
		return nil, err
	}

	runLog.WithFields(logrus.Fields{
		"campaigns":       len(result.Details),
		"qualified":       len(result.Qualified),
		"newly_qualified": len(result.NewlyQualified),
		"publish_errors":  len(result.PublishErrors),
		"duration":        finished.Sub(result.StartedAt).String(),
	}).Info("reporting: execução concluída")

	return result, nil
}

// execute roda as etapas e devolve o número de campanhas candidatas
func (s *Service) execute(ctx context.Context, result *RunResult, days []time.Time, publish bool) (int, error) {
	runID := result.RunID
	first, last := days[0], days[len(days)-1]

	if _, err := s.deps.Sessions.EnsureSession(ctx); err != nil {
		return 0, newRunError(runID, StageSession, err)
	}

	campaigns, err := s.deps.Source.ListCampaigns(ctx)
	if err != nil {
		return 0, newRunError(runID, StageListing, err)
	}

	candidates := make([]domain.Campaign, 0)
	for _, c := range campaigns {
		if c.IsCandidate(s.createdAfter) {
			candidates = append(candidates, c)
		}
	}
	log.ForRun(ctx, runID).WithFields(logrus.Fields{
		"campaigns":  len(campaigns),
		"candidates": len(candidates),
	}).Info("reporting: campanhas API/LIVE filtradas")
	s.writeDebugArtifact(FilteredCampaignsFile, candidates)

	windowStart, _ := s.qualifier.Window(first)
	metricsByCampaign, fetchErrors := s.fetchAll(ctx, runID, candidates, windowStart, last)

	table, skipSink := s.loadPreviousTable(ctx, result, s.labelReference(last))

	qualified := NewQualifiedSet(table.Campaigns()...)
	allMetrics := make([]domain.DailyMetric, 0)
	// campanhas com falha na busca ou fora da lista de candidatas não têm
	// resultado nesta execução e mantêm as células já publicadas
	fetched := make(map[string]bool, len(metricsByCampaign))
	for _, c := range candidates {
		metrics, ok := metricsByCampaign[c.ID]
		if !ok {
			continue
		}
		fetched[c.Name] = true
		allMetrics = append(allMetrics, metrics...)
	}

	for _, day := range days {
		for _, c := range candidates {
			metrics, ok := metricsByCampaign[c.ID]
			if !ok {
				continue
			}
			verdict := s.qualifier.Evaluate(metrics, day)
			if verdict.Verdict == VerdictQualified && qualified.Add(c.Name) {
				result.NewlyQualified = append(result.NewlyQualified, c.Name)
				log.ForRun(ctx, runID).WithFields(logrus.Fields{
					"campaign_name": c.Name,
					"date":          domain.DateKey(day),
					"longest_run":   verdict.LongestRun,
				}).Info("reporting: campanha qualificada")
			}
		}

		resort := len(days) > 1 || hasLaterDate(table, day)
		written := s.merger.Merge(table, day, allMetrics, qualified, fetched, resort)
		log.ForRun(ctx, runID).WithFields(logrus.Fields{
			"date":  domain.DateKey(day),
			"cells": written,
		}).Debug("reporting: dia incorporado na tabela")
	}

	result.Qualified = qualified.Names()
	result.Details = s.buildDetails(candidates, metricsByCampaign, fetchErrors, qualified, days)
	result.Rows = s.merger.Serialize(table)
	s.writeDebugArtifact(CampaignDetailsDebugFile, result.Details)

	csvData, err := s.merger.ToCSV(result.Rows)
	if err != nil {
		return len(candidates), newRunError(runID, StageMerging, err)
	}
	s.writeSnapshot(csvData)

	if publish {
		s.publish(ctx, result, csvData, skipSink)
	}

	return len(candidates), nil
}

// fetchAll busca a janela de cada campanha em sequência, com intervalo entre
// as chamadas. Falhas individuais não interrompem a execução.
func (s *Service) fetchAll(ctx context.Context, runID string, candidates []domain.Campaign, from, to time.Time) (map[string][]domain.DailyMetric, map[string]error) {
	metrics := make(map[string][]domain.DailyMetric, len(candidates))
	failures := make(map[string]error)

	for i, c := range candidates {
		if i > 0 {
			if err := s.sleep(ctx, s.requestDelay); err != nil {
				failures[c.ID] = err
				continue
			}
		}

		result, err := s.deps.Source.FetchCampaignMetrics(ctx, c, from, to)
		if err != nil {
			failures[c.ID] = err
			s.deps.Events.Record("Error fetching details for campaign %s (%s): %s", c.Name, c.ID, err.Error())
			log.ForRun(ctx, runID).WithFields(logrus.Fields{
				"campaign_id":   c.ID,
				"campaign_name": c.Name,
			}).WithError(err).Error("reporting: falha ao buscar métricas da campanha")
			continue
		}
		metrics[c.ID] = result
	}

	return metrics, failures
}

// loadPreviousTable lê a planilha publicada. Se a leitura falhar, usa o
// snapshot local e devolve o nome do destino que não deve ser sobrescrito.
// Uma planilha vazia com snapshot preenchido também cai no snapshot, para
// que uma publicação interrompida não apague o histórico.
func (s *Service) loadPreviousTable(ctx context.Context, result *RunResult, reference time.Time) (*domain.ReportTable, string) {
	if s.deps.Sheet != nil {
		rows, err := s.deps.Sheet.ReadAll(ctx)
		if err == nil {
			table := s.merger.Parse(rows, reference)
			if !table.Empty() {
				return table, ""
			}
			snapshot := s.readSnapshot(reference)
			if !snapshot.Empty() {
				logrus.WithField("campaigns", len(snapshot.Campaigns())).
					Warn("reporting: planilha anterior vazia, usando snapshot local")
				return snapshot, ""
			}
			return table, ""
		}

		if !errors.Is(err, sink.ErrNotConfigured) {
			logrus.WithError(err).Warn("reporting: erro ao ler planilha anterior, usando snapshot local")
			result.PublishErrors = append(result.PublishErrors, PublishError{
				Sink: s.deps.Sheet.Name(),
				Err:  "leitura da planilha anterior falhou, publicação ignorada: " + err.Error(),
			})
			return s.readSnapshot(reference), s.deps.Sheet.Name()
		}
	}

	return s.readSnapshot(reference), ""
}

// labelReference é o dia usado para dar ano aos rótulos da planilha: o dia
// corrente, ou o último dia da execução quando ele é posterior.
func (s *Service) labelReference(last time.Time) time.Time {
	today := utils.DayIST(s.now())
	if last.After(today) {
		return last
	}
	return today
}

func (s *Service) readSnapshot(reference time.Time) *domain.ReportTable {
	raw, err := os.ReadFile(s.dataPath(SnapshotFileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).Warn("reporting: erro ao ler snapshot local")
		}
		return domain.NewReportTable()
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		logrus.WithError(err).Warn("reporting: snapshot local inválido, começando tabela vazia")
		return domain.NewReportTable()
	}

	return s.merger.Parse(rows, reference)
}

func (s *Service) buildDetails(
	candidates []domain.Campaign,
	metricsByCampaign map[string][]domain.DailyMetric,
	fetchErrors map[string]error,
	qualified *QualifiedSet,
	days []time.Time,
) []domain.CampaignDetail {
	now := s.now()
	details := make([]domain.CampaignDetail, 0, len(candidates)*len(days))

	for _, c := range candidates {
		if err, failed := fetchErrors[c.ID]; failed {
			details = append(details, domain.CampaignDetail{
				CampaignName: c.Name,
				CampaignID:   c.ID,
				Qualified:    qualified.Contains(c.Name),
				Timestamp:    now,
				Error:        err.Error(),
			})
			continue
		}

		byDay := make(map[string]domain.DailyMetric)
		for _, m := range metricsByCampaign[c.ID] {
			key := domain.DateKey(utils.DayIST(m.Date))
			if _, ok := byDay[key]; !ok {
				byDay[key] = m
			}
		}

		for _, day := range days {
			detail := domain.CampaignDetail{
				CampaignName: c.Name,
				CampaignID:   c.ID,
				Qualified:    qualified.Contains(c.Name),
				Timestamp:    now,
			}
			if m, ok := byDay[domain.DateKey(day)]; ok {
				detail.Sent = m.Sent
				detail.Delivered = m.Delivered
				detail.Read = m.Read
				detail.Failed = m.Failed
			} else {
				detail.Note = noDataNote
			}
			details = append(details, detail)
		}
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].CampaignName < details[j].CampaignName
	})

	return details
}

func (s *Service) publish(ctx context.Context, result *RunResult, csvData []byte, skipSink string) {
	report := sink.Report{
		RunID:       result.RunID,
		Title:       ReportTitle,
		FileName:    SnapshotFileName,
		CSV:         csvData,
		Rows:        result.Rows,
		GeneratedAt: s.now(),
	}

	for _, publisher := range s.deps.Publishers {
		name := publisher.Name()
		if name == skipSink {
			continue
		}

		err := publisher.Publish(ctx, report)
		switch {
		case err == nil:
			s.deps.Events.Record("Report published to %s", name)
		case errors.Is(err, sink.ErrNotConfigured):
			logrus.WithField("sink", name).WithError(err).Info("reporting: destino não configurado, ignorado")
		default:
			log.ForRun(ctx, result.RunID).WithField("sink", name).WithError(err).Error("reporting: falha ao publicar relatório")
			s.deps.Events.Record("Error publishing report to %s: %s", name, err.Error())
			result.PublishErrors = append(result.PublishErrors, PublishError{Sink: name, Err: err.Error()})
		}
	}
}

func (s *Service) dataPath(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Service) writeSnapshot(data []byte) {
	if err := os.WriteFile(s.dataPath(SnapshotFileName), data, 0o644); err != nil {
		logrus.WithError(err).Warn("reporting: erro ao gravar snapshot local")
	}
}

func (s *Service) writeDebugArtifact(name string, value any) {
	if !s.debugArtifacts {
		return
	}
	data, err := utils.PrettyJson(value)
	if err != nil {
		logrus.WithError(err).WithField("file", name).Warn("reporting: erro ao serializar artefato de debug")
		return
	}
	if err := os.WriteFile(s.dataPath(name), data, 0o644); err != nil {
		logrus.WithError(err).WithField("file", name).Warn("reporting: erro ao gravar artefato de debug")
	}
}

func (s *Service) clearDebugArtifacts() {
	if !s.debugArtifacts {
		return
	}
	for _, name := range []string{FilteredCampaignsFile, CampaignDetailsDebugFile} {
		if err := os.Remove(s.dataPath(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			logrus.WithError(err).WithField("file", name).Warn("reporting: erro ao limpar artefato de debug")
		}
	}
}

// hasLaterDate indica um reprocessamento de dia anterior à última coluna
func hasLaterDate(table *domain.ReportTable, day time.Time) bool {
	key := domain.DateKey(day)
	for _, existing := range table.Dates() {
		if existing > key {
			return true
		}
	}
	return false
}

type noopEvents struct{}

func (noopEvents) Record(string, ...any) {}

func (noopEvents) Reset() {}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
