package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/internal/usecases/reporting"
)

// SessionWarmer permite fazer o login antecipado na inicialização
type SessionWarmer interface {
	IsValid() bool
	Login(ctx context.Context) error
}

// CampaignReportSyncConfig representa a configuração do agendador do relatório
type CampaignReportSyncConfig struct {
	CronSchedule   string
	SyncEnabled    bool
	RunOnStartup   bool
	MaxAttempts    int
	RetryBaseDelay time.Duration
}

// RunRequest descreve uma execução disparada pelo agendador ou pela API
type RunRequest struct {
	Mode    domain.RunMode
	Options reporting.RunOptions
	From    time.Time
	To      time.Time
}

// CampaignReportSyncService agenda o relatório diário e aplica o retry de
// nível superior sobre o pipeline
type CampaignReportSyncService struct {
	scheduler *gocron.Scheduler
	config    CampaignReportSyncConfig
	reporter  reporting.Reporter
	sessions  SessionWarmer

	syncMutex           sync.Mutex
	activeRuns          int
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncError       string
	lastRunID           string

	sleep func(ctx context.Context, d time.Duration) error
}

func NewCampaignReportSyncService(
	reporter reporting.Reporter,
	sessions SessionWarmer,
	appConfig *config.Config,
) *CampaignReportSyncService {
	syncConfig := CampaignReportSyncConfig{
		CronSchedule:   appConfig.ReportSync.CronSchedule,
		SyncEnabled:    appConfig.ReportSync.Enabled,
		RunOnStartup:   appConfig.ReportSync.RunOnStartup,
		MaxAttempts:    appConfig.ReportSync.RunMaxAttempts,
		RetryBaseDelay: appConfig.ReportSync.RunRetryBaseDelay,
	}
	if syncConfig.MaxAttempts < 1 {
		syncConfig.MaxAttempts = 1
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":    syncConfig.CronSchedule,
		"sync_enabled":     syncConfig.SyncEnabled,
		"run_on_startup":   syncConfig.RunOnStartup,
		"max_attempts":     syncConfig.MaxAttempts,
		"retry_base_delay": syncConfig.RetryBaseDelay.String(),
	}).Info("Configuração do agendador do relatório de campanhas carregada")

	return &CampaignReportSyncService{
		// O cron é expresso em UTC; o padrão 30 18 * * * é meia-noite em IST
		scheduler: gocron.NewScheduler(time.UTC),
		config:    syncConfig,
		reporter:  reporter,
		sessions:  sessions,
		sleep:     sleepContext,
	}
}

// Start inicia o agendador
func (s *CampaignReportSyncService) Start(ctx context.Context) error {
	if s.config.RunOnStartup {
		go s.warmUp(ctx)
	}

	if !s.config.SyncEnabled {
		logrus.Info("Agendamento do relatório de campanhas desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador do relatório de campanhas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runScheduled(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar relatório de campanhas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador do relatório de campanhas")
		s.scheduler.Stop()
	}()

	return nil
}

// warmUp roda na inicialização: sem sessão válida só faz o login, com
// sessão válida executa o relatório diário
func (s *CampaignReportSyncService) warmUp(ctx context.Context) {
	if s.sessions != nil && !s.sessions.IsValid() {
		logrus.Info("scheduler: sessão inválida na inicialização, realizando login")
		if err := s.sessions.Login(ctx); err != nil {
			logrus.WithError(err).Error("scheduler: falha no login inicial")
		}
		return
	}

	s.runScheduled(ctx)
}

func (s *CampaignReportSyncService) runScheduled(ctx context.Context) {
	_, err := s.RunNow(ctx, RunRequest{Mode: domain.RunModeDaily})
	if err != nil {
		logrus.WithError(err).Error("scheduler: execução agendada do relatório falhou")
	}
}

// RunNow executa o pipeline com até MaxAttempts tentativas, esperando
// RetryBaseDelay * tentativa entre elas. Execução concorrente não é repetida.
func (s *CampaignReportSyncService) RunNow(ctx context.Context, req RunRequest) (*reporting.RunResult, error) {
	s.syncMutex.Lock()
	s.markStarted()
	s.syncMutex.Unlock()

	return s.runWithRetry(ctx, req)
}

// runWithRetry assume que markStarted já foi chamado para esta execução
func (s *CampaignReportSyncService) runWithRetry(ctx context.Context, req RunRequest) (*reporting.RunResult, error) {
	var (
		result *reporting.RunResult
		err    error
	)
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		result, err = s.runOnce(ctx, req)
		if err == nil {
			break
		}
		if errors.Is(err, reporting.ErrRunInProgress) || errors.Is(err, reporting.ErrInvalidDateRange) ||
			errors.Is(err, reporting.ErrDateRangeTooLarge) {
			break
		}

		logrus.WithFields(logrus.Fields{
			"attempt":      attempt,
			"max_attempts": s.config.MaxAttempts,
			"mode":         req.Mode,
		}).WithError(err).Warn("scheduler: tentativa de execução do relatório falhou")

		if attempt == s.config.MaxAttempts {
			break
		}
		if serr := s.sleep(ctx, s.config.RetryBaseDelay*time.Duration(attempt)); serr != nil {
			err = serr
			break
		}
	}

	s.markFinished(result, err)
	return result, err
}

func (s *CampaignReportSyncService) runOnce(ctx context.Context, req RunRequest) (*reporting.RunResult, error) {
	if req.Mode == domain.RunModeHistorical {
		return s.reporter.RunHistorical(ctx, req.From, req.To)
	}
	return s.reporter.RunDaily(ctx, req.Options)
}

// TriggerManualSync inicia manualmente o relatório diário em segundo plano
func (s *CampaignReportSyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	if s.activeRuns > 0 {
		s.syncMutex.Unlock()
		logrus.Info("Relatório de campanhas já em andamento, ignorando solicitação manual")
		return false
	}
	// marca antes de soltar o mutex para que outra chamada veja a execução
	s.markStarted()
	s.syncMutex.Unlock()

	logrus.Info("Iniciando execução manual do relatório de campanhas")
	go func() {
		if _, err := s.runWithRetry(context.Background(), RunRequest{Mode: domain.RunModeDaily}); err != nil {
			logrus.WithError(err).Error("scheduler: execução manual do relatório falhou")
		}
	}()
	return true
}

// GetStatus retorna o status atual do agendador
func (s *CampaignReportSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.activeRuns > 0,
		"active_runs":            s.activeRuns,
		"run_max_attempts":       s.config.MaxAttempts,
		"run_retry_base_delay":   s.config.RetryBaseDelay.String(),
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_error":        s.lastSyncError,
		"last_run_id":            s.lastRunID,
	}

	if _, next := s.scheduler.NextRun(); !next.IsZero() {
		status["next_run_at"] = next
	}

	return status
}

// markStarted deve ser chamado com syncMutex travado
func (s *CampaignReportSyncService) markStarted() {
	s.activeRuns++
	s.lastSyncStartedAt = time.Now()
}

func (s *CampaignReportSyncService) markFinished(result *reporting.RunResult, err error) {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()
	if s.activeRuns > 0 {
		s.activeRuns--
	}
	s.lastSyncCompletedAt = time.Now()
	s.lastSyncError = ""
	if err != nil {
		s.lastSyncError = err.Error()
	}
	if result != nil {
		s.lastRunID = result.RunID
	}
}

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
