package main

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/browser"
	"github.com/vfg2006/campaign-reporter/infrastructure/database/postgres"
	"github.com/vfg2006/campaign-reporter/infrastructure/eventlog"
	"github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy"
	"github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/aisensyclient"
	"github.com/vfg2006/campaign-reporter/infrastructure/lock"
	"github.com/vfg2006/campaign-reporter/infrastructure/repository"
	"github.com/vfg2006/campaign-reporter/infrastructure/session"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink/sheets"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink/slack"
	"github.com/vfg2006/campaign-reporter/infrastructure/storage/s3archive"
	"github.com/vfg2006/campaign-reporter/internal/api"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/internal/scheduler"
	"github.com/vfg2006/campaign-reporter/internal/usecases/reporting"
	"github.com/vfg2006/campaign-reporter/pkg/log"
)

const runLockKey = "campaign-report-run"

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := os.MkdirAll(cfg.App.DataDir, 0o755); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar diretório de dados")
	}

	events := eventlog.New(cfg.DataPath(eventlog.FileName))
	defer events.Close()

	authenticator := browser.NewFormAuthenticator(
		browser.WithCookieURLs(cfg.AiSensy.Origin, cfg.AiSensy.BaseURL),
		browser.WithDebugDir(cfg.App.DataDir),
		browser.WithTimeout(cfg.AiSensy.LoginTimeout),
	)
	sessionManager := aisensyclient.NewSessionManager(
		session.NewFileStore(cfg.App.DataDir),
		authenticator,
		browser.Credentials{
			LoginURL: cfg.AiSensy.LoginURL,
			Email:    cfg.AiSensy.Email,
			Password: cfg.AiSensy.Password,
		},
		aisensyclient.SessionOptionsFromConfig(cfg),
	)

	aisensyClient := aisensyclient.NewClient(cfg, events)
	aisensyIntegrator := aisensy.New(cfg, aisensyClient, sessionManager)

	sheetsPublisher, err := sheets.New(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar Google Sheets")
	}

	deps := reporting.Dependencies{
		Sessions:   sessionManager,
		Source:     aisensyIntegrator,
		Sheet:      sheetsPublisher,
		Publishers: publishers(ctx, cfg, sheetsPublisher),
		Events:     events,
		Runs:       runRepository(ctx, cfg.Database),
		Lock:       runLock(cfg.Redis),
	}

	reportService := reporting.NewService(cfg, deps)

	reportSyncService := scheduler.NewCampaignReportSyncService(reportService, sessionManager, cfg)
	if err := reportSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador do relatório de campanhas")
	} else {
		logrus.Info("Agendador do relatório de campanhas iniciado com sucesso")
	}

	server, err := api.New(cfg, reportSyncService, deps.Runs)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// publishers monta os destinos habilitados em SINKS, na ordem: planilha, slack, s3
func publishers(ctx context.Context, cfg *config.Config, sheetsPublisher *sheets.Publisher) []sink.Publisher {
	enabled := make([]sink.Publisher, 0, 3)

	if cfg.SinkEnabled(sheets.Name) {
		enabled = append(enabled, sheetsPublisher)
	}
	if cfg.SinkEnabled(slack.Name) {
		enabled = append(enabled, slack.New(cfg))
	}
	if cfg.SinkEnabled(s3archive.Name) {
		archive, err := s3archive.New(ctx, cfg)
		if err != nil {
			logrus.WithError(err).Error("Erro ao configurar arquivamento no S3, destino ignorado")
		} else {
			enabled = append(enabled, archive)
		}
	}

	names := make([]string, 0, len(enabled))
	for _, p := range enabled {
		names = append(names, p.Name())
	}
	logrus.WithField("sinks", names).Info("Destinos de publicação configurados")

	return enabled
}

// runRepository usa o Postgres quando habilitado; sem banco o histórico é descartado
func runRepository(ctx context.Context, dbConfig config.Database) repository.RunRepository {
	if !dbConfig.Enabled {
		return repository.NoopRunRepository{}
	}

	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Error("Erro ao conectar ao PostgreSQL, histórico de execuções desabilitado")
		return repository.NoopRunRepository{}
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return repository.NewRunRepository(conn)
}

// runLock usa o Redis quando REDIS_URL está definido
func runLock(redisConfig config.Redis) lock.DistLock {
	if redisConfig.URL == "" {
		return lock.NoopLock{}
	}

	client, err := lock.NewClient(redisConfig.URL)
	if err != nil {
		logrus.WithError(err).Error("Erro ao configurar Redis, trava distribuída desabilitada")
		return lock.NoopLock{}
	}

	return lock.NewRedisLock(client, runLockKey, redisConfig.RunLockTTL)
}
