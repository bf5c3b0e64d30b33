package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/internal/proxy"
	"github.com/vfg2006/campaign-reporter/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)

	logrus.WithFields(logrus.Fields{
		"internal_server_url": cfg.Proxy.InternalServerURL,
		"port":                cfg.Proxy.Port,
		"token_configured":    cfg.Proxy.Token != "",
		"secret_configured":   cfg.Cron.Secret != "",
	}).Info("Configuração do proxy de disparo carregada")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := proxy.New(cfg).Run(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro durante a execução do proxy")
	}
}
