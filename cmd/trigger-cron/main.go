package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vfg2006/campaign-reporter/pkg/log"
	"github.com/vfg2006/campaign-reporter/pkg/middleware"
)

const cronCheckPath = "/api/cron-check"

var errTriggerFailed = errors.New("disparo do cron falhou")

func main() {
	viper.AutomaticEnv()
	viper.SetDefault("LOG_LEVEL", "info")
	log.Setup(viper.GetString("LOG_LEVEL"))

	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	var (
		baseURL string
		secret  string
		timeout time.Duration
	)

	viper.AutomaticEnv()
	viper.SetDefault("INTERNAL_SERVER_URL", "http://localhost:3001")

	cmd := &cobra.Command{
		Use:           "trigger-cron",
		Short:         "Dispara uma execução do relatório de campanhas via /api/cron-check",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if baseURL == "" {
				baseURL = viper.GetString("INTERNAL_SERVER_URL")
			}
			if secret == "" {
				secret = viper.GetString("CRON_SECRET")
			}

			err := trigger(cmd.Context(), out, baseURL, secret, timeout)
			if err != nil {
				logrus.WithError(err).Error("Error triggering cron job")
				if errors.Is(err, syscall.ECONNREFUSED) {
					fmt.Fprintf(out, "Connection refused. Make sure the main application is running on %s\n", baseURL)
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "URL do servidor do relatório (padrão: INTERNAL_SERVER_URL)")
	cmd.Flags().StringVar(&secret, "secret", "", "segredo enviado em x-vercel-cron-secret (padrão: CRON_SECRET)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "tempo máximo de espera pela execução")

	return cmd
}

func trigger(ctx context.Context, out io.Writer, baseURL, secret string, timeout time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, correlationID := log.WithCorrelationID(ctx, "")

	req := resty.New().SetTimeout(timeout).R().
		SetContext(ctx).
		SetHeader(log.CorrelationHeader, correlationID)
	if secret != "" {
		req.SetHeader(middleware.CronSecretHeader, secret)
	}

	log.ForContext(ctx).WithField("url", baseURL+cronCheckPath).Info("Calling cron endpoint")
	res, err := req.Get(baseURL + cronCheckPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Status: %d\n", res.StatusCode())
	fmt.Fprintf(out, "Correlation ID: %s\n", correlationID)
	fmt.Fprintln(out, prettyJSON(res.Body()))

	if res.IsError() {
		return fmt.Errorf("%w: status %d", errTriggerFailed, res.StatusCode())
	}
	return nil
}

func prettyJSON(raw []byte) string {
	var body any
	if err := jsoniter.Unmarshal(raw, &body); err != nil {
		return string(bytes.TrimSpace(raw))
	}
	pretty, err := jsoniter.MarshalIndent(body, "", "  ")
	if err != nil {
		return string(raw)
	}
	return string(pretty)
}
