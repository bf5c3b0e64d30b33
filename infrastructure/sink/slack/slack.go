package slack

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/sink"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/pkg/telemetry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	Name             = "slack"
	maxWebhookLines  = 50
	truncatedSuffix  = "\n... (truncated)"
	requestTimeout   = 60 * time.Second
	getUploadURLPath = "/files.getUploadURLExternal"
	completePath     = "/files.completeUploadExternal"
)

var ErrMissingChannel = errors.New("SLACK_CHANNEL_ID é obrigatório ao usar SLACK_BOT_TOKEN")

type uploadURLResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	UploadURL string `json:"upload_url"`
	FileID    string `json:"file_id"`
}

type completeFile struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type completeRequest struct {
	Files          []completeFile `json:"files"`
	ChannelID      string         `json:"channel_id"`
	InitialComment string         `json:"initial_comment"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Publisher envia o CSV ao Slack. Com bot token usa o upload externo em três
// etapas; sem ele cai para o webhook com o conteúdo em bloco de código.
type Publisher struct {
	client     *resty.Client
	apiURL     string
	botToken   string
	channelID  string
	webhookURL string
}

func New(cfg *config.Config) *Publisher {
	client := resty.New().SetTimeout(requestTimeout)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	telemetry.InstrumentResty(client, "sink/slack")

	return &Publisher{
		client:     client,
		apiURL:     strings.TrimRight(cfg.Slack.APIURL, "/"),
		botToken:   cfg.Slack.BotToken,
		channelID:  cfg.Slack.ChannelID,
		webhookURL: cfg.Slack.WebhookURL,
	}
}

func (p *Publisher) Name() string {
	return Name
}

func (p *Publisher) Publish(ctx context.Context, report sink.Report) error {
	switch {
	case p.botToken != "":
		if p.channelID == "" {
			return ErrMissingChannel
		}
		return p.upload(ctx, report)
	case p.webhookURL != "":
		return p.postWebhook(ctx, report)
	default:
		return fmt.Errorf("slack: nem SLACK_BOT_TOKEN nem SLACK_WEBHOOK_URL configurados: %w", sink.ErrNotConfigured)
	}
}

func (p *Publisher) upload(ctx context.Context, report sink.Report) error {
	log := logrus.WithFields(logrus.Fields{"run_id": report.RunID, "file_name": report.FileName})

	// 1. URL de upload
	var step1 uploadURLResponse
	res, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(p.botToken).
		SetFormData(map[string]string{
			"filename": report.FileName,
			"length":   fmt.Sprintf("%d", len(report.CSV)),
		}).
		Post(p.apiURL + getUploadURLPath)
	if err != nil {
		return fmt.Errorf("slack: getUploadURLExternal: %w", err)
	}
	_ = json.Unmarshal(res.Body(), &step1)
	if res.IsError() || !step1.OK {
		return fmt.Errorf("slack: getUploadURLExternal falhou: %s", slackError(step1.Error, res))
	}

	// 2. Envio do conteúdo
	res, err = p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(report.CSV).
		Post(step1.UploadURL)
	if err != nil {
		return fmt.Errorf("slack: upload do arquivo: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("slack: upload do arquivo respondeu %d", res.StatusCode())
	}

	// 3. Conclusão e compartilhamento no canal
	var step3 apiResponse
	res, err = p.client.R().
		SetContext(ctx).
		SetAuthToken(p.botToken).
		SetHeader("Content-Type", "application/json; charset=utf-8").
		SetBody(completeRequest{
			Files:          []completeFile{{ID: step1.FileID, Title: report.Title}},
			ChannelID:      p.channelID,
			InitialComment: fmt.Sprintf("%s - Generated at %s", report.Title, report.GeneratedAt.UTC().Format(time.RFC3339)),
		}).
		Post(p.apiURL + completePath)
	if err != nil {
		return fmt.Errorf("slack: completeUploadExternal: %w", err)
	}
	_ = json.Unmarshal(res.Body(), &step3)
	if res.IsError() || !step3.OK {
		return fmt.Errorf("slack: completeUploadExternal falhou: %s", slackError(step3.Error, res))
	}

	log.WithField("file_id", step1.FileID).Info("slack: arquivo enviado")
	return nil
}

func (p *Publisher) postWebhook(ctx context.Context, report sink.Report) error {
	res, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": WebhookText(report.Title, string(report.CSV))}).
		Post(p.webhookURL)
	if err != nil {
		return fmt.Errorf("slack: webhook: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("slack: webhook respondeu %d: %s", res.StatusCode(), res.String())
	}

	logrus.WithField("run_id", report.RunID).Info("slack: relatório enviado via webhook")
	return nil
}

// WebhookText monta a mensagem do webhook, limitada a 50 linhas de CSV
func WebhookText(title, content string) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	body := strings.Join(lines, "\n")
	if len(lines) > maxWebhookLines {
		body = strings.Join(lines[:maxWebhookLines], "\n") + truncatedSuffix
	}
	return fmt.Sprintf("*%s*\n```\n%s\n```", title, body)
}

func slackError(apiErr string, res *resty.Response) string {
	if apiErr != "" {
		return apiErr
	}
	return fmt.Sprintf("status %d", res.StatusCode())
}
