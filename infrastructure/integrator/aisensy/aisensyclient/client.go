package aisensyclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/campaign-reporter/infrastructure/eventlog"
	aisensydomain "github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/domain"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/pkg/telemetry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	campaignsPath     = "/campaigns"
	campaignChatsPath = "/campaign-chats"
)

// Client acessa os endpoints do painel usando o token da sessão
type Client interface {
	ListCampaigns(ctx context.Context, token string, req aisensydomain.ListCampaignsRequest) (*aisensydomain.ListCampaignsResponse, error)
	GetCampaignChats(ctx context.Context, token string, req aisensydomain.CampaignChatsRequest) (*aisensydomain.CampaignChatsResponse, error)
}

type AiSensyClient struct {
	baseURL string
	retry   *RetryClient
}

// NewHTTPClient cria o cliente resty com os cabeçalhos que o painel espera
func NewHTTPClient(cfg *config.Config) *resty.Client {
	origin := strings.TrimRight(cfg.AiSensy.Origin, "/")

	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetTimeout(cfg.AiSensy.RequestTimeout)
	client.SetHeader("Content-Type", "application/json;charset=UTF-8")
	client.SetHeader("Origin", origin)
	client.SetHeader("Referer", origin+"/")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	telemetry.InstrumentResty(client, "aisensy")

	return client
}

func NewClient(cfg *config.Config, events eventlog.Recorder) Client {
	retry := NewRetryClient(NewHTTPClient(cfg), cfg.AiSensy.MaxRetries, cfg.AiSensy.InitialRetryDelay, events)
	return NewClientWithRetry(cfg.AiSensy.BaseURL, retry)
}

func NewClientWithRetry(baseURL string, retry *RetryClient) *AiSensyClient {
	return &AiSensyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		retry:   retry,
	}
}

func (c *AiSensyClient) ListCampaigns(ctx context.Context, token string, req aisensydomain.ListCampaignsRequest) (*aisensydomain.ListCampaignsResponse, error) {
	res, err := c.retry.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    c.baseURL + campaignsPath,
		Token:  token,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}

	var out aisensydomain.ListCampaignsResponse
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, fmt.Errorf("aisensy: resposta de campanhas inválida: %w", err)
	}

	return &out, nil
}

func (c *AiSensyClient) GetCampaignChats(ctx context.Context, token string, req aisensydomain.CampaignChatsRequest) (*aisensydomain.CampaignChatsResponse, error) {
	res, err := c.retry.Do(ctx, Request{
		Method: http.MethodPost,
		URL:    c.baseURL + campaignChatsPath,
		Token:  token,
		Body:   req,
	})
	if err != nil {
		return nil, err
	}

	var out aisensydomain.CampaignChatsResponse
	if len(res.Body()) == 0 {
		return &out, nil
	}
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		return nil, fmt.Errorf("aisensy: resposta de chats inválida: %w", err)
	}

	return &out, nil
}
