package proxy

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/campaign-reporter/pkg/log"
	"github.com/vfg2006/campaign-reporter/pkg/middleware"
	"github.com/vfg2006/campaign-reporter/pkg/telemetry"
)

const (
	cronCheckPath   = "/api/cron-check"
	healthcheckPath = "/healthcheck"

	triggerTimeout = 5 * time.Minute
	probeTimeout   = 10 * time.Second
)

// UpstreamError é uma resposta não-2xx do servidor interno
type UpstreamError struct {
	StatusCode int
	Body       any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("servidor interno respondeu com status %d", e.StatusCode)
}

// InternalClient chama o servidor do relatório
type InternalClient struct {
	baseURL    string
	cronSecret string
	trigger    *resty.Client
	probe      *resty.Client
}

func NewInternalClient(baseURL, cronSecret string) *InternalClient {
	newClient := func(timeout time.Duration) *resty.Client {
		client := resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetJSONMarshaler(jsoniter.Marshal).
			SetJSONUnmarshaler(jsoniter.Unmarshal)
		telemetry.InstrumentResty(client, "proxy")
		return client
	}

	return &InternalClient{
		baseURL:    baseURL,
		cronSecret: cronSecret,
		trigger:    newClient(triggerTimeout),
		probe:      newClient(probeTimeout),
	}
}

func (c *InternalClient) BaseURL() string {
	return c.baseURL
}

// TriggerCron chama /api/cron-check e devolve o corpo decodificado.
// O id de correlação do contexto segue para o servidor interno.
func (c *InternalClient) TriggerCron(ctx context.Context) (any, error) {
	req := c.trigger.R().SetContext(ctx)
	if id := log.CorrelationID(ctx); id != "" {
		req.SetHeader(log.CorrelationHeader, id)
	}
	if c.cronSecret != "" {
		req.SetHeader(middleware.CronSecretHeader, c.cronSecret)
	}

	res, err := req.Get(c.baseURL + cronCheckPath)
	if err != nil {
		return nil, err
	}

	body := decodeBody(res.Body())
	if res.IsError() {
		return nil, &UpstreamError{StatusCode: res.StatusCode(), Body: body}
	}

	return body, nil
}

// Probe verifica se o servidor interno responde ao healthcheck
func (c *InternalClient) Probe(ctx context.Context) error {
	res, err := c.probe.R().SetContext(ctx).Get(c.baseURL + healthcheckPath)
	if err != nil {
		return err
	}
	if res.IsError() {
		return &UpstreamError{StatusCode: res.StatusCode(), Body: decodeBody(res.Body())}
	}
	return nil
}

// IsConnectionRefused indica que o servidor interno não está no ar
func IsConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

func decodeBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var body any
	if err := jsoniter.Unmarshal(raw, &body); err != nil {
		return string(raw)
	}
	return body
}
