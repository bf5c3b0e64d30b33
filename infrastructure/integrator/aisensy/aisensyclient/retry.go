package aisensyclient

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/eventlog"
	aisensydomain "github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/domain"
)

const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 2 * time.Second
	maxJitter           = 500 * time.Millisecond
)

// Request descreve uma chamada à API; é reconstruída a cada tentativa
type Request struct {
	Method string
	URL    string
	Token  string
	Body   any
}

// RetryClient repete apenas respostas 429, com backoff exponencial e jitter.
// MaxAttempts é o total de tentativas, incluindo a primeira.
type RetryClient struct {
	client       *resty.Client
	MaxAttempts  int
	InitialDelay time.Duration
	Events       eventlog.Recorder

	jitter func() time.Duration
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewRetryClient(client *resty.Client, maxAttempts int, initialDelay time.Duration, events eventlog.Recorder) *RetryClient {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	if events == nil {
		events = eventlog.Discard
	}

	return &RetryClient{
		client:       client,
		MaxAttempts:  maxAttempts,
		InitialDelay: initialDelay,
		Events:       events,
		jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(maxJitter)))
		},
		sleep: sleepContext,
	}
}

// Backoff é a espera antes da tentativa attempt (a partir da segunda)
func (c *RetryClient) Backoff(attempt int) time.Duration {
	if attempt < 2 {
		return 0
	}
	return c.InitialDelay*time.Duration(1<<(attempt-2)) + c.jitter()
}

// Do executa a requisição. Respostas não-2xx viram *aisensydomain.APIError;
// erros de rede são devolvidos sem nova tentativa.
func (c *RetryClient) Do(ctx context.Context, req Request) (*resty.Response, error) {
	retries := c.MaxAttempts - 1

	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			delay := c.Backoff(attempt)
			c.Events.Record("Rate limit retry %d/%d for %s. Waiting %dms...", attempt-1, retries, req.URL, delay.Milliseconds())
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		res, err := c.execute(ctx, req)
		if err != nil {
			return nil, err
		}

		if res.IsSuccess() {
			if attempt > 1 {
				c.Events.Record("Successfully completed request to %s after %d retries.", req.URL, attempt-1)
			}
			return res, nil
		}

		apiErr := &aisensydomain.APIError{
			StatusCode: res.StatusCode(),
			Body:       res.String(),
			URL:        req.URL,
		}

		if !apiErr.IsRateLimited() {
			return res, apiErr
		}

		if attempt >= c.MaxAttempts {
			c.Events.Record("Rate limit hit (429) for %s. Max retries (%d) reached. Failing request. Request data: %s", req.URL, retries, requestData(req.Body))
			logrus.WithFields(logrus.Fields{
				"url":     req.URL,
				"attempt": attempt,
			}).Warn("aisensy: rate limit persistente, desistindo")
			return res, apiErr
		}

		c.Events.Record("Rate limit hit (429) for %s. Attempting retry %d/%d. Request data: %s", req.URL, attempt, retries, requestData(req.Body))
		logrus.WithFields(logrus.Fields{
			"url":     req.URL,
			"attempt": attempt,
		}).Debug("aisensy: rate limit, nova tentativa agendada")
	}
}

func (c *RetryClient) execute(ctx context.Context, req Request) (*resty.Response, error) {
	r := c.client.R().SetContext(ctx)
	if req.Token != "" {
		r.SetAuthToken(req.Token)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	return r.Execute(method, req.URL)
}

func requestData(body any) string {
	if body == nil {
		return "null"
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(body)
	if err != nil {
		return "?"
	}
	return string(data)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
