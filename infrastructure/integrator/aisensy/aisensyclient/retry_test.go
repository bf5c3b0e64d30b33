package aisensyclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	aisensydomain "github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/domain"
)

type recordedEvents struct {
	lines []string
}

func (r *recordedEvents) Record(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func newTestRetryClient(events *recordedEvents, delays *[]time.Duration) *RetryClient {
	c := NewRetryClient(resty.New(), 3, 100*time.Millisecond, events)
	c.jitter = func() time.Duration { return 0 }
	c.sleep = func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
	return c
}

func TestRetryClient_Do(t *testing.T) {
	tests := []struct {
		name         string
		statuses     []int
		wantAttempts int32
		validate     func(t *testing.T, res *resty.Response, err error, events *recordedEvents, delays []time.Duration)
	}{
		{
			name:         "429 duas vezes e depois sucesso faz tres tentativas",
			statuses:     []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK},
			wantAttempts: 3,
			validate: func(t *testing.T, res *resty.Response, err error, events *recordedEvents, delays []time.Duration) {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, res.StatusCode())
				assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, delays)
				require.NotEmpty(t, events.lines)
				assert.Contains(t, events.lines[len(events.lines)-1], "after 2 retries")
			},
		},
		{
			name:         "429 persistente para na terceira tentativa",
			statuses:     []int{http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusTooManyRequests, http.StatusOK},
			wantAttempts: 3,
			validate: func(t *testing.T, _ *resty.Response, err error, events *recordedEvents, _ []time.Duration) {
				var apiErr *aisensydomain.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.True(t, apiErr.IsRateLimited())
				assert.Contains(t, events.lines[len(events.lines)-1], "Max retries (2) reached")
			},
		},
		{
			name:         "erro diferente de 429 nao e repetido",
			statuses:     []int{http.StatusInternalServerError, http.StatusOK},
			wantAttempts: 1,
			validate: func(t *testing.T, _ *resty.Response, err error, events *recordedEvents, delays []time.Duration) {
				var apiErr *aisensydomain.APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Empty(t, delays)
				assert.Empty(t, events.lines)
			},
		},
		{
			name:         "401 e devolvido sem nova tentativa",
			statuses:     []int{http.StatusUnauthorized},
			wantAttempts: 1,
			validate: func(t *testing.T, _ *resty.Response, err error, _ *recordedEvents, _ []time.Duration) {
				assert.True(t, IsUnauthorized(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&hits, 1)
				w.WriteHeader(tt.statuses[n-1])
				_, _ = w.Write([]byte(`{}`))
			}))
			defer server.Close()

			events := &recordedEvents{}
			var delays []time.Duration
			client := newTestRetryClient(events, &delays)

			res, err := client.Do(context.Background(), Request{
				Method: http.MethodPost,
				URL:    server.URL,
				Token:  "token",
				Body:   map[string]string{"campaignId": "c1"},
			})

			assert.Equal(t, tt.wantAttempts, atomic.LoadInt32(&hits))
			tt.validate(t, res, err, events, delays)
		})
	}
}

func TestRetryClient_Backoff(t *testing.T) {
	c := NewRetryClient(resty.New(), 4, 2*time.Second, nil)
	c.jitter = func() time.Duration { return 0 }

	assert.Equal(t, time.Duration(0), c.Backoff(1))
	assert.Equal(t, 2*time.Second, c.Backoff(2))
	assert.Equal(t, 4*time.Second, c.Backoff(3))
	assert.Equal(t, 8*time.Second, c.Backoff(4))
}

func TestRetryClient_SleepRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepContext(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
