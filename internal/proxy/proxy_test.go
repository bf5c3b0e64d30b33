package proxy

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-reporter/pkg/log"
	"github.com/vfg2006/campaign-reporter/pkg/middleware"
)

const (
	testToken  = "external-token"
	testSecret = "cron-secret"
)

// fakeInternal simula o servidor do relatório
func fakeInternal(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case healthcheckPath:
			w.WriteHeader(http.StatusOK)
		case cronCheckPath:
			if r.Header.Get(middleware.CronSecretHeader) != testSecret {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"error":"Unauthorized cron request"}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// closedURL devolve um endereço sem ninguém escutando
func closedURL(t *testing.T) string {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return "http://" + addr
}

func serve(handler http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var body map[string]any
	_ = jsoniter.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestTrigger(t *testing.T) {
	tests := []struct {
		name       string
		baseURL    func(t *testing.T) string
		request    func() *http.Request
		wantStatus int
		validate   func(t *testing.T, body map[string]any)
	}{
		{
			name: "post com bearer encaminha ao servidor interno",
			baseURL: func(t *testing.T) string {
				return fakeInternal(t, http.StatusOK, `{"success":true,"campaigns":[]}`).URL
			},
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/trigger-cron", nil)
				req.Header.Set("Authorization", "Bearer "+testToken)
				return req
			},
			wantStatus: http.StatusOK,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, "Cron job triggered successfully", body["message"])
				assert.Equal(t, true, body["data"].(map[string]any)["success"])
			},
		},
		{
			name: "get com token na query",
			baseURL: func(t *testing.T) string {
				return fakeInternal(t, http.StatusOK, `{"success":true}`).URL
			},
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/trigger-cron?token="+testToken, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "bearer invalido",
			baseURL: func(t *testing.T) string {
				return fakeInternal(t, http.StatusOK, `{}`).URL
			},
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/trigger-cron", nil)
				req.Header.Set("Authorization", "Bearer outro")
				return req
			},
			wantStatus: http.StatusUnauthorized,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Unauthorized: Invalid or missing token", body["error"])
			},
		},
		{
			name: "token da query ausente",
			baseURL: func(t *testing.T) string {
				return fakeInternal(t, http.StatusOK, `{}`).URL
			},
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/trigger-cron", nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "erro do servidor interno repassa o status",
			baseURL: func(t *testing.T) string {
				return fakeInternal(t, http.StatusInternalServerError, `{"success":false,"error":"Internal server error"}`).URL
			},
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/trigger-cron?token="+testToken, nil)
			},
			wantStatus: http.StatusInternalServerError,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "Internal server error", body["error"])
				assert.Equal(t, false, body["details"].(map[string]any)["success"])
			},
		},
		{
			name:    "servidor interno fora do ar",
			baseURL: closedURL,
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/trigger-cron?token="+testToken, nil)
			},
			wantStatus: http.StatusServiceUnavailable,
			validate: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "Internal server is not available", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewInternalClient(tt.baseURL(t), testSecret)
			handler := NewHandler(client, "3002", testToken, testSecret)

			rec, body := serve(handler, tt.request())

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.validate != nil {
				tt.validate(t, body)
			}
		})
	}
}

func TestTrigger_NoTokenConfigured(t *testing.T) {
	client := NewInternalClient(fakeInternal(t, http.StatusOK, `{"success":true}`).URL, testSecret)
	handler := NewHandler(client, "3002", "", testSecret)

	rec, _ := serve(handler, httptest.NewRequest(http.MethodPost, "/trigger-cron", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTrigger_ForwardsCorrelationID(t *testing.T) {
	var forwarded string
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded = r.Header.Get(log.CorrelationHeader)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(internal.Close)

	handler := NewHandler(NewInternalClient(internal.URL, testSecret), "3002", testToken, testSecret)
	req := httptest.NewRequest(http.MethodGet, "/trigger-cron?token="+testToken, nil)
	req.Header.Set(log.CorrelationHeader, "corr-123")

	rec, _ := serve(handler, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "corr-123", forwarded)
	assert.Equal(t, "corr-123", rec.Header().Get(log.CorrelationHeader))
}

func TestStatus(t *testing.T) {
	t.Run("servidor interno acessivel", func(t *testing.T) {
		client := NewInternalClient(fakeInternal(t, http.StatusOK, `{}`).URL, testSecret)
		rec, body := serve(NewHandler(client, "3002", testToken, testSecret), httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "running", body["externalApi"])
		assert.Equal(t, "reachable", body["internalServer"])
		assert.NotContains(t, body, "error")
	})

	t.Run("servidor interno inacessivel", func(t *testing.T) {
		client := NewInternalClient(closedURL(t), testSecret)
		rec, body := serve(NewHandler(client, "3002", testToken, testSecret), httptest.NewRequest(http.MethodGet, "/status", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "unreachable", body["internalServer"])
		assert.NotEmpty(t, body["error"])
	})
}

func TestDocsAndHealth(t *testing.T) {
	client := NewInternalClient("http://localhost:3001", testSecret)
	handler := NewHandler(client, "3002", testToken, "")

	rec, body := serve(handler, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, serviceName, body["service"])
	configuration := body["configuration"].(map[string]any)
	assert.Equal(t, true, configuration["externalTokenSet"])
	assert.Equal(t, false, configuration["cronSecretSet"])

	rec, body = serve(handler, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestCors(t *testing.T) {
	client := NewInternalClient("http://localhost:3001", testSecret)
	handler := NewHandler(client, "3002", testToken, testSecret)

	req := httptest.NewRequest(http.MethodOptions, "/trigger-cron", nil)
	req.Header.Set("Origin", "https://qualquer.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://qualquer.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
