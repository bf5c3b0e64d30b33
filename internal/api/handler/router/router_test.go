package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	var order []string
	mark := func(name string) alice.Constructor {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	rt := New(
		[]Route{{
			Path:        "/api/cron-check",
			Method:      http.MethodGet,
			Handler:     http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }),
			Middlewares: []alice.Constructor{mark("secret"), mark("audit")},
		}},
		[]Route{{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
		}},
	)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		validate   func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:       "middlewares da rota na ordem declarada",
			method:     http.MethodGet,
			path:       "/api/cron-check",
			wantStatus: http.StatusAccepted,
			validate: func(t *testing.T, _ *httptest.ResponseRecorder) {
				assert.Equal(t, []string{"secret", "audit"}, order)
			},
		},
		{
			name:       "rota sem middlewares",
			method:     http.MethodGet,
			path:       "/healthcheck",
			wantStatus: http.StatusOK,
		},
		{
			name:       "rota inexistente",
			method:     http.MethodGet,
			path:       "/nada",
			wantStatus: http.StatusNotFound,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var body map[string]any
				require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, false, body["success"])
				assert.Equal(t, "Route not found", body["error"])
			},
		},
		{
			name:       "metodo nao permitido",
			method:     http.MethodPost,
			path:       "/api/cron-check",
			wantStatus: http.StatusMethodNotAllowed,
			validate: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var body map[string]any
				require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "Method not allowed", body["error"])
				assert.Contains(t, rec.Header().Get("Allow"), http.MethodGet)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order = nil
			rec := httptest.NewRecorder()
			rt.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.validate != nil {
				tt.validate(t, rec)
			}
		})
	}
}
