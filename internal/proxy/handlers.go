package proxy

import (
	"context"
	"errors"
	"net/http"

	"github.com/vfg2006/campaign-reporter/pkg/apiErrors"
	"github.com/vfg2006/campaign-reporter/pkg/log"
	"github.com/vfg2006/campaign-reporter/pkg/middleware"
)

const serviceName = "External Cron Client API"

// Trigger é o cliente usado pelas rotas de disparo
type Trigger interface {
	BaseURL() string
	TriggerCron(ctx context.Context) (any, error)
	Probe(ctx context.Context) error
}

type triggerSuccess struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Docs descreve o serviço e as rotas
func Docs(client Trigger, port, token, cronSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteJSON(w, http.StatusOK, map[string]any{
			"service": serviceName,
			"version": "1.0.0",
			"endpoints": map[string]string{
				"GET /":                         "This documentation",
				"GET /health":                   "Health check",
				"GET /status":                   "Check internal server status",
				"POST /trigger-cron":            "Trigger cron job (with Authorization header)",
				"GET /trigger-cron?token=TOKEN": "Trigger cron job (with token parameter)",
			},
			"usage": map[string]string{
				"POST": "curl -X POST http://localhost:" + port + "/trigger-cron -H \"Authorization: Bearer YOUR_TOKEN\"",
				"GET":  "curl \"http://localhost:" + port + "/trigger-cron?token=YOUR_TOKEN\"",
			},
			"configuration": map[string]any{
				"internalServerUrl": client.BaseURL(),
				"externalTokenSet":  token != "",
				"cronSecretSet":     cronSecret != "",
			},
		})
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"timestamp": apiErrors.Timestamp(),
			"service":   serviceName,
		})
	}
}

// Status consulta o healthcheck do servidor interno
func Status(client Trigger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"externalApi":       "running",
			"internalServer":    "reachable",
			"internalServerUrl": client.BaseURL(),
			"timestamp":         apiErrors.Timestamp(),
		}
		if err := client.Probe(r.Context()); err != nil {
			body["internalServer"] = "unreachable"
			body["error"] = err.Error()
		}

		apiErrors.WriteJSON(w, http.StatusOK, body)
	}
}

// TriggerWithBearer exige Authorization: Bearer <token> quando o token está configurado
func TriggerWithBearer(client Trigger, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token != "" && !middleware.SecretMatches(middleware.BearerToken(r), token) {
			apiErrors.WriteFailure(w, apiErrors.ErrInvalidToken, "Unauthorized: Invalid or missing token", nil)
			return
		}
		trigger(w, r, client)
	}
}

// TriggerWithQuery aceita o token em ?token= para facilitar o uso via navegador
func TriggerWithQuery(client Trigger, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token != "" && !middleware.SecretMatches(r.URL.Query().Get("token"), token) {
			apiErrors.WriteFailure(w, apiErrors.ErrInvalidToken, "Unauthorized: Invalid or missing token parameter", nil)
			return
		}
		trigger(w, r, client)
	}
}

func trigger(w http.ResponseWriter, r *http.Request, client Trigger) {
	logger := log.ForContext(r.Context()).WithFields(log.Fields{
		"method":   r.Method,
		"internal": client.BaseURL(),
	})
	logger.Info("proxy: disparo externo do cron solicitado")

	data, err := client.TriggerCron(context.WithoutCancel(r.Context()))
	if err == nil {
		logger.Info("proxy: chamada interna do cron concluída")
		apiErrors.WriteJSON(w, http.StatusOK, triggerSuccess{
			Success:   true,
			Message:   "Cron job triggered successfully",
			Data:      data,
			Timestamp: apiErrors.Timestamp(),
		})
		return
	}

	logger.WithError(err).Error("proxy: erro ao disparar o cron")

	var upstreamErr *UpstreamError
	switch {
	case errors.As(err, &upstreamErr):
		apiErrors.WriteFailureStatus(w, upstreamErr.StatusCode, apiErrors.ErrExternalService, "Internal server error", upstreamErr.Body)
	case IsConnectionRefused(err):
		apiErrors.WriteFailure(w, apiErrors.ErrCommunication, "Internal server is not available",
			"Make sure the main application is running on "+client.BaseURL())
	default:
		apiErrors.WriteFailure(w, apiErrors.ErrInternalServer, "Failed to trigger cron job", err.Error())
	}
}
