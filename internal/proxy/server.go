package proxy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/internal/api/handler/router"
	"github.com/vfg2006/campaign-reporter/internal/config"
	"github.com/vfg2006/campaign-reporter/pkg/middleware"
)

// Server expõe o disparo do cron para chamadores externos
type Server struct {
	httpServer *http.Server
}

// Routes monta as rotas do proxy
func Routes(client Trigger, port, token, cronSecret string) []router.Route {
	return []router.Route{
		{Path: "/", Method: http.MethodGet, Handler: Docs(client, port, token, cronSecret)},
		{Path: "/health", Method: http.MethodGet, Handler: Health()},
		{Path: "/status", Method: http.MethodGet, Handler: Status(client)},
		{Path: "/trigger-cron", Method: http.MethodPost, Handler: TriggerWithBearer(client, token)},
		{Path: "/trigger-cron", Method: http.MethodGet, Handler: TriggerWithQuery(client, token)},
	}
}

func NewHandler(client Trigger, port, token, cronSecret string) http.Handler {
	rt := router.New(Routes(client, port, token, cronSecret))

	return alice.New(
		middleware.Recover(),
		middleware.RequestLogging(),
		middleware.PermissiveCors(),
	).Then(rt)
}

func New(cfg *config.Config) *Server {
	client := NewInternalClient(cfg.Proxy.InternalServerURL, cfg.Cron.Secret)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Proxy.Port),
			Handler:           NewHandler(client, cfg.Proxy.Port, cfg.Proxy.Token, cfg.Cron.Secret),
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      triggerTimeout + 30*time.Second,
		},
	}
}

// Run atende até o contexto ser cancelado
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("address", s.httpServer.Addr).Info("Proxy de disparo iniciando")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.Info("Desligando proxy de disparo")
	return s.httpServer.Shutdown(shutdownCtx)
}
