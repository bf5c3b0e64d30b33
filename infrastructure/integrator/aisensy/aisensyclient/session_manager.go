package aisensyclient

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/infrastructure/browser"
	aisensydomain "github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/domain"
	"github.com/vfg2006/campaign-reporter/infrastructure/session"
	"github.com/vfg2006/campaign-reporter/internal/config"
)

var (
	ErrTokenNotFound          = errors.New("cookie token não encontrado na sessão")
	ErrUnauthorizedAfterLogin = errors.New("requisição não autorizada mesmo após novo login")
)

// SessionOptions controla expiração e a política para respostas 401
type SessionOptions struct {
	TTL                    time.Duration
	LoginTimeout           time.Duration
	UnauthorizedRetryDelay time.Duration
	UnauthorizedMaxRetries int
}

func SessionOptionsFromConfig(cfg *config.Config) SessionOptions {
	return SessionOptions{
		TTL:                    time.Duration(cfg.AiSensy.SessionTTLHours) * time.Hour,
		LoginTimeout:           cfg.AiSensy.LoginTimeout,
		UnauthorizedRetryDelay: cfg.AiSensy.UnauthorizedRetryDelay,
		UnauthorizedMaxRetries: cfg.AiSensy.UnauthorizedMaxRetries,
	}
}

// SessionManager gerencia a sessão do painel. Só existe um login por vez;
// quem chega durante um login espera e reaproveita a sessão nova.
type SessionManager struct {
	store       session.Store
	auth        browser.Authenticator
	credentials browser.Credentials
	opts        SessionOptions

	mu    sync.Mutex
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSessionManager(store session.Store, auth browser.Authenticator, creds browser.Credentials, opts SessionOptions) *SessionManager {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.LoginTimeout <= 0 {
		opts.LoginTimeout = 60 * time.Second
	}
	if opts.UnauthorizedMaxRetries < 0 {
		opts.UnauthorizedMaxRetries = 0
	}

	return &SessionManager{
		store:       store,
		auth:        auth,
		credentials: creds,
		opts:        opts,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// IsValid checa apenas os arquivos persistidos
func (m *SessionManager) IsValid() bool {
	return m.store.IsValid(m.now())
}

// Login executa o fluxo de login e substitui por completo a sessão anterior
func (m *SessionManager) Login(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.login(ctx)
}

func (m *SessionManager) login(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.LoginTimeout)
	defer cancel()

	started := m.now()
	logrus.Info("session: iniciando login no painel")

	sess, err := m.auth.Login(ctx, m.credentials)
	if err != nil {
		logrus.WithError(err).Error("session: login falhou")
		return fmt.Errorf("login: %w", err)
	}

	// sessão sem token não é persistida; o próximo gatilho tenta de novo
	if _, ok := sess.Token(); !ok {
		logrus.WithField("cookies", len(sess.Cookies)).Error("session: login sem cookie token")
		return fmt.Errorf("login: %w", ErrTokenNotFound)
	}

	sess.ExpiresAt = m.now().Add(m.opts.TTL)
	if err := m.store.Save(sess); err != nil {
		return fmt.Errorf("login: erro ao salvar sessão: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"expires_at": sess.ExpiresAt.Format(time.RFC3339),
		"duration":   m.now().Sub(started).String(),
	}).Info("session: login concluído")

	return nil
}

// Token lê o bearer token do cookie persistido
func (m *SessionManager) Token() (string, error) {
	sess, err := m.store.Load()
	if err != nil {
		return "", err
	}

	token, ok := sess.Token()
	if !ok {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// EnsureSession garante uma sessão válida e devolve o token
func (m *SessionManager) EnsureSession(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.IsValid() {
		logrus.Info("session: sessão inválida ou expirada, fazendo login")
		if err := m.login(ctx); err != nil {
			return "", err
		}
		return m.Token()
	}

	token, err := m.Token()
	if !errors.Is(err, ErrTokenNotFound) {
		return token, err
	}

	logrus.Warn("session: sessão persistida sem token, descartando e fazendo login")
	if err := m.store.Clear(); err != nil {
		logrus.WithError(err).Warn("session: erro ao apagar sessão")
	}
	if err := m.login(ctx); err != nil {
		return "", err
	}
	return m.Token()
}

// Invalidate apaga os artefatos de sessão
func (m *SessionManager) Invalidate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Clear()
}

// HandleUnauthorized decide o que fazer após um 401. Enquanto a sessão local
// ainda é válida o 401 é tratado como transitório: espera e o chamador repete
// (até UnauthorizedMaxRetries vezes). Depois disso a sessão é descartada e um
// novo login é feito; relogin=true indica que o chamador deve repetir uma vez.
func (m *SessionManager) HandleUnauthorized(ctx context.Context, transientAttempts int) (relogin bool, err error) {
	if m.IsValid() && transientAttempts < m.opts.UnauthorizedMaxRetries {
		logrus.WithField("attempt", transientAttempts+1).Warn("session: 401 com sessão válida, tentando novamente")
		if err := m.sleep(ctx, m.opts.UnauthorizedRetryDelay); err != nil {
			return false, err
		}
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	logrus.Warn("session: 401 persistente, descartando sessão e fazendo novo login")
	if err := m.store.Clear(); err != nil {
		logrus.WithError(err).Warn("session: erro ao apagar sessão")
	}
	if err := m.login(ctx); err != nil {
		return false, err
	}

	return true, nil
}

// WithSession executa call com o token atual aplicando a política de 401
func (m *SessionManager) WithSession(ctx context.Context, call func(ctx context.Context, token string) error) error {
	token, err := m.EnsureSession(ctx)
	if err != nil {
		return err
	}

	transient := 0
	relogged := false
	for {
		err := call(ctx, token)
		if !IsUnauthorized(err) {
			return err
		}
		if relogged {
			return fmt.Errorf("%w: %v", ErrUnauthorizedAfterLogin, err)
		}

		relogin, herr := m.HandleUnauthorized(ctx, transient)
		if herr != nil {
			return herr
		}
		if !relogin {
			transient++
			continue
		}

		relogged = true
		if token, err = m.Token(); err != nil {
			return err
		}
	}
}

// IsUnauthorized indica se o erro é um 401 da API
func IsUnauthorized(err error) bool {
	var apiErr *aisensydomain.APIError
	return errors.As(err, &apiErr) && apiErr.IsUnauthorized()
}
