package aisensyclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/campaign-reporter/infrastructure/browser"
	browsermocks "github.com/vfg2006/campaign-reporter/infrastructure/browser/mocks"
	aisensydomain "github.com/vfg2006/campaign-reporter/infrastructure/integrator/aisensy/domain"
	"github.com/vfg2006/campaign-reporter/infrastructure/session"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"go.uber.org/mock/gomock"
)

func sessionWithToken(token string) *domain.Session {
	return &domain.Session{Cookies: []domain.Cookie{{Name: domain.TokenCookieName, Value: token}}}
}

func newTestSessionManager(t *testing.T, auth browser.Authenticator) (*SessionManager, *session.FileStore) {
	t.Helper()

	store := session.NewFileStore(t.TempDir())
	m := NewSessionManager(store, auth, browser.Credentials{LoginURL: "http://login"}, SessionOptions{
		TTL:                    24 * time.Hour,
		UnauthorizedRetryDelay: time.Millisecond,
		UnauthorizedMaxRetries: 2,
	})
	m.sleep = func(context.Context, time.Duration) error { return nil }
	return m, store
}

func unauthorized() error {
	return &aisensydomain.APIError{StatusCode: http.StatusUnauthorized, URL: "http://api/campaigns"}
}

func TestSessionManager_EnsureSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := browsermocks.NewMockAuthenticator(ctrl)
	m, _ := newTestSessionManager(t, auth)

	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(sessionWithToken("t1"), nil).Times(1)

	token, err := m.EnsureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
	assert.True(t, m.IsValid())

	// Sessão válida não dispara novo login
	token, err = m.EnsureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", token)
}

func TestSessionManager_TokenNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := browsermocks.NewMockAuthenticator(ctrl)
	m, _ := newTestSessionManager(t, auth)

	gomock.InOrder(
		auth.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(&domain.Session{Cookies: []domain.Cookie{{Name: "other", Value: "x"}}}, nil),
		auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(sessionWithToken("t2"), nil),
	)

	_, err := m.EnsureSession(context.Background())
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.False(t, m.IsValid(), "sessão sem token não deve ser persistida")

	// o gatilho seguinte faz login de novo em vez de esperar a expiração
	token, err := m.EnsureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t2", token)
}

func TestSessionManager_StoredSessionWithoutToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := browsermocks.NewMockAuthenticator(ctrl)
	m, store := newTestSessionManager(t, auth)

	require.NoError(t, store.Save(&domain.Session{
		Cookies:   []domain.Cookie{{Name: "other", Value: "x"}},
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	require.True(t, m.IsValid())

	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(sessionWithToken("t3"), nil).Times(1)

	token, err := m.EnsureSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t3", token)
}

func TestSessionManager_LoginFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := browsermocks.NewMockAuthenticator(ctrl)
	m, _ := newTestSessionManager(t, auth)

	auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, browser.ErrSubmitNotFound)

	_, err := m.EnsureSession(context.Background())
	assert.ErrorIs(t, err, browser.ErrSubmitNotFound)
	assert.False(t, m.IsValid())
}

func TestSessionManager_WithSession(t *testing.T) {
	tests := []struct {
		name      string
		responses []error
		logins    int
		validate  func(t *testing.T, tokens []string, err error)
	}{
		{
			name:      "sucesso sem 401",
			responses: []error{nil},
			logins:    1,
			validate: func(t *testing.T, tokens []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"token-1"}, tokens)
			},
		},
		{
			name:      "401 transitorio com sessao valida repete sem novo login",
			responses: []error{unauthorized(), nil},
			logins:    1,
			validate: func(t *testing.T, tokens []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"token-1", "token-1"}, tokens)
			},
		},
		{
			name:      "401 persistente faz novo login e repete uma vez",
			responses: []error{unauthorized(), unauthorized(), unauthorized(), nil},
			logins:    2,
			validate: func(t *testing.T, tokens []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"token-1", "token-1", "token-1", "token-2"}, tokens)
			},
		},
		{
			name:      "401 depois do novo login e fatal",
			responses: []error{unauthorized(), unauthorized(), unauthorized(), unauthorized()},
			logins:    2,
			validate: func(t *testing.T, tokens []string, err error) {
				assert.ErrorIs(t, err, ErrUnauthorizedAfterLogin)
				assert.Len(t, tokens, 4)
			},
		},
		{
			name:      "outros erros sao devolvidos direto",
			responses: []error{errors.New("boom")},
			logins:    1,
			validate: func(t *testing.T, _ []string, err error) {
				assert.EqualError(t, err, "boom")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			auth := browsermocks.NewMockAuthenticator(ctrl)
			m, _ := newTestSessionManager(t, auth)

			logins := 0
			auth.EXPECT().Login(gomock.Any(), gomock.Any()).
				DoAndReturn(func(context.Context, browser.Credentials) (*domain.Session, error) {
					logins++
					return sessionWithToken("token-" + string(rune('0'+logins))), nil
				}).Times(tt.logins)

			var tokens []string
			call := 0
			err := m.WithSession(context.Background(), func(_ context.Context, token string) error {
				tokens = append(tokens, token)
				resp := tt.responses[call]
				call++
				return resp
			})

			tt.validate(t, tokens, err)
		})
	}
}
