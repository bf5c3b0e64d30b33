package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginPage = `<html><body>
<form action="/session" method="post">
  <input type="hidden" name="csrf" value="abc123">
  <input type="email" name="email">
  <input type="password" name="password">
  <button type="button" class="MuiButton-root">Continue with Google</button>
  <button type="submit" name="action" value="login" class="MuiButton-root MuiButton-contained">Continue</button>
</form>
</body></html>`

func newLoginServer(t *testing.T, page string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.FormValue("email") != "ops@example.com" || r.FormValue("password") != "s3cret" || r.FormValue("csrf") != "abc123" {
			_, _ = w.Write([]byte(page))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "jwt-value", Path: "/"})
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><h1>Campaigns</h1></body></html>`))
	})

	return httptest.NewServer(mux)
}

func TestFormAuthenticator_Login(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		creds    func(url string) Credentials
		validate func(t *testing.T, debugDir string, cookies map[string]string, err error)
	}{
		{
			name: "login com sucesso captura o cookie token",
			page: loginPage,
			creds: func(url string) Credentials {
				return Credentials{LoginURL: url + "/login", Email: "ops@example.com", Password: "s3cret"}
			},
			validate: func(t *testing.T, _ string, cookies map[string]string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "jwt-value", cookies["token"])
			},
		},
		{
			name: "credenciais erradas mantem o formulario e falham",
			page: loginPage,
			creds: func(url string) Credentials {
				return Credentials{LoginURL: url + "/login", Email: "ops@example.com", Password: "wrong"}
			},
			validate: func(t *testing.T, _ string, _ map[string]string, err error) {
				assert.ErrorIs(t, err, ErrLoginFailed)
			},
		},
		{
			name: "pagina sem botao grava o html de diagnostico",
			page: `<html><body><p>maintenance</p></body></html>`,
			creds: func(url string) Credentials {
				return Credentials{LoginURL: url + "/login", Email: "ops@example.com", Password: "s3cret"}
			},
			validate: func(t *testing.T, debugDir string, _ map[string]string, err error) {
				assert.ErrorIs(t, err, ErrSubmitNotFound)
				content, readErr := os.ReadFile(filepath.Join(debugDir, "login-debug.html"))
				require.NoError(t, readErr)
				assert.Contains(t, string(content), "maintenance")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newLoginServer(t, tt.page)
			defer server.Close()

			debugDir := t.TempDir()
			auth := NewFormAuthenticator(WithDebugDir(debugDir))

			session, err := auth.Login(context.Background(), tt.creds(server.URL))

			cookies := make(map[string]string)
			if session != nil {
				for _, c := range session.Cookies {
					cookies[c.Name] = c.Value
				}
			}
			tt.validate(t, debugDir, cookies, err)
		})
	}
}

func TestLocatorStrategies(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantStrategy string
		wantText     string
	}{
		{
			name:         "segundo Continue tem prioridade",
			html:         `<form><button>Continue with Google</button><button>Continue</button></form>`,
			wantStrategy: "second-continue",
			wantText:     "Continue",
		},
		{
			name:         "botao submit",
			html:         `<form><button type="submit">Entrar</button></form>`,
			wantStrategy: "submit",
			wantText:     "Entrar",
		},
		{
			name:         "botoes ocultos sao ignorados",
			html:         `<div style="display: none"><button type="submit">Hidden</button></div><button>Sign in</button>`,
			wantStrategy: "sign-in-text",
			wantText:     "Sign in",
		},
		{
			name:         "fallback para o ultimo botao do formulario",
			html:         `<form hidden><button>A</button><button>B</button></form>`,
			wantStrategy: "fallback-last-form-button",
			wantText:     "B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)

			auth := NewFormAuthenticator()
			sel, strategy, ok := auth.locateSubmit(doc)

			require.True(t, ok)
			assert.Equal(t, tt.wantStrategy, strategy)
			assert.Equal(t, tt.wantText, strings.TrimSpace(sel.Text()))
		})
	}
}
