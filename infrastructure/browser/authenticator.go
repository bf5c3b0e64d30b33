package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/internal/domain"
	"github.com/vfg2006/campaign-reporter/pkg/telemetry"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

var (
	ErrSubmitNotFound = errors.New("não foi possível encontrar o botão de login com nenhuma estratégia")
	ErrLoginFailed    = errors.New("navegação de login falhou")
	ErrFormNotFound   = errors.New("formulário de login não encontrado")
)

// Credentials são os dados do formulário de login
type Credentials struct {
	LoginURL string
	Email    string
	Password string
}

// Authenticator executa o fluxo de login e devolve os cookies da sessão.
// A expiração é definida por quem chama.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (*domain.Session, error)
}

// FormAuthenticator faz o login preenchendo o formulário HTML da página
type FormAuthenticator struct {
	strategies []LocatorStrategy
	cookieURLs []string
	debugDir   string
	timeout    time.Duration
	newClient  func() (*resty.Client, http.CookieJar, error)
}

type Option func(*FormAuthenticator)

// WithStrategies substitui a lista de estratégias de localização do botão
func WithStrategies(strategies []LocatorStrategy) Option {
	return func(a *FormAuthenticator) {
		a.strategies = strategies
	}
}

// WithCookieURLs adiciona URLs cujos cookies também fazem parte da sessão
func WithCookieURLs(urls ...string) Option {
	return func(a *FormAuthenticator) {
		a.cookieURLs = append(a.cookieURLs, urls...)
	}
}

// WithDebugDir define onde o HTML da página é salvo quando o login falha
func WithDebugDir(dir string) Option {
	return func(a *FormAuthenticator) {
		a.debugDir = dir
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(a *FormAuthenticator) {
		a.timeout = timeout
	}
}

func NewFormAuthenticator(opts ...Option) *FormAuthenticator {
	a := &FormAuthenticator{
		strategies: DefaultLocatorStrategies,
		timeout:    30 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.newClient = a.defaultClient
	return a
}

func (a *FormAuthenticator) defaultClient() (*resty.Client, http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, nil, err
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(a.timeout)
	telemetry.InstrumentResty(client, "browser/login")

	return client, jar, nil
}

// Login abre a página, preenche as credenciais, aciona o botão encontrado e
// captura os cookies resultantes. Sempre começa com um cookie jar vazio.
func (a *FormAuthenticator) Login(ctx context.Context, creds Credentials) (*domain.Session, error) {
	client, jar, err := a.newClient()
	if err != nil {
		return nil, fmt.Errorf("browser: erro ao criar cliente: %w", err)
	}

	logrus.WithField("login_url", creds.LoginURL).Info("browser: abrindo página de login")

	res, err := client.R().SetContext(ctx).Get(creds.LoginURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: página de login respondeu %d", ErrLoginFailed, res.StatusCode())
	}

	pageURL := finalURL(res, creds.LoginURL)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("browser: erro ao interpretar HTML: %w", err)
	}

	button, strategy, ok := a.locateSubmit(doc)
	if !ok {
		a.captureDiagnostics(res.Body())
		return nil, ErrSubmitNotFound
	}
	logrus.WithField("strategy", strategy).Info("browser: botão de login encontrado")

	form := button.Closest("form")
	if form.Length() == 0 {
		form = doc.Find("form").FilterFunction(func(_ int, sel *goquery.Selection) bool {
			return sel.Find(`input[type="password"]`).Length() > 0
		}).First()
	}
	if form.Length() == 0 {
		a.captureDiagnostics(res.Body())
		return nil, ErrFormNotFound
	}

	action, err := resolveAction(pageURL, form.AttrOr("action", ""))
	if err != nil {
		return nil, fmt.Errorf("browser: action inválida: %w", err)
	}

	values := formValues(form, button, creds)
	method := strings.ToUpper(form.AttrOr("method", http.MethodPost))

	req := client.R().SetContext(ctx).SetHeader("Referer", pageURL.String())
	if method == http.MethodGet {
		res, err = req.SetQueryParamsFromValues(values).Get(action.String())
	} else {
		res, err = req.SetFormDataFromValues(values).Post(action.String())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: envio do formulário respondeu %d", ErrLoginFailed, res.StatusCode())
	}

	if stillOnLoginPage(res.Body()) {
		a.captureDiagnostics(res.Body())
		return nil, fmt.Errorf("%w: formulário de login exibido novamente", ErrLoginFailed)
	}

	urls := append([]string{creds.LoginURL, finalURL(res, action.String()).String()}, a.cookieURLs...)
	cookies := collectCookies(jar, urls)

	logrus.WithField("cookies", len(cookies)).Info("browser: login concluído")

	return &domain.Session{Cookies: cookies}, nil
}

func (a *FormAuthenticator) locateSubmit(doc *goquery.Document) (*goquery.Selection, string, bool) {
	for _, strategy := range a.strategies {
		if sel, ok := strategy.Locate(doc); ok {
			return sel, strategy.Name, true
		}
	}
	return locateFallback(doc)
}

func (a *FormAuthenticator) captureDiagnostics(body []byte) {
	if a.debugDir == "" {
		return
	}
	path := filepath.Join(a.debugDir, "login-debug.html")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		logrus.WithError(err).Warn("browser: não foi possível salvar o HTML de diagnóstico")
		return
	}
	logrus.WithField("path", path).Warn("browser: HTML da página de login salvo para diagnóstico")
}

func finalURL(res *resty.Response, fallback string) *url.URL {
	if res != nil && res.RawResponse != nil && res.RawResponse.Request != nil && res.RawResponse.Request.URL != nil {
		return res.RawResponse.Request.URL
	}
	u, _ := url.Parse(fallback)
	if u == nil {
		u = &url.URL{}
	}
	return u
}

func resolveAction(page *url.URL, action string) (*url.URL, error) {
	if action == "" {
		return page, nil
	}
	ref, err := url.Parse(action)
	if err != nil {
		return nil, err
	}
	return page.ResolveReference(ref), nil
}

// formValues monta os campos do formulário, preenchendo email e senha
func formValues(form, button *goquery.Selection, creds Credentials) url.Values {
	values := url.Values{}

	form.Find("input[name]").Each(func(_ int, input *goquery.Selection) {
		name := input.AttrOr("name", "")
		inputType := strings.ToLower(input.AttrOr("type", "text"))

		switch {
		case inputType == "email" || strings.Contains(strings.ToLower(name), "email"):
			values.Set(name, creds.Email)
		case inputType == "password":
			values.Set(name, creds.Password)
		case inputType == "checkbox" || inputType == "radio":
			if _, checked := input.Attr("checked"); checked {
				values.Add(name, input.AttrOr("value", "on"))
			}
		case inputType == "submit" || inputType == "button" || inputType == "image":
		default:
			values.Add(name, input.AttrOr("value", ""))
		}
	})

	// Inputs sem name recebem nomes padrão
	if form.Find(`input[type="email"]:not([name])`).Length() > 0 && values.Get("email") == "" {
		values.Set("email", creds.Email)
	}
	if form.Find(`input[type="password"]:not([name])`).Length() > 0 && values.Get("password") == "" {
		values.Set("password", creds.Password)
	}

	if name, ok := button.Attr("name"); ok && name != "" {
		values.Set(name, button.AttrOr("value", ""))
	}

	return values
}

func stillOnLoginPage(body []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false
	}
	return doc.Find(`input[type="password"]`).Length() > 0
}

func collectCookies(jar http.CookieJar, rawURLs []string) []domain.Cookie {
	seen := make(map[string]bool)
	cookies := make([]domain.Cookie, 0)

	for _, raw := range rawURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		for _, c := range jar.Cookies(u) {
			key := c.Name + "@" + u.Hostname()
			if seen[c.Name] || seen[key] {
				continue
			}
			seen[c.Name] = true
			seen[key] = true
			cookies = append(cookies, domain.Cookie{
				Name:   c.Name,
				Value:  c.Value,
				Domain: u.Hostname(),
				Path:   "/",
				Secure: u.Scheme == "https",
			})
		}
	}

	return cookies
}
