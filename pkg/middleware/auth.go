package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-reporter/pkg/apiErrors"
)

const CronSecretHeader = "x-vercel-cron-secret"

// CronSecret exige o cabeçalho x-vercel-cron-secret quando o segredo está
// configurado. Sem segredo configurado as rotas ficam abertas.
func CronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret != "" && !SecretMatches(r.Header.Get(CronSecretHeader), secret) {
				logrus.WithField("path", r.URL.Path).Warn("Requisição de cron sem segredo válido")
				apiErrors.WriteFailure(w, apiErrors.ErrUnauthorizedCron, "Unauthorized cron request", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extrai o token do cabeçalho Authorization
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return ""
	}
	return strings.TrimSpace(tokenString)
}

// SecretMatches compara em tempo constante
func SecretMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
