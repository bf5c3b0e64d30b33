package middleware

import (
	"net/http"

	"github.com/vfg2006/campaign-reporter/pkg/log"
)

var allowedOrigins = []string{
	"http://localhost:3000",
	"https://www.app.aisensy.com",
}

func isOriginAllowed(origin string) bool {
	for _, allowedOrigin := range allowedOrigins {
		if origin == allowedOrigin {
			return true
		}
	}
	return false
}

func Cors() func(http.Handler) http.Handler {
	return cors(isOriginAllowed)
}

// PermissiveCors libera qualquer origem; usado pelo proxy de disparo
func PermissiveCors() func(http.Handler) http.Handler {
	return cors(func(string) bool { return true })
}

func cors(allowed func(origin string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && allowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Requested-With, "+CronSecretHeader+", "+log.CorrelationHeader)
				w.Header().Set("Access-Control-Expose-Headers", log.CorrelationHeader)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Max-Age", "86400") // Cache do CORS por 24 horas
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
