package domain

import "time"

// TokenCookieName é o cookie que carrega o bearer token do painel
const TokenCookieName = "token"

// Cookie segue o formato de storage state salvo em auth.json
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Session é o artefato de sessão autenticada
type Session struct {
	Cookies   []Cookie
	ExpiresAt time.Time
}

// Token procura o cookie "token" na sessão
func (s *Session) Token() (string, bool) {
	if s == nil {
		return "", false
	}
	for _, cookie := range s.Cookies {
		if cookie.Name == TokenCookieName && cookie.Value != "" {
			return cookie.Value, true
		}
	}
	return "", false
}
