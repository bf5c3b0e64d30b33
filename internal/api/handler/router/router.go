package router

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/vfg2006/campaign-reporter/pkg/apiErrors"
)

// Route associa método e caminho a um handler, com middlewares só da rota
type Route struct {
	Path        string
	Method      string
	Handler     http.Handler
	Middlewares []alice.Constructor
}

type Router struct {
	router *httprouter.Router
}

// New registra os grupos de rotas. Caminho ou método desconhecido respondem
// no envelope de falha.
func New(groups ...[]Route) *Router {
	rt := httprouter.New()
	rt.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteFailureStatus(w, http.StatusNotFound, "", "Route not found", r.URL.Path)
	})
	rt.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiErrors.WriteFailureStatus(w, http.StatusMethodNotAllowed, "", "Method not allowed", map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
			"allow":  w.Header().Get("Allow"),
		})
	})

	for _, routes := range groups {
		for _, route := range routes {
			rt.Handler(route.Method, route.Path, alice.New(route.Middlewares...).Then(route.Handler))
		}
	}

	return &Router{router: rt}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
