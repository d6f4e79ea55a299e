package camelsnake

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// KeepCaseRoutes returns a BypassFunc that resolves the chi route pattern a
// request will match and opts out of rewriting when it is one of patterns.
// The lookup runs before routing, so the rewriter can sit in front of the
// router:
//
//	r := chi.NewRouter()
//	rw := camelsnake.NewBuilder().
//		Bypass(camelsnake.KeepCaseRoutes(r, "/v1/raw/{id}")).
//		Build()
//	r.Use(rw.Middleware)
func KeepCaseRoutes(routes chi.Routes, patterns ...string) BypassFunc {
	keep := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		keep[p] = true
	}

	return func(r *http.Request) bool {
		if len(keep) == 0 {
			return false
		}
		pattern := routes.Find(chi.NewRouteContext(), r.Method, r.URL.Path)
		return pattern != "" && keep[pattern]
	}
}
