package rest

import (
	"net/http"

	"github.com/heartmarshall/lexipath/internal/transport/middleware"
)

// Routes groups the handlers mounted by NewRouter.
type Routes struct {
	Health     *HealthHandler
	Vocabulary *VocabularyHandler
	// External guards routes that reach remote sources or lookup services.
	// Nil leaves them unguarded.
	External middleware.Middleware
}

// NewRouter registers every route on a ServeMux. Global middleware is
// applied by the caller.
func NewRouter(rt Routes) *http.ServeMux {
	external := rt.External
	if external == nil {
		external = func(next http.Handler) http.Handler { return next }
	}
	guard := func(fn http.HandlerFunc) http.Handler { return external(fn) }

	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	v := rt.Vocabulary
	mux.HandleFunc("GET /api/vocabulary", v.List)
	mux.Handle("POST /api/vocabulary", guard(v.Add))
	mux.HandleFunc("DELETE /api/vocabulary", v.Clear)
	mux.Handle("POST /api/vocabulary/import", guard(v.Import))
	mux.HandleFunc("GET /api/vocabulary/export", v.Export)
	mux.HandleFunc("POST /api/vocabulary/batch-delete", v.BatchDelete)
	mux.HandleFunc("PATCH /api/vocabulary/{id}", v.Update)
	mux.HandleFunc("DELETE /api/vocabulary/{id}", v.Delete)
	mux.HandleFunc("PUT /api/vocabulary/{id}/status", v.SetStatus)
	mux.Handle("POST /api/vocabulary/{id}/enrich", guard(v.Enrich))

	return mux
}
