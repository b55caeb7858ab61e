// Package server assembles the HTTP surface: the GraphQL endpoint, the
// attachment object endpoint, and a health check.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/Jashan32/talawa-api/internal/auth"
	"github.com/Jashan32/talawa-api/internal/objectstore"
)

// RouterOptions controls the construction of the API router. Schema, Store,
// and Logger are required; the rest defaults sensibly when unset.
type RouterOptions struct {
	Schema        *graphql.Schema
	Store         objectstore.Store
	Tokens        *auth.TokenManager
	Logger        *slog.Logger
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
}

// DefaultCORSOptions returns the shared development CORS policy.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, and
// the API handlers mounted. The router can be tailored via RouterOptions for
// tests and other entrypoints.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	// Bearer tokens resolve to a principal before any handler runs.
	if opts.Tokens != nil {
		r.Use(auth.Middleware(opts.Tokens, opts.Logger))
	}

	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.Method(http.MethodPost, "/graphql", &relay.Handler{Schema: opts.Schema})
	r.Get("/objects/{name}", HandleObject(opts.Store, opts.Logger))

	healthHandler := opts.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}
	r.Get("/health", healthHandler)

	return r
}
