package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/randpass/randpass-go/internal/middleware"
)

// Routes wires handlers into a chi router.
type Routes struct {
	Generator *GeneratorHandler
	Settings  *SettingsHandler
	Auth      *AuthHandler

	JWTSecret     string
	GenerateRPS   float64
	GenerateBurst int
}

// NewRouter builds the HTTP API. Background work started for the router stops
// when ctx is done.
func NewRouter(ctx context.Context, rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, rt.GenerateRPS, rt.GenerateBurst))
		r.Post("/api/v1/generate", rt.Generator.HandleGenerate)
		r.Post("/api/v1/ajax", Dispatch(map[string]http.HandlerFunc{
			ActionGeneratePassword: rt.Generator.HandleGenerate,
		}))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(ctx, 1, 5))
		r.Post("/api/v1/auth/token", rt.Auth.HandleToken)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(rt.JWTSecret))
		r.Get("/api/v1/settings", rt.Settings.HandleGet)
		r.Put("/api/v1/settings", rt.Settings.HandleUpdate)
		r.Post("/api/v1/settings/activate", rt.Settings.HandleActivate)
		r.Delete("/api/v1/settings", rt.Settings.HandleDeactivate)
		r.Get("/api/v1/quota", rt.Generator.HandleQuota)
	})

	return r
}
