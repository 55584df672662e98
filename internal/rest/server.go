package rest

import (
	"fmt"
	"log/slog"
	"net/http"

	scalar "github.com/MarceloPetrucio/go-scalar-api-reference"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/qraftyhq/api/internal/auth"
	"github.com/qraftyhq/api/internal/config"
	"github.com/qraftyhq/api/internal/store"
	"github.com/qraftyhq/api/internal/telemetry"
)

type Server struct {
	Router      *chi.Mux
	store       store.Store
	cfg         *config.Config
	telemetry   telemetry.Service
	logger      *slog.Logger
	openapiYAML []byte

	// Overridable in tests to point the OAuth flow at a local stub.
	googleEndpoint    oauth2.Endpoint
	googleUserinfoURL string
}

func NewServer(st store.Store, cfg *config.Config, tel telemetry.Service, openapiYAML []byte) *Server {
	if tel == nil {
		tel = &telemetry.NoopService{}
	}
	s := &Server{
		store:             st,
		cfg:               cfg,
		telemetry:         tel,
		logger:            slog.Default().With("component", "rest"),
		openapiYAML:       openapiYAML,
		googleEndpoint:    google.Endpoint,
		googleUserinfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}

	s.Router = s.routes()
	return s
}

func (s *Server) routes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.Web.Origin))

	trustedNets := parseCIDRs(s.cfg.API.TrustedProxies, s.logger)

	// Public routes
	r.Get("/health", s.handleHealth)

	r.Get("/docs/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-yaml")
		_, _ = w.Write(s.openapiYAML)
	})

	if s.cfg.API.EnableDocs {
		r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
			html, err := scalar.ApiReferenceHTML(&scalar.Options{
				SpecURL: "/docs/openapi.yaml",
				CustomOptions: scalar.CustomOptions{
					PageTitle: "Qrafty API Reference",
				},
				DarkMode: true,
			})
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "text/html")
			_, _ = fmt.Fprintln(w, html)
		})
	}

	// Auth routes (public)
	r.Route("/auth", func(r chi.Router) {
		r.With(rateLimitByIP(0.1, 5, trustedNets)).Post("/signup", s.handleSignup)
		r.With(rateLimitByIP(0.2, 10, trustedNets)).Post("/login", s.handleLogin)

		// OAuth (rate-limited)
		r.Group(func(r chi.Router) {
			r.Use(rateLimitByIP(0.5, 10, trustedNets))
			r.Get("/google/start", s.handleGoogleStart)
			r.Get("/google/callback", s.handleGoogleCallback)
		})

		// /auth/me answers for anonymous callers too, so it stays outside
		// RequireAuth.
		r.Get("/me", s.handleMe)
		r.Post("/logout", s.handleLogout)
	})

	// Public QR endpoints (scan + contact from anonymous visitors)
	r.Group(func(r chi.Router) {
		r.Use(rateLimitByIP(5, 20, trustedNets))
		r.Get("/public/qr/{publicID}", s.handlePublicQRView)
		r.Post("/public/qr/{publicID}/contact", s.handlePublicQRContact)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(s.store, s.cfg.Auth.SecureCookies))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/me", s.handleGetProfile)
			r.Patch("/me", s.handleUpdateProfile)
		})

		r.Route("/qr-cards", func(r chi.Router) {
			r.Get("/", s.handleListQRCards)
			r.Post("/", s.handleCreateQRCard)
			r.Patch("/{cardID}", s.handleUpdateQRCard)
			r.Delete("/{cardID}", s.handleDeleteQRCard)
		})

		r.Get("/interactions", s.handleListInteractions)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/overview", s.handleAnalyticsOverview)
			r.Get("/top", s.handleAnalyticsTop)
		})

		r.Get("/dashboard/overview", s.handleDashboardOverview)
		r.Get("/inventory/qr-cards", s.handleInventory)

		r.Route("/marketplace", func(r chi.Router) {
			r.Get("/businesses", s.handleListBusinesses)
			r.Get("/businesses/{businessID}", s.handleGetBusiness)
			r.Get("/me", s.handleGetMyBusiness)
			r.Post("/me", s.handleCreateBusiness)
			r.Patch("/me/{businessID}", s.handleUpdateBusiness)
			r.Delete("/me/{businessID}", s.handleDeleteBusiness)
		})
	})

	return r
}

func corsMiddleware(webOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", webOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
