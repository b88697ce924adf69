package api

import (
	"io/fs"
	"net/http"

	"serwer-cytatow/internal/catalog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires the HTML pages, the JSON API and the operational endpoints.
func (s *Server) NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/health", s.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.CORS.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			MaxAge:         300,
		}))
		// Keeps the HTML 404 page set below out of the API.
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Not Found", http.StatusNotFound)
		})

		r.Get("/health", s.HealthCheckHandler)
		r.Post("/auth/login", s.LoginHandler)
		r.Post("/auth/refresh", s.RefreshTokenHandler)
		r.Get("/sections", s.ListSectionsHandler)
		r.Get("/sections/{section}/quotes", s.ListSectionQuotesHandler)
		r.Get("/top", s.TopQuotesHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)
			r.Get("/me", s.GetCurrentUserHandler)
			r.Get("/drafts", s.ListDraftsHandler)
			r.Get("/sessions", s.ListSessionsHandler)
			r.Delete("/sessions/{sessionId}", s.DeleteSessionHandler)
			r.Post("/sessions/terminate_all", s.TerminateAllSessionsHandler)
			r.Get("/events", s.GetEventsHandler)
		})
	})

	r.Group(func(r chi.Router) {
		if mw := s.csrfMiddleware(); mw != nil {
			r.Use(mw)
		}
		r.Use(s.LoadSession)
		r.NotFound(s.notFound)

		r.Get("/", s.Root)
		r.Get("/top", s.Top)
		r.Get("/section/{section}", s.SectionListing)
		r.Get("/proverbs", s.Landing(catalog.English, catalog.KindProverb))
		for _, lang := range catalog.Languages {
			if lang.Suffix == catalog.English.Suffix {
				r.Get("/"+lang.Slug, s.Landing(lang, catalog.KindQuote))
			} else {
				r.Get("/"+lang.Slug, s.Landing(lang, catalog.KindQuote, catalog.KindProverb))
			}
			r.Get("/"+lang.AboutSlug, s.About(lang))
		}

		r.Group(func(r chi.Router) {
			r.Use(s.RequireGuest)
			r.Get("/signup", s.SignupPage)
			r.Post("/signup", s.SignupSubmit)
			r.Get("/login", s.LoginPage)
			r.Post("/login", s.LoginSubmit)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.RequireSession)
			r.Post("/logout", s.Logout)
			r.Get("/home", s.Home)
			r.Get("/create_draft/{section}", s.CreateDraft)
			r.Get("/new/{section}", s.ComposeForm)
			r.Post("/submit", s.SubmitDraft)
			r.Post("/submit/{section}", s.PublishDirect)
			r.Get("/cancel/{draft_id}/{section}", s.CancelConfirm)
			r.Post("/cancel/{draft_id}/{section}", s.CancelDraft)
		})

		// Registered last so the fixed paths above win.
		r.Get("/{section}", s.SectionListing)
	})

	return r
}

// csrfMiddleware protects the HTML forms when a key is configured.
func (s *Server) csrfMiddleware() func(http.Handler) http.Handler {
	if s.config.Security.CSRFKey == "" {
		return nil
	}

	protect := csrf.Protect([]byte(s.config.Security.CSRFKey),
		csrf.Secure(s.config.Session.Secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	if s.config.Session.Secure {
		return protect
	}

	return func(next http.Handler) http.Handler {
		h := protect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
