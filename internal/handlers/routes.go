package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/collegefest/champboard/internal/models"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// publicCORS lets other sites read the public JSON API. Only GET is allowed
// and credentials never are, so cross-origin admin calls fail preflight.
func (h *Handlers) publicCORS() func(http.Handler) http.Handler {
	origins := h.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(h.publicCORS())

	// Static files (served from embedded filesystem)
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
	}

	r.Get("/healthz", h.handleHealthz)

	// WebSocket
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Public pages
	r.Get("/", h.handleIndex)
	r.Get("/sports", h.handleSportsPage)
	r.Get("/sports/{id}", h.handleSportPage)
	r.Get("/cultural", h.handleCulturalPage)
	r.Get("/cultural/{id}", h.handleCulturalEventPage)

	// Public API
	r.Get("/api/leaderboard", h.handleGetLeaderboard)
	r.Get("/api/departments", h.handleGetDepartments)
	r.Get("/api/sports", h.handleGetSportEvents)
	r.Get("/api/sports/{id}", h.handleGetSportEvent)
	r.Get("/api/sports/{id}/standings", h.handleGetStandings)
	r.Get("/api/sports/{id}/fixtures", h.handleGetFixtures)
	r.Get("/api/cultural", h.handleGetCulturalEvents)
	r.Get("/api/cultural/{id}", h.handleGetCulturalEvent)
	r.Get("/api/cultural/{id}/winners", h.handleGetWinners)

	// Auth routes (public)
	r.Get("/admin/login", h.handleLoginPage)
	r.Post("/admin/login", h.handleLogin)
	r.Post("/admin/logout", h.handleLogout)

	// Admin pages (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuth)
		r.Get("/admin", h.handleAdminDashboard)
		r.Get("/admin/sports", h.handleAdminSports)
		r.Get("/admin/sports/{id}", h.handleAdminSport)
		r.Get("/admin/cultural", h.handleAdminCultural)
		r.Get("/admin/cultural/{id}", h.handleAdminCulturalEvent)
		r.Get("/admin/departments", h.handleAdminDepartments)
	})

	// Admin API (protected, authorised per domain)
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		r.Get("/session", h.handleGetSession)

		// Settings (any admin)
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)

		// Sports
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireDomain(models.DomainSports))
			r.Post("/sports", h.handleCreateSportEvent)
			r.Put("/sports/{id}", h.handleUpdateSportEvent)
			r.Delete("/sports/{id}", h.handleDeleteSportEvent)
			r.Post("/sports/{id}/scores", h.handleUpdateScore)
			r.Post("/sports/{id}/fixtures", h.handleCreateFixture)
			r.Patch("/sports/{id}/fixtures/{fixtureID}", h.handleUpdateFixture)
			r.Delete("/sports/{id}/fixtures/{fixtureID}", h.handleDeleteFixture)
			r.Get("/sports/{id}/qr", h.handleSportQR)
		})

		// Cultural
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireDomain(models.DomainCultural))
			r.Post("/cultural", h.handleCreateCulturalEvent)
			r.Patch("/cultural/{id}", h.handleUpdateCulturalEvent)
			r.Delete("/cultural/{id}", h.handleDeleteCulturalEvent)
			r.Post("/cultural/{id}/winners", h.handleCreateWinner)
			r.Patch("/cultural/{id}/winners/{winnerID}", h.handleUpdateWinner)
			r.Delete("/cultural/{id}/winners/{winnerID}", h.handleDeleteWinner)
			r.Get("/cultural/{id}/qr", h.handleCulturalQR)
		})

		// Departments
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireDomain(models.DomainDepartments))
			r.Get("/departments", h.handleAdminGetDepartments)
			r.Post("/departments", h.handleCreateDepartment)
			r.Put("/departments/{id}", h.handleUpdateDepartment)
			r.Delete("/departments/{id}", h.handleRetireDepartment)
		})
	})

	return r
}
