package handlers

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"time"

	"github.com/collegefest/champboard/internal/auth"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/services"
	"github.com/collegefest/champboard/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Pinger reports whether the database is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the use-cases the handlers call
type Services struct {
	Departments services.DepartmentServicer
	Sports      services.SportServicer
	Fixtures    services.FixtureServicer
	Cultural    services.CulturalServicer
	Leaderboard services.LeaderboardServicer
	Settings    services.SettingsServicer
	QR          services.QRServicer
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index              *template.Template
	Sports             *template.Template
	Sport              *template.Template
	Cultural           *template.Template
	CulturalEvent      *template.Template
	AdminLogin         *template.Template
	AdminDashboard     *template.Template
	AdminSports        *template.Template
	AdminSport         *template.Template
	AdminCultural      *template.Template
	AdminCulturalEvent *template.Template
	AdminDepartments   *template.Template
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Services
	Auth         *auth.Auth
	Hub          *websocket.Hub
	DB           Pinger
	Log          logger.Logger
	CORSOrigins  []string
	templates    *Templates
	staticServer http.Handler
}

// New creates a new Handlers instance with all dependencies
func New(
	svc Services,
	templatesFS fs.FS,
	staticServer http.Handler,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	db Pinger,
	log logger.Logger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Services:     svc,
		Auth:         adminAuth,
		Hub:          hub,
		DB:           db,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(svc Services, adminAuth *auth.Auth, log logger.Logger) *Handlers {
	return &Handlers{
		Services: svc,
		Auth:     adminAuth,
		Log:      log,
		// templates left nil - API endpoints don't use templates
	}
}

// templateFuncs are available to every page
var templateFuncs = template.FuncMap{
	"points":      formatPoints,
	"when":        formatTime,
	"isoTime":     func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"hasDomain":   hasDomain,
	"ordinal":     ordinal,
	"statusLabel": statusLabel,
}

// formatPoints drops a trailing ".0" so whole points read as integers
func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "TBA"
	}
	return t.Local().Format("Mon 2 Jan, 3:04 PM")
}

func hasDomain(domains []models.Domain, d string) bool {
	for _, x := range domains {
		if string(x) == d {
			return true
		}
	}
	return false
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return strconv.Itoa(n) + suffix
}

func statusLabel(s models.FixtureStatus) string {
	switch s {
	case models.FixtureHappening:
		return "Live"
	case models.FixtureCompleted:
		return "Completed"
	}
	return "Upcoming"
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}

	pages := []struct {
		dst   **template.Template
		name  string
		files []string
	}{
		{&t.Index, "index", []string{"layout.html", "index.html"}},
		{&t.Sports, "sports", []string{"layout.html", "sports.html"}},
		{&t.Sport, "sport", []string{"layout.html", "sport.html"}},
		{&t.Cultural, "cultural", []string{"layout.html", "cultural.html"}},
		{&t.CulturalEvent, "cultural event", []string{"layout.html", "cultural_event.html"}},
		{&t.AdminLogin, "admin login", []string{"admin/login.html"}},
		{&t.AdminDashboard, "admin dashboard", []string{"admin/layout.html", "admin/dashboard.html"}},
		{&t.AdminSports, "admin sports", []string{"admin/layout.html", "admin/sports.html"}},
		{&t.AdminSport, "admin sport", []string{"admin/layout.html", "admin/sport.html"}},
		{&t.AdminCultural, "admin cultural", []string{"admin/layout.html", "admin/cultural.html"}},
		{&t.AdminCulturalEvent, "admin cultural event", []string{"admin/layout.html", "admin/cultural_event.html"}},
		{&t.AdminDepartments, "admin departments", []string{"admin/layout.html", "admin/departments.html"}},
	}

	for _, p := range pages {
		tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templatesFS, p.files...)
		if err != nil {
			return nil, fmt.Errorf("%s template: %w", p.name, err)
		}
		*p.dst = tmpl
	}

	return t, nil
}

// render executes a named template, logging failures. Headers may already
// be sent by then, so there is nothing else to do.
func (h *Handlers) render(w http.ResponseWriter, tmpl *template.Template, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil && h.Log != nil {
		h.Log.Error("Template execution failed", "template", name, "error", err)
	}
}

// renderError writes a plain error page for a failed page load
func (h *Handlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := ToAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError && h.Log != nil {
		h.Log.Error("Page failed", "path", r.URL.Path, "error", err)
	}
	http.Error(w, apiErr.Message, apiErr.Status)
}
