package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/collegefest/champboard/internal/auth"
	"github.com/collegefest/champboard/internal/handlers"
	"github.com/collegefest/champboard/internal/logger"
	"github.com/collegefest/champboard/internal/models"
	"github.com/collegefest/champboard/internal/repository"
	"github.com/collegefest/champboard/internal/repository/mock"
	"github.com/collegefest/champboard/internal/services"
	"github.com/collegefest/champboard/internal/testutil"
)

const (
	testPassword  = "test-password"
	sportsAdmin   = "sports@college.edu"
	culturalAdmin = "cultural@college.edu"
	deptAdmin     = "dean@college.edu"
)

var eventStart = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// testSetup creates all the dependencies needed for testing handlers
type testSetup struct {
	repo     *repository.Repository
	mock     *mock.Repository
	handlers *handlers.Handlers
	router   http.Handler
	cookies  map[string]*http.Cookie
}

func quietLogger() logger.Logger {
	return logger.NewWithOptions(logger.Options{Level: slog.LevelError, Writer: io.Discard})
}

func newTestAuth(t *testing.T) *auth.Auth {
	t.Helper()
	a, err := auth.New(auth.Options{
		Secret:   []byte("handlers-test"),
		Password: testPassword,
		Policy: auth.NewAllowlist(map[models.Domain][]string{
			models.DomainSports:      {sportsAdmin},
			models.DomainCultural:    {culturalAdmin},
			models.DomainDepartments: {deptAdmin},
		}),
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("auth.New failed: %v", err)
	}
	return a
}

func buildServices(repo *mock.Repository) handlers.Services {
	log := quietLogger()
	depts := services.NewDepartmentService(log, repo, "test")
	settings := services.NewSettingsService(log, repo)
	return handlers.Services{
		Departments: depts,
		Sports:      services.NewSportService(log, repo, depts),
		Fixtures:    services.NewFixtureService(log, repo, depts),
		Cultural:    services.NewCulturalService(log, repo, depts),
		Leaderboard: services.NewLeaderboardService(log, repo, depts),
		Settings:    settings,
		QR:          services.NewQRService(settings),
	}
}

// newTestSetup wires real services over an in-memory repository seeded with
// CSE, ECE and ME. Templates are not loaded.
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	testutil.SeedDepartments(t, repo, "CSE,ECE,ME")
	mockRepo := mock.NewRepository(repo)

	h := handlers.NewForTesting(buildServices(mockRepo), newTestAuth(t), quietLogger())
	return newSetupFor(t, repo, mockRepo, h)
}

func newSetupFor(t *testing.T, repo *repository.Repository, mockRepo *mock.Repository, h *handlers.Handlers) *testSetup {
	t.Helper()
	cookies := make(map[string]*http.Cookie)
	for _, email := range []string{sportsAdmin, culturalAdmin, deptAdmin} {
		token, err := h.Auth.Login(email, testPassword, "setup-"+email)
		if err != nil {
			t.Fatalf("login %s failed: %v", email, err)
		}
		cookies[email] = &http.Cookie{Name: auth.CookieName, Value: token}
	}
	return &testSetup{
		repo:     repo,
		mock:     mockRepo,
		handlers: h,
		router:   h.Router(),
		cookies:  cookies,
	}
}

// do sends a request as the given admin ("" for anonymous)
func (ts *testSetup) do(t *testing.T, method, path, as string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != "" {
		req.AddCookie(ts.cookies[as])
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testSetup) createSport(t *testing.T, name string) models.SportEvent {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/admin/sports", sportsAdmin, map[string]interface{}{
		"name":       name,
		"gender":     "men",
		"venue":      "Main Ground",
		"start_time": eventStart,
		"end_time":   eventStart.Add(4 * time.Hour),
	})
	expectStatus(t, rec, http.StatusCreated)
	var e models.SportEvent
	decode(t, rec, &e)
	return e
}

func (ts *testSetup) createCultural(t *testing.T, name string) models.CulturalEvent {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/admin/cultural", culturalAdmin, map[string]interface{}{
		"name":       name,
		"venue":      "Open Air Theatre",
		"start_time": eventStart,
		"end_time":   eventStart.Add(2 * time.Hour),
	})
	expectStatus(t, rec, http.StatusCreated)
	var e models.CulturalEvent
	decode(t, rec, &e)
	return e
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) handlers.APIError {
	t.Helper()
	expectStatus(t, rec, status)
	var apiErr handlers.APIError
	decode(t, rec, &apiErr)
	if apiErr.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, apiErr.Code, apiErr.Message)
	}
	return apiErr
}

// pingFunc adapts a function to handlers.Pinger
type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// testTemplatesFS has every page the handlers load, each printing enough of
// its data to assert on
func testTemplatesFS() fstest.MapFS {
	page := func(body string) *fstest.MapFile {
		return &fstest.MapFile{Data: []byte(`{{define "content"}}` + body + `{{end}}`)}
	}
	return fstest.MapFS{
		"layout.html": &fstest.MapFile{Data: []byte(`{{define "layout"}}<html><title>{{.Title}} | {{.SiteTitle}}</title><body>{{template "content" .}}</body></html>{{end}}`)},
		"index.html": page(`{{range .Leaderboard.Sports}}<li>S{{.Position}} {{.DepartmentID}} {{points .Points}}</li>{{end}}` +
			`{{range .Leaderboard.Cultural}}<li>C{{.Position}} {{.DepartmentID}} {{points .Points}}</li>{{end}}`),
		"sports.html":         page(`{{range .Events}}<li>{{.DisplayName}}</li>{{end}}<a href="{{.RulebookURL}}">Rulebook</a>`),
		"sport.html":          page(`<h1>{{.Event.DisplayName}}</h1>{{range .Standings}}<tr>{{.Position}} {{.Department}}</tr>{{end}}{{range .Fixtures}}<p>{{.Department1Label}} v {{.Department2Label}} {{statusLabel .Status}}</p>{{end}}`),
		"cultural.html":       page(`{{range .Events}}<li>{{.Name}}</li>{{end}}`),
		"cultural_event.html": page(`<h1>{{.Event.Name}}</h1>{{range .Winners}}<li>{{ordinal .Position}} {{.Department}}</li>{{end}}`),
		"admin/login.html":    &fstest.MapFile{Data: []byte(`<html><body>Login{{if .Error}} <p class="error">{{.Error}}</p>{{end}}</body></html>`)},
		"admin/layout.html":   &fstest.MapFile{Data: []byte(`{{define "admin"}}<html><body><h1>{{.PageTitle}}</h1><span>{{.Email}}</span>{{template "content" .}}</body></html>{{end}}`)},
		"admin/dashboard.html":      page(`<div>Dashboard{{if hasDomain .Domains "sports"}} sports-card{{end}}</div>`),
		"admin/sports.html":         page(`<div>Sports admin</div>`),
		"admin/sport.html":          page(`<div data-event="{{.EventID}}">{{.EventName}}</div>`),
		"admin/cultural.html":       page(`<div>Cultural admin</div>`),
		"admin/cultural_event.html": page(`<div data-event="{{.EventID}}">{{.EventName}}</div>`),
		"admin/departments.html":    page(`<div>Departments admin</div>`),
	}
}

// newPageSetup is newTestSetup with templates loaded
func newPageSetup(t *testing.T) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	testutil.SeedDepartments(t, repo, "CSE,ECE,ME")
	mockRepo := mock.NewRepository(repo)

	h, err := handlers.New(
		buildServices(mockRepo),
		testTemplatesFS(),
		handlers.NewStaticServer(fstest.MapFS{"style.css": &fstest.MapFile{Data: []byte("body{}")}}),
		newTestAuth(t),
		nil,
		repo,
		quietLogger(),
	)
	if err != nil {
		t.Fatalf("handlers.New failed: %v", err)
	}
	return newSetupFor(t, repo, mockRepo, h)
}
