package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/collegefest/champboard/internal/auth"
)

func postLogin(ts *testSetup, email, password, remoteAddr string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	ts := newPageSetup(t)

	rec := postLogin(ts, "  Sports@College.edu ", testPassword, "10.0.0.1:5000")
	expectStatus(t, rec, http.StatusFound)
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("expected redirect to /admin, got %q", loc)
	}

	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected a session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/session", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusOK)
}

func TestLogin_Rejected(t *testing.T) {
	ts := newPageSetup(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", sportsAdmin, "nope"},
		{"unlisted email", "student@college.edu", testPassword},
		{"empty form", "", ""},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postLogin(ts, tt.email, tt.password, "10.0.1."+strconv.Itoa(i+1)+":5000")
			expectStatus(t, rec, http.StatusUnauthorized)
			if sessionCookie(rec) != nil {
				t.Error("no cookie should be set on failure")
			}
			if !strings.Contains(rec.Body.String(), "invalid e-mail or password") {
				t.Errorf("login page should show the error, got %s", rec.Body.String())
			}
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	ts := newPageSetup(t)
	const client = "10.0.2.1:5000"

	for i := 0; i < 5; i++ {
		expectStatus(t, postLogin(ts, sportsAdmin, "wrong", client), http.StatusUnauthorized)
	}

	rec := postLogin(ts, sportsAdmin, testPassword, client)
	expectStatus(t, rec, http.StatusTooManyRequests)
	if sessionCookie(rec) != nil {
		t.Error("rate-limited login must not set a cookie")
	}

	// Another client is unaffected
	expectStatus(t, postLogin(ts, sportsAdmin, testPassword, "10.0.2.2:5000"), http.StatusFound)
}

func TestLoginPage(t *testing.T) {
	ts := newPageSetup(t)

	rec := ts.do(t, http.MethodGet, "/admin/login", "", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Login") {
		t.Errorf("expected login page, got %s", rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/admin/login", sportsAdmin, nil)
	expectStatus(t, rec, http.StatusFound)
	if loc := rec.Header().Get("Location"); loc != "/admin" {
		t.Errorf("logged-in admin should go to /admin, got %q", loc)
	}
}

func TestLogout(t *testing.T) {
	ts := newPageSetup(t)

	rec := ts.do(t, http.MethodPost, "/admin/logout", sportsAdmin, nil)
	expectStatus(t, rec, http.StatusFound)
	if loc := rec.Header().Get("Location"); loc != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %q", loc)
	}
	if c := sessionCookie(rec); c == nil || c.MaxAge >= 0 {
		t.Error("expected the session cookie to be cleared")
	}

	// The token is revoked, not just forgotten by the browser
	rec = ts.do(t, http.MethodGet, "/api/admin/session", sportsAdmin, nil)
	expectStatus(t, rec, http.StatusUnauthorized)
}

func TestAdminPages_RequireLogin(t *testing.T) {
	ts := newPageSetup(t)

	for _, path := range []string{"/admin", "/admin/sports", "/admin/cultural", "/admin/departments"} {
		t.Run(path, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, path, "", nil)
			expectStatus(t, rec, http.StatusFound)
			if loc := rec.Header().Get("Location"); loc != "/admin/login" {
				t.Errorf("expected redirect to /admin/login, got %q", loc)
			}
		})
	}
}
