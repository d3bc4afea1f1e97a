package auth

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/models"
)

const (
	sportsAdmin   = "coach@college.edu"
	culturalAdmin = "arts@college.edu"
)

func testPolicy() *Allowlist {
	return NewAllowlist(map[models.Domain][]string{
		models.DomainSports:   {sportsAdmin},
		models.DomainCultural: {culturalAdmin},
	})
}

func newTestAuth(t *testing.T) *Auth {
	t.Helper()
	a, err := New(Options{
		Secret:     []byte("test-secret"),
		Password:   "password",
		Policy:     testPolicy(),
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func login(t *testing.T, a *Auth, email string) string {
	t.Helper()
	token, err := a.Login(email, "password", "test-client")
	if err != nil {
		t.Fatalf("Login(%q) error = %v", email, err)
	}
	return token
}

func TestNew(t *testing.T) {
	a := newTestAuth(t)

	if a.revoked == nil {
		t.Error("expected revoked map to be initialized")
	}
	if bcrypt.CompareHashAndPassword(a.passwordHash, []byte("password")) != nil {
		t.Error("expected password to be hashed")
	}
}

func TestNew_RequiresPolicyAndPassword(t *testing.T) {
	if _, err := New(Options{Password: "x"}); err == nil {
		t.Error("expected error without a policy")
	}
	if _, err := New(Options{Policy: testPolicy()}); err == nil {
		t.Error("expected error without a password")
	}
	if _, err := New(Options{Policy: testPolicy(), PasswordHash: "not-bcrypt"}); err == nil {
		t.Error("expected error for a malformed hash")
	}
}

func TestNew_PasswordHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pw"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(Options{PasswordHash: string(hash), Policy: testPolicy()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := a.Login(sportsAdmin, "hashed-pw", "c"); err != nil {
		t.Errorf("expected login with hashed password, got %v", err)
	}
}

func TestNew_RandomSecret(t *testing.T) {
	a, err := New(Options{Password: "pw", Policy: testPolicy(), BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatal(err)
	}
	if len(a.secret) != 32 {
		t.Errorf("expected 32-byte random secret, got %d bytes", len(a.secret))
	}
}

func TestGeneratePassword_Format(t *testing.T) {
	pw := GeneratePassword()

	parts := strings.Split(pw, "-")
	if len(parts) != 3 {
		t.Errorf("expected 3 words separated by dashes, got %d parts: %s", len(parts), pw)
	}

	for _, part := range parts {
		found := false
		for _, word := range festWords {
			if part == word {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("word %q not in festWords list", part)
		}
	}
}

func TestGeneratePassword_Randomness(t *testing.T) {
	passwords := make(map[string]bool)
	for i := 0; i < 10; i++ {
		passwords[GeneratePassword()] = true
	}
	if len(passwords) < 3 {
		t.Errorf("expected more password variety, got only %d unique passwords", len(passwords))
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")) != nil {
		t.Error("expected hash to match password")
	}
}

func TestLogin_Valid(t *testing.T) {
	a := newTestAuth(t)

	token := login(t, a, "  Coach@College.edu ")

	subject, ok := a.ValidateSession(token)
	if !ok {
		t.Fatal("expected session to be valid after login")
	}
	if subject != sportsAdmin {
		t.Errorf("expected normalized subject %q, got %q", sportsAdmin, subject)
	}
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", sportsAdmin, "wrong"},
		{"unknown email", "stranger@college.edu", "password"},
		{"empty email", "", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuth(t)
			token, err := a.Login(tt.email, tt.password, "c")
			if token != "" {
				t.Error("expected empty token on failed login")
			}
			if !errors.Is(err, errors.ErrUnauthorized) {
				t.Errorf("expected unauthorized error, got %v", err)
			}
		})
	}
}

func TestLogin_RateLimited(t *testing.T) {
	a := newTestAuth(t)

	for i := 0; i < loginBurst; i++ {
		a.Login(sportsAdmin, "wrong", "10.0.0.1")
	}

	if _, err := a.Login(sportsAdmin, "password", "10.0.0.1"); !stderrors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if _, err := a.Login(sportsAdmin, "password", "10.0.0.2"); err != nil {
		t.Errorf("expected other client to be unaffected, got %v", err)
	}
}

func TestLogout_InvalidatesSession(t *testing.T) {
	a := newTestAuth(t)
	token := login(t, a, sportsAdmin)

	a.Logout(token)

	if _, ok := a.ValidateSession(token); ok {
		t.Error("expected session to be invalid after logout")
	}
}

func TestLogout_InvalidTokenIgnored(t *testing.T) {
	a := newTestAuth(t)
	a.Logout("garbage")

	if len(a.revoked) != 0 {
		t.Error("expected nothing revoked for an invalid token")
	}
}

func TestValidateSession_InvalidToken(t *testing.T) {
	a := newTestAuth(t)

	if _, ok := a.ValidateSession("nonexistent-token"); ok {
		t.Error("expected false for nonexistent token")
	}
}

func TestValidateSession_ExpiredSession(t *testing.T) {
	a := newTestAuth(t)
	a.now = func() time.Time { return time.Now().Add(-SessionExpiry - time.Hour) }
	token := login(t, a, sportsAdmin)

	if _, ok := a.ValidateSession(token); ok {
		t.Error("expected expired session to be invalid")
	}
}

func TestValidateSession_OtherSecret(t *testing.T) {
	a := newTestAuth(t)
	token := login(t, a, sportsAdmin)

	other, err := New(Options{Secret: []byte("another"), Password: "password", Policy: testPolicy(), BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := other.ValidateSession(token); ok {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestValidateSession_SubjectRemovedFromPolicy(t *testing.T) {
	a := newTestAuth(t)
	token := login(t, a, sportsAdmin)

	a.policy = NewAllowlist(nil)

	if _, ok := a.ValidateSession(token); ok {
		t.Error("expected session to be rejected once the admin is delisted")
	}
}

func TestGetSessionFromRequest(t *testing.T) {
	a := newTestAuth(t)
	token := login(t, a, sportsAdmin)

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   bool
	}{
		{"valid cookie", &http.Cookie{Name: CookieName, Value: token}, true},
		{"no cookie", nil, false},
		{"invalid cookie", &http.Cookie{Name: CookieName, Value: "invalid-token"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if _, ok := a.GetSessionFromRequest(req); ok != tt.want {
				t.Errorf("GetSessionFromRequest() = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestRequireAuth_AllowsValidSession(t *testing.T) {
	a := newTestAuth(t)
	token := login(t, a, sportsAdmin)

	var gotSubject string
	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rr.Code)
	}
	if gotSubject != sportsAdmin {
		t.Errorf("expected subject %q in context, got %q", sportsAdmin, gotSubject)
	}
}

func TestRequireAuth_RedirectsWithoutSession(t *testing.T) {
	a := newTestAuth(t)

	handler := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/admin", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Errorf("expected 302 redirect, got %d", rr.Code)
	}
	if rr.Header().Get("Location") != "/admin/login" {
		t.Errorf("expected redirect to /admin/login, got %s", rr.Header().Get("Location"))
	}
}

func TestRequireAuthAPI_Returns401WithoutSession(t *testing.T) {
	a := newTestAuth(t)

	handler := a.RequireAuthAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/admin/settings", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
	if rr.Header().Get("Content-Type") != "application/json" {
		t.Error("expected JSON content type")
	}
	if !strings.Contains(rr.Body.String(), "UNAUTHORIZED") {
		t.Errorf("expected UNAUTHORIZED code in body, got: %s", rr.Body.String())
	}
}

func TestRequireDomain(t *testing.T) {
	a := newTestAuth(t)

	tests := []struct {
		name     string
		email    string
		domain   models.Domain
		wantCode int
	}{
		{"sports admin on sports", sportsAdmin, models.DomainSports, http.StatusOK},
		{"sports admin on cultural", sportsAdmin, models.DomainCultural, http.StatusForbidden},
		{"cultural admin on cultural", culturalAdmin, models.DomainCultural, http.StatusOK},
		{"cultural admin on departments", culturalAdmin, models.DomainDepartments, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := login(t, a, tt.email)
			ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := a.RequireAuthAPI(a.RequireDomain(tt.domain)(ok))

			req := httptest.NewRequest("POST", "/api/admin/x", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rr.Code)
			}
			if tt.wantCode == http.StatusForbidden && !strings.Contains(rr.Body.String(), "FORBIDDEN") {
				t.Errorf("expected FORBIDDEN code in body, got: %s", rr.Body.String())
			}
		})
	}
}

func TestRequireDomain_WithoutSubject(t *testing.T) {
	a := newTestAuth(t)
	handler := a.RequireDomain(models.DomainSports)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rr.Code)
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.9:51234"
	if got := ClientKey(req); got != "192.168.1.9" {
		t.Errorf("ClientKey() = %q", got)
	}
	req.RemoteAddr = "pipe"
	if got := ClientKey(req); got != "pipe" {
		t.Errorf("ClientKey() = %q", got)
	}
}

func TestSetSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()

	SetSessionCookie(rr, "test-token", true)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	cookie := cookies[0]
	if cookie.Name != CookieName {
		t.Errorf("expected cookie name %s, got %s", CookieName, cookie.Name)
	}
	if cookie.Value != "test-token" {
		t.Errorf("expected cookie value 'test-token', got %s", cookie.Value)
	}
	if !cookie.HttpOnly || !cookie.Secure {
		t.Error("expected HttpOnly and Secure")
	}
	if cookie.Path != "/" {
		t.Errorf("expected path '/', got %s", cookie.Path)
	}
}

func TestClearSessionCookie(t *testing.T) {
	rr := httptest.NewRecorder()

	ClearSessionCookie(rr)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("expected MaxAge -1 (delete), got %d", cookies[0].MaxAge)
	}
}

func TestConcurrentSessionAccess(t *testing.T) {
	a := newTestAuth(t)

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			token, _ := a.Login(sportsAdmin, "password", fmt.Sprintf("client-%d", i))
			a.ValidateSession(token)
			a.Logout(token)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
