package auth

import (
	"context"
	"crypto/rand"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/collegefest/champboard/internal/errors"
	"github.com/collegefest/champboard/internal/models"
)

const (
	CookieName    = "champboard_session"
	SessionExpiry = 12 * time.Hour
	issuer        = "champboard"
)

// Login throttling: five attempts, then one more every twelve seconds.
const (
	loginBurst = 5
	loginEvery = 12 * time.Second
)

var (
	// ErrInvalidCredentials hides whether the e-mail or the password was wrong
	ErrInvalidCredentials = errors.Unauthorized("invalid e-mail or password")
	// ErrRateLimited is returned when a client tries too often
	ErrRateLimited = stderrors.New("too many login attempts, try again shortly")
)

// Festival words for password generation
var festWords = []string{
	"utsav", "trophy", "podium", "relay", "sprint",
	"encore", "rhythm", "anthem", "banner", "medal",
	"stage", "spotlight", "victory", "rally", "champion",
	"dhol", "rangoli", "finale", "tempo",
}

// Options configures Auth
type Options struct {
	// Secret signs session tokens. A random one is used when empty, which
	// logs everyone out on restart.
	Secret []byte
	// PasswordHash is a bcrypt hash of the shared admin password. When empty,
	// Password is hashed instead.
	PasswordHash string
	Password     string
	Policy       Policy
	// BcryptCost is used when hashing Password; zero means bcrypt.DefaultCost.
	BcryptCost int
}

// Auth handles admin authentication. A session is a signed token naming the
// admin's e-mail; what that e-mail may touch is the Policy's call.
type Auth struct {
	secret       []byte
	passwordHash []byte
	policy       Policy
	limiter      *Limiter
	now          func() time.Time

	mu      sync.RWMutex
	revoked map[string]time.Time // token id -> expiry
}

// New creates an Auth from opts
func New(opts Options) (*Auth, error) {
	if opts.Policy == nil {
		return nil, stderrors.New("auth: a policy is required")
	}

	hash := []byte(opts.PasswordHash)
	if len(hash) == 0 {
		if opts.Password == "" {
			return nil, stderrors.New("auth: a password or password hash is required")
		}
		cost := opts.BcryptCost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(opts.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("auth: invalid password hash: %w", err)
	}

	secret := opts.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
	}

	return &Auth{
		secret:       secret,
		passwordHash: hash,
		policy:       opts.Policy,
		limiter:      NewLimiter(loginEvery, loginBurst),
		now:          time.Now,
		revoked:      make(map[string]time.Time),
	}, nil
}

// GeneratePassword creates a random 3-word password
func GeneratePassword() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = festWords[randomInt(len(festWords))]
	}
	return strings.Join(words, "-")
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// Login checks the e-mail against the policy and the password against the
// stored hash, and returns a signed session token. clientKey identifies the
// caller for throttling.
func (a *Auth) Login(email, password, clientKey string) (string, error) {
	if !a.limiter.Allow(clientKey) {
		return "", ErrRateLimited
	}
	email = normalizeEmail(email)
	if email == "" || !a.isAdmin(email) {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return a.issue(email)
}

func (a *Auth) isAdmin(email string) bool {
	return len(a.Domains(email)) > 0
}

// Domains lists the admin areas subject may manage
func (a *Auth) Domains(subject string) []models.Domain {
	var out []models.Domain
	for _, d := range models.Domains {
		if a.policy.IsAuthorized(subject, d) {
			out = append(out, d)
		}
	}
	return out
}

func (a *Auth) issue(subject string) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionExpiry)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Auth) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !claims.VerifyIssuer(issuer, true) {
		return nil, stderrors.New("unexpected issuer")
	}
	return claims, nil
}

// Logout revokes a session token until it would have expired anyway
func (a *Auth) Logout(token string) {
	claims, err := a.parse(token)
	if err != nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	now := a.now()
	for id, exp := range a.revoked {
		if now.After(exp) {
			delete(a.revoked, id)
		}
	}
	a.revoked[claims.ID] = claims.ExpiresAt.Time
}

// ValidateSession returns the subject of a valid, unrevoked token
func (a *Auth) ValidateSession(token string) (string, bool) {
	claims, err := a.parse(token)
	if err != nil {
		return "", false
	}
	a.mu.RLock()
	_, revoked := a.revoked[claims.ID]
	a.mu.RUnlock()
	if revoked || !a.isAdmin(claims.Subject) {
		return "", false
	}
	return claims.Subject, true
}

// GetSessionFromRequest extracts and validates the session from a request
func (a *Auth) GetSessionFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return a.ValidateSession(cookie.Value)
}

// Authorized reports whether subject may administer domain
func (a *Auth) Authorized(subject string, domain models.Domain) bool {
	return a.policy.IsAuthorized(subject, domain)
}

type contextKey struct{}

// WithSubject stores the authenticated e-mail in ctx
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKey{}, subject)
}

// SubjectFromContext returns the authenticated e-mail, if any
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(contextKey{}).(string)
	return s, ok && s != ""
}

// RequireAuth middleware for admin pages (redirects to login)
func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject, ok := a.GetSessionFromRequest(r); ok {
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
			return
		}
		http.Redirect(w, r, "/admin/login", http.StatusFound)
	})
}

// RequireAuthAPI middleware for API endpoints (returns 401)
func (a *Auth) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if subject, ok := a.GetSessionFromRequest(r); ok {
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
			return
		}
		writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized - please log in")
	})
}

// RequireDomain middleware rejects admins not authorized for domain (403).
// It must run after RequireAuthAPI.
func (a *Auth) RequireDomain(domain models.Domain) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, ok := SubjectFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized - please log in")
				return
			}
			if !a.policy.IsAuthorized(subject, domain) {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", fmt.Sprintf("not authorized to manage %s", domain))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientKey identifies the caller for login throttling
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "error": msg})
}

// randomInt returns a uniformly random int in [0, max)
func randomInt(max int) int {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}
