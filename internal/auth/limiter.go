package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter throttles login attempts per client key
type Limiter struct {
	mu      sync.Mutex
	every   time.Duration
	burst   int
	clients map[string]*client
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientIdle is how long an unused client entry is kept
const clientIdle = 30 * time.Minute

// NewLimiter allows burst attempts per key, refilling one every interval
func NewLimiter(every time.Duration, burst int) *Limiter {
	return &Limiter{
		every:   every,
		burst:   burst,
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

// Allow reports whether key may attempt a login now
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Every(l.every), l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.sweep(now)
	return c.limiter.AllowN(now, 1)
}

// sweep drops entries idle longer than clientIdle. Callers hold mu.
func (l *Limiter) sweep(now time.Time) {
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > clientIdle {
			delete(l.clients, key)
		}
	}
}

// Len is the number of tracked clients
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
