package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedClients caps the per-IP limiter table.
const maxTrackedClients = 10000

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter throttles requests per remote IP.
type clientLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientEntry
	rps      rate.Limit
	burst    int
	capacity int
	now      func() time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		clients:  make(map[string]*clientEntry),
		rps:      rate.Limit(rps),
		burst:    burst,
		capacity: maxTrackedClients,
		now:      time.Now,
	}
}

func (l *clientLimiter) allow(client string) bool {
	if l.rps <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.clients[client]
	if !ok {
		if len(l.clients) >= l.capacity {
			l.makeRoomLocked(now)
		}
		e = &clientEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[client] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// makeRoomLocked drops clients whose bucket has refilled, since a fresh
// limiter would treat them identically. If every tracked client is still
// throttled, only the least recently seen one is evicted.
func (l *clientLimiter) makeRoomLocked(now time.Time) {
	var oldest string
	for ip, e := range l.clients {
		if e.limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.clients, ip)
			continue
		}
		if oldest == "" || e.lastSeen.Before(l.clients[oldest].lastSeen) {
			oldest = ip
		}
	}
	if len(l.clients) >= l.capacity && oldest != "" {
		delete(l.clients, oldest)
	}
}

func (l *clientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr, which RealIP has already
// rewritten from proxy headers when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
