package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bibbank/upi-risk/internal/auth"
)

const (
	// maxClients triggers an idle sweep once the bucket table grows past it.
	maxClients = 10_000
	// idleAfter is how long a bucket may go unused before it can be swept.
	idleAfter = time.Minute
)

type bucket struct {
	last   time.Time
	tokens float64
}

// RateLimiter meters prediction requests with one token bucket per client.
// Each client may burst up to rps requests and refills at rps per second.
type RateLimiter struct {
	mu      sync.Mutex
	now     func() time.Time
	buckets map[string]*bucket
	rate    float64
}

// NewRateLimiter creates a per-client limiter allowing rps predictions per second.
func NewRateLimiter(rps int) *RateLimiter {
	return newRateLimiter(rps, time.Now)
}

func newRateLimiter(rps int, now func() time.Time) *RateLimiter {
	return &RateLimiter{
		now:     now,
		buckets: make(map[string]*bucket),
		rate:    float64(rps),
	}
}

// Allow reports whether client may submit another prediction, consuming a
// token if so.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[client]
	if !ok {
		if len(rl.buckets) >= maxClients {
			rl.sweep(now)
		}
		b = &bucket{tokens: rl.rate, last: now}
		rl.buckets[client] = b
	}

	b.tokens = min(b.tokens+now.Sub(b.last).Seconds()*rl.rate, rl.rate)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// sweep drops buckets idle long enough to have refilled completely.
func (rl *RateLimiter) sweep(now time.Time) {
	for client, b := range rl.buckets {
		if now.Sub(b.last) >= idleAfter {
			delete(rl.buckets, client)
		}
	}
}

func (rl *RateLimiter) clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

type rateLimitedResponse struct {
	Error    string `json:"error"`
	Client   string `json:"client"`
	Strategy string `json:"strategy"`
}

// RateLimitMiddleware rejects predictions beyond the client's budget with 429.
// Clients are keyed by JWT client id when AuthMiddleware ran first, else by
// remote IP. A nil limiter disables limiting.
func RateLimitMiddleware(limiter *RateLimiter, strategy string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r)
			if limiter.Allow(client) {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnContext(r.Context(), "prediction rate limited",
				slog.String("client", client),
				slog.String("strategy", strategy),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(rateLimitedResponse{
				Error:    "rate limit exceeded",
				Client:   client,
				Strategy: strategy,
			})
		})
	}
}

func clientKey(r *http.Request) string {
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok && claims.ClientID != "" {
		return "client:" + claims.ClientID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
