package middleware

import (
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/izzystu/geo-change-risk-sub000/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5174",
	"http://localhost:3000",
}

// AllowedOrigins reads CORS_ALLOWED_ORIGINS (comma separated), falling back
// to the local dev servers.
func AllowedOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return defaultOrigins
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Echo the origin back only if it's on our allow-list
			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Api-Key")
			}

			w.Header().Set("Access-Control-Expose-Headers", "Retry-After, X-Request-Id")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// APIKeyMiddleware requires an X-Api-Key header matching the bcrypt hash.
// An empty hash disables the check. Keys that verified once are remembered
// so bcrypt runs at most once per distinct key.
func APIKeyMiddleware(hash string) func(http.Handler) http.Handler {
	var verified sync.Map

	return func(next http.Handler) http.Handler {
		if hash == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("X-Api-Key")
			if key == "" {
				http.Error(w, "Missing API key", http.StatusUnauthorized)
				return
			}
			if _, ok := verified.Load(key); !ok {
				if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
					http.Error(w, "Invalid API key", http.StatusUnauthorized)
					return
				}
				verified.Store(key, struct{}{})
			}

			next.ServeHTTP(w, r.WithContext(utils.WithClient(r.Context(), "api-key")))
		})
	}
}

// maxTrackedClients bounds the limiter table; it is cleared when full.
const maxTrackedClients = 10000

// RateLimitMiddleware gives each client (API key holder or remote IP) its
// own token bucket of rps requests per second with the given burst.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(client string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[client]
		if !ok {
			if len(limiters) >= maxTrackedClients {
				log.Printf("[middleware] rate limiter table full, resetting")
				limiters = make(map[string]*rate.Limiter)
			}
			l = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[client] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(clientID(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientID(r *http.Request) string {
	if c, ok := utils.GetClientFromContext(r.Context()); ok {
		return c
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
