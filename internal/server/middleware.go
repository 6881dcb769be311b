package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/momentumx/momentumx/internal/auth"
	"github.com/momentumx/momentumx/internal/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate returns middleware that requires a valid bearer token.
// Missing tokens get 401, invalid or expired tokens get 403.
func Authenticate(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Access token required"})
				return
			}
			claims, err := issuer.Verify(token)
			if err != nil {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "Invalid or expired token"})
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// UserIDFromContext returns the authenticated user ID, or 0 when the request
// did not pass through Authenticate.
func UserIDFromContext(ctx context.Context) int {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.UserID
	}
	return 0
}

// mustUserID writes a 401 and returns false when no user is authenticated.
func mustUserID(w http.ResponseWriter, r *http.Request) (int, bool) {
	uid := UserIDFromContext(r.Context())
	if uid == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Access token required"})
		return 0, false
	}
	return uid, true
}

// UsageLogger persists API usage rows.
type UsageLogger interface {
	InsertUsageLog(ctx context.Context, l models.UsageLogRow) error
}

// UsageLogging records each request to the usage log without delaying the response.
func UsageLogging(store UsageLogger, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			row := models.UsageLogRow{
				Endpoint:       r.URL.Path,
				Method:         r.Method,
				StatusCode:     sw.status,
				ResponseTimeMs: int(time.Since(start).Milliseconds()),
				IPAddress:      clientIP(r),
				UserAgent:      r.UserAgent(),
			}
			if uid := UserIDFromContext(r.Context()); uid != 0 {
				row.UserID = &uid
			}
			go func() {
				ctx, cancel := contextWithTimeout()
				defer cancel()
				if err := store.InsertUsageLog(ctx, row); err != nil {
					log.Error("failed to log usage", "endpoint", row.Endpoint, "error", err)
				}
			}()
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RequestLogging returns middleware that logs each request.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start).String(),
			)
		})
	}
}

// CORS allows credentialed requests from a single origin.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush lets streaming handlers behind the wrapper push partial responses.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for async logging.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}

