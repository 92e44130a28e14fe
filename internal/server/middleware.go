package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type contextKey string

const subjectKey contextKey = "subject"

// subjectFrom returns the verified caller identity placed in the
// request context by requireAuth, or "" when the request is anonymous.
func subjectFrom(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}

// requireAuth verifies the bearer credential and rejects the request
// with 401 when it is missing or invalid.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			jsonError(w, "No token, authorization denied", http.StatusUnauthorized)
			return
		}

		subject, err := s.verifier.FromHeader(header)
		if err != nil {
			jsonError(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next(w, r.WithContext(ctx))
	}
}

// optionalSubject verifies a credential if one is present. Failures
// yield an empty subject, never an error: routes using this treat
// identity as a convenience, not a boundary.
func (s *Server) optionalSubject(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	subject, err := s.verifier.FromHeader(header)
	if err != nil {
		return ""
	}
	return subject
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info("request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.Stack("stack"),
					zap.String("path", r.URL.Path),
				)
				jsonError(w, "Server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// rateLimiter enforces a per-client request budget per minute, backed
// by redis. Limiter failures let the request through.
func (s *Server) rateLimiter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		count, err := s.cache.IncrementClientRateLimit(r.Context(), ip)
		if err != nil {
			s.logger.Error("failed to check rate limit",
				zap.String("client_ip", ip),
				zap.Error(err),
			)
			next.ServeHTTP(w, r)
			return
		}

		if count > int64(s.rateLimit) {
			s.logger.Warn("rate limit exceeded",
				zap.String("client_ip", ip),
				zap.Int64("count", count),
			)
			jsonError(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
