package router

import (
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/UBelaid/SAgency4U/internal/auth"
	authrepo "github.com/UBelaid/SAgency4U/internal/auth/repo"
	"github.com/UBelaid/SAgency4U/internal/resource"
	resourceentity "github.com/UBelaid/SAgency4U/internal/resource/entity"
	resourcerepo "github.com/UBelaid/SAgency4U/internal/resource/repo"
	"github.com/UBelaid/SAgency4U/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// RequestIDMiddleware tags every request with a KSUID, echoed in the
// X-Request-Id response header so log lines can be correlated with a
// client-observed response.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = utilities.NewRequestID()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
				"request_id", r.Header.Get("X-Request-Id"),
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer policy
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")

			if r.TLS != nil {
				// 30 days
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// Auth routes are open; every resource route sits behind the bearer-token
// middleware, and one generic handler serves all registered resource kinds.
func RegisterRoutes(logger *zap.SugaredLogger, db *sqlx.DB, codec *auth.TokenCodec) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth routes
	authSvc := auth.NewService(authrepo.NewUserRepo(db), nil, codec)
	authHandler := auth.NewHandler(authSvc, logger)
	mux.HandleFunc("POST /auth/register", authHandler.Register)
	mux.HandleFunc("POST /auth/login", authHandler.Login)

	// resource routes, one scoped policy for every kind
	resourceSvc := resource.NewService(resourcerepo.NewRepo(db))
	resourceHandler := resource.NewHandler(resourceSvc, logger)
	guard := auth.RequireAuth(codec)
	for _, kind := range resourceentity.Kinds {
		mux.Handle("GET /"+kind.Name, guard(resourceHandler.List(kind)))
		mux.Handle("POST /"+kind.Name, guard(resourceHandler.Create(kind)))
		mux.Handle("PUT /"+kind.Name+"/{id}", guard(resourceHandler.Update(kind)))
		mux.Handle("DELETE /"+kind.Name+"/{id}", guard(resourceHandler.Delete(kind)))
	}

	// dropdown lookups for the purchase and sale forms
	products, _ := resourceentity.KindByName("products")
	suppliers, _ := resourceentity.KindByName("suppliers")
	for _, form := range []string{"purchases", "sales"} {
		mux.Handle("GET /"+form+"/products", guard(resourceHandler.Refs(products)))
		mux.Handle("GET /"+form+"/suppliers", guard(resourceHandler.Refs(suppliers)))
	}

	// wrap with security headers middleware then logging middleware
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(RequestIDMiddleware()(mux)))
	return handler
}
