package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/quaestorlabs/quaestor/backend/internal/api/handlers"
	"github.com/quaestorlabs/quaestor/backend/pkg/logger"
)

// RouterDeps bundles everything the router mounts. MetricsHandler and
// ProgressHub may be nil; their routes are simply not registered.
type RouterDeps struct {
	Personas       *handlers.PersonasHandler
	Scoring        *handlers.ScoringHandler
	ProgressHub    *ProgressHub
	MetricsHandler http.Handler
}

// NewRouter creates and configures the HTTP router
func NewRouter(deps RouterDeps, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Prometheus metrics
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler).Methods("GET")
	}

	// Pipeline progress stream
	if deps.ProgressHub != nil {
		r.HandleFunc("/ws/progress", deps.ProgressHub.ServeWS)
	}

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Persona endpoints
	api.HandleFunc("/personas", deps.Personas.List).Methods("GET")
	api.HandleFunc("/personas/{id}", deps.Personas.Get).Methods("GET")

	// Scoring endpoints
	api.HandleFunc("/score/hybrid", deps.Scoring.HybridScore).Methods("POST")
	api.HandleFunc("/score/prefilter", deps.Scoring.PreFilter).Methods("POST")
	api.HandleFunc("/score/breakdown", deps.Scoring.Breakdown).Methods("GET")
	api.HandleFunc("/score/runs", deps.Scoring.RecentRuns).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "quaestor-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
