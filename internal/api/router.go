package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/homedash/homedash/internal/module"
	"github.com/homedash/homedash/internal/store"
	"github.com/homedash/homedash/web"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(registry *module.Registry, db *store.Store, hub *Hub, scheduler *module.Scheduler, basePath string) http.Handler {
	mux := http.NewServeMux()

	ma := &modulesAPI{registry: registry}
	da := &dashboardAPI{store: db, scheduler: scheduler}
	sa := &settingsAPI{store: db, scheduler: scheduler}
	la := &layoutsAPI{store: db}

	// Modules
	mux.HandleFunc("GET /api/v1/modules", ma.list)
	mux.HandleFunc("PUT /api/v1/modules/{id}/enable", ma.enable)
	mux.HandleFunc("PUT /api/v1/modules/{id}/disable", ma.disable)

	// Dashboard
	mux.HandleFunc("GET /api/v1/dashboard", da.latest)
	mux.HandleFunc("POST /api/v1/refresh", da.refresh)
	mux.HandleFunc("GET /api/v1/history", da.history)

	// Settings
	mux.HandleFunc("GET /api/v1/settings", sa.list)
	mux.HandleFunc("PUT /api/v1/settings", sa.update)

	// Dashboard layouts
	mux.HandleFunc("GET /api/v1/layouts", la.list)
	mux.HandleFunc("POST /api/v1/layouts", la.create)
	mux.HandleFunc("GET /api/v1/layouts/{id}", la.get)
	mux.HandleFunc("PUT /api/v1/layouts/{id}", la.update)
	mux.HandleFunc("DELETE /api/v1/layouts/{id}", la.delete)

	// WebSocket
	mux.HandleFunc("GET /api/v1/ws", hub.HandleWS)

	// Static files (embedded) — inject base_path into index.html
	mux.Handle("/", web.StaticHandler(basePath))

	var handler http.Handler = mux

	// If base_path is set, strip the prefix so internal routing works unchanged
	if basePath != "/" && basePath != "" {
		inner := handler
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, basePath) {
				r.URL.Path = strings.TrimPrefix(r.URL.Path, basePath)
				if r.URL.Path == "" {
					r.URL.Path = "/"
				}
				r.URL.RawPath = strings.TrimPrefix(r.URL.RawPath, basePath)
			}
			inner.ServeHTTP(w, r)
		})
	}

	return withMiddleware(handler)
}

func withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Recovery
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[http] panic: %v", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		// CORS for local development
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)

		log.Printf("[http] %s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
