// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"github.com/ladiesmans217/unalone/internal/config"
	"github.com/ladiesmans217/unalone/internal/domain/geo"
	"github.com/ladiesmans217/unalone/internal/domain/hotspot"
	"github.com/ladiesmans217/unalone/internal/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	eventsTopic string,
	manager hotspot.Manager,
	searchService geo.Service,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	hotspotHandler := handlers.NewHotspotHandler(manager)
	searchHandler := handlers.NewSearchHandler(searchService)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// Hotspots API
			r.Route("/hotspots", func(r chi.Router) {
				r.Post("/", hotspotHandler.CreateHotspot)
				r.Get("/mine", hotspotHandler.ListMine)
				r.Post("/search", searchHandler.Search)
				r.Post("/search/optimized", searchHandler.SearchOptimized)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", hotspotHandler.GetHotspot)
					r.Put("/", hotspotHandler.UpdateHotspot)
					r.Delete("/", hotspotHandler.DeleteHotspot)
					r.Post("/join", hotspotHandler.JoinHotspot)
					r.Post("/leave", hotspotHandler.LeaveHotspot)
				})
			})

			// Cache diagnostics
			r.Get("/cache/stats", searchHandler.CacheStats)
		})
	})

	// WebSocket endpoint for live hotspot updates
	router.Get("/ws/hotspots", handlers.HotspotWebSocketHandler(natsConn, eventsTopic))

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
