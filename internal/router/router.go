package router

import (
	"log"
	"net/http"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/config"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/enum"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/handler"
	mw "github.com/JovanPapi/krusevska-odaja-internal-work/internal/middleware"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/workspace"
	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and page-based middleware as needed.
func New(cfg *config.Config, registry *workspace.Registry, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(registry, cfg.JWTSecret, cfg.SessionTTL)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, cfg.AllowedOrigins, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		authHandler.RegisterSessionRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(mw.RequirePage(enum.PageAdministration))
			handler.NewAdminHandler(registry).RegisterRoutes(r)
		})

		r.Route("/waiter", func(r chi.Router) {
			r.Use(mw.RequirePage(enum.PageWaiter))
			handler.NewWaiterHandler(registry).RegisterRoutes(r)
		})

		r.Route("/kitchen", func(r chi.Router) {
			r.Use(mw.RequirePage(enum.PageKitchen))
			handler.NewKitchenHandler(registry).RegisterRoutes(r)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
