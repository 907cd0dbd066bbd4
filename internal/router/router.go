package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"crewclock-backend/internal/handlers"
	"crewclock-backend/internal/middleware"
	"crewclock-backend/internal/models"
	"crewclock-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	clockHandler *handlers.ClockHandler,
	statusHandler *handlers.StatusHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Clock Routes (worker acts only on their own sessions) ────
		r.Route("/clock", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/in", clockHandler.ClockIn)
			r.Post("/out", clockHandler.ClockOut)
			r.Get("/resume", clockHandler.Resume)
			r.Get("/today", clockHandler.Today)
			r.Get("/week", clockHandler.Week)
		})

		// ──── Supervisor Routes ────
		r.Route("/status", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRole(models.RoleSupervisor))
			r.Get("/board", statusHandler.Board)
			r.Get("/workers/{id}", statusHandler.Worker)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
