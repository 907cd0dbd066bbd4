package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewclock-backend/internal/config"
	"crewclock-backend/internal/database"
	"crewclock-backend/internal/handlers"
	"crewclock-backend/internal/middleware"
	"crewclock-backend/internal/repository"
	"crewclock-backend/internal/router"
	"crewclock-backend/internal/services"
	"crewclock-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting CrewClock Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("✗ Timezone setup failed: %v", err)
	}

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	workerRepo := repository.NewWorkerRepo(pool)
	sessionRepo := repository.NewSessionRepo(pool)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	authService := services.NewAuthService(workerRepo, redisClients.Tokens, jwtAuth)

	var locationProvider services.LocationProvider
	if cfg.LocationLookupURL != "" {
		locationProvider = services.NewHTTPLocationProvider(cfg.LocationLookupURL)
	}
	locationService := services.NewLocationService(locationProvider, cfg.LocationTimeout)

	timesheetService := services.NewTimesheetService(sessionRepo, loc)
	statusService := services.NewStatusService(workerRepo, sessionRepo)
	publisher := services.NewClockPublisher(redisClients.Tokens)
	clockService := services.NewClockService(sessionRepo, locationService, timesheetService, statusService, publisher, loc)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService)
	clockHandler := handlers.NewClockHandler(clockService, timesheetService, workerRepo)
	statusHandler := handlers.NewStatusHandler(statusService)

	// ──── Step 5: Start Retention Sweeper ────
	sweeper := services.NewRetentionSweeper(sessionRepo, loc, cfg.RetentionSweepDay, cfg.RetentionSweepHour)
	sweeper.Start()

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		clockHandler,
		statusHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		sweeper.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ CrewClock Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
