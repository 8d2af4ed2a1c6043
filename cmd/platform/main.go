package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/civicdesk/platform/internal/account"
	"github.com/civicdesk/platform/internal/classify"
	"github.com/civicdesk/platform/internal/complaint"
	"github.com/civicdesk/platform/internal/shared/auth"
	"github.com/civicdesk/platform/internal/shared/config"
	"github.com/civicdesk/platform/internal/shared/database"
	"github.com/civicdesk/platform/internal/shared/events"
	"github.com/civicdesk/platform/internal/shared/metrics"
	secmiddleware "github.com/civicdesk/platform/internal/shared/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	DB     *database.DB
	Bus    *events.Bus
}

func main() {
	ctx := context.Background()

	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	app.DB = db
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	// Event streaming is optional; the platform runs without it
	if cfg.KurrentDB.Enabled {
		bus, err := events.NewBus(ctx, cfg.KurrentDB)
		if err != nil {
			fmt.Printf("Warning: KurrentDB not available: %v\n", err)
			fmt.Println("Running without event streaming...")
		} else {
			app.Bus = bus
			defer bus.Close()
			fmt.Println("KurrentDB event bus initialized")
		}
	}

	// Classification uses the remote model when configured and falls back
	// to the keyword rules otherwise
	var model classify.TextModel
	if gemini := classify.NewGeminiClient(cfg.AI); gemini != nil {
		model = gemini
		fmt.Printf("AI classification enabled (model: %s)\n", cfg.AI.Model)
	} else {
		fmt.Println("AI classification disabled, using keyword rules")
	}
	engine := classify.NewEngine(model, cfg.AI.Timeout)
	replies := classify.NewReplyGenerator(model, cfg.AI.Timeout)

	accountRepo := account.NewRepository(db.Pool)
	accountService := account.NewService(accountRepo)
	accountHandler := account.NewHandler(accountService)

	var publisher complaint.Publisher
	if app.Bus != nil {
		publisher = app.Bus
	}
	complaintStore := complaint.NewPostgresStore(db.Pool)
	complaintService := complaint.NewService(complaintStore, accountRepo, engine, replies, publisher)
	complaintHandler := complaint.NewHandler(complaintService)

	limiter := secmiddleware.NewIPRateLimiter(10, 20)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware)
	r.Use(limiter.Middleware)

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	r.Get("/", infoHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth))

		r.Mount("/complaints", complaintHandler.CitizenRoutes())
		r.Mount("/admin", complaintHandler.AdminRoutes())
		r.With(auth.RequireRoles(auth.RoleAdmin, auth.RoleSuperAdmin)).
			Mount("/users", accountHandler.Routes())
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("CivicDesk Complaint Platform")
	fmt.Println("============================================")
	fmt.Printf("Environment: %s\n", cfg.Server.Env)
	fmt.Printf("Server:      http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:         http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:      http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "CivicDesk Complaint Platform",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if err := app.DB.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
		} else {
			checks["database"] = "ready"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(r.Context()); err != nil {
				checks["kurrentdb"] = "not ready: " + err.Error()
			} else {
				checks["kurrentdb"] = "ready"
			}
		} else {
			checks["kurrentdb"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
