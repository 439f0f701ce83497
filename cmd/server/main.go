package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/math-hero/backend/internal/auth"
	"github.com/math-hero/backend/internal/config"
	"github.com/math-hero/backend/internal/database"
	"github.com/math-hero/backend/internal/game"
	"github.com/math-hero/backend/internal/middleware"
	"github.com/math-hero/backend/internal/scores"
	"github.com/rs/cors"
)

func main() {
	cfg := config.Load()
	secret := []byte(cfg.JWTSecret)
	sessionTTL := time.Duration(cfg.SessionTTLHrs) * time.Hour

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(db, secret, sessionTTL, cfg.SecureCookies)

	gameManager := game.NewManager()
	gameHandler := game.NewHandler(gameManager)

	scoreStore := scores.NewStore(db)
	scoreService := scores.NewService(scoreStore)
	scoreHandler := scores.NewHandler(scoreService)

	// Drop abandoned rounds in the background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gameManager.StartSweeper(ctx)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/users", authHandler.CreateUser).Methods("POST")
	api.HandleFunc("/auth/session", authHandler.GetSession).Methods("GET")
	api.HandleFunc("/auth/session", authHandler.DeleteSession).Methods("DELETE")
	api.HandleFunc("/leaderboard", scoreHandler.Leaderboard).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(secret))
	protected.HandleFunc("/users/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/games", gameHandler.StartGame).Methods("POST")
	protected.HandleFunc("/games/{id}/answer", gameHandler.Answer).Methods("POST")
	protected.HandleFunc("/scores", scoreHandler.SaveScore).Methods("POST")
	protected.HandleFunc("/scores", scoreHandler.ListScores).Methods("GET")
	protected.HandleFunc("/achievements", scoreHandler.Achievements).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
