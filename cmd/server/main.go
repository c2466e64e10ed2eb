package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"Cignito/internal/api/middleware"
	"Cignito/internal/api/routes"
	"Cignito/internal/cache"
	"Cignito/internal/config"
	"Cignito/internal/core/bugs"
	"Cignito/internal/core/comments"
	"Cignito/internal/core/follows"
	"Cignito/internal/core/reputation"
	"Cignito/internal/core/solutions"
	"Cignito/internal/core/stats"
	"Cignito/internal/core/users"
	"Cignito/internal/db/migrations"
	postgresRepo "Cignito/internal/db/postgres"
	"Cignito/internal/live"
	"Cignito/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("Connected to database")

	if cfg.AutoMigrate {
		if err := migrations.Up(db); err != nil {
			log.Fatal("Failed to run migrations:", err)
		}
		log.Println("Migrations completed successfully")
	}

	readCache, err := cache.New(cache.Options{
		Backend:    cfg.CacheBackend,
		RedisAddr:  cfg.RedisAddr,
		DefaultTTL: cfg.CacheTTL,
		MaxEntries: cfg.CacheMaxEntries,
	})
	if err != nil {
		log.Fatal("Failed to initialize cache:", err)
	}

	// Every mutation can move the leaderboard
	hub := live.NewHub(readCache, logger)
	hub.InvalidateOn("*", stats.LeaderboardCacheKey, stats.PlatformCacheKey)
	hub.AllowOrigins(cfg.CORSOrigins...)

	authenticator, err := middleware.NewAuthenticator(cfg.JWTPrivateJWK, cfg.SessionSecret)
	if err != nil {
		log.Fatal("Failed to initialize authenticator:", err)
	}
	if cfg.JWTPrivateJWK == "" && cfg.SessionSecret == "" {
		logger.Warn("no JWT_PRIVATE_JWK or SESSION_SECRET configured, all mutations will be rejected")
	}

	// Initialize repositories and services
	userRepo := postgresRepo.NewUserRepository(db)
	bugRepo := postgresRepo.NewBugRepository(db)
	solutionRepo := postgresRepo.NewSolutionRepository(db)
	commentRepo := postgresRepo.NewCommentRepository(db)
	followRepo := postgresRepo.NewFollowRepository(db)
	ledgerStore := postgresRepo.NewLedgerStore(db)
	statsRepo := postgresRepo.NewStatsRepository(db)

	userService := users.NewUserService(userRepo)
	bugService := bugs.NewService(bugRepo, hub, logger)
	solutionService := solutions.NewService(solutionRepo, bugRepo, hub, logger)
	commentService := comments.NewCommentService(commentRepo, bugRepo, solutionRepo, hub, logger)
	followService := follows.NewService(followRepo, userRepo, hub, logger)
	reputationService := reputation.NewService(ledgerStore, hub, logger, reputation.Options{
		AcceptBonusOnce: cfg.AcceptBonusOnce,
	})
	statsService := stats.NewService(statsRepo, readCache, cfg.CacheTTL, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(metrics.Middleware)

	guards := routes.Guards{
		Auth:    authenticator,
		Limiter: middleware.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow),
	}

	routes.RegisterUserRoutes(r, userService, followService, guards)
	routes.RegisterBugRoutes(r, bugService, guards)
	routes.RegisterSolutionRoutes(r, solutionService, guards)
	routes.RegisterVoteRoutes(r, reputationService, guards)
	routes.RegisterCommentRoutes(r, commentService, guards)
	routes.RegisterStatsRoutes(r, statsService)

	r.Get("/ws", hub.ServeWS)
	r.Handle("/metrics", metrics.Handler())

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Cignito starting", "port", cfg.Port, "cache", cfg.CacheBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
