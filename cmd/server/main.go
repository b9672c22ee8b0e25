package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"checkpoint/internal/config"
	"checkpoint/internal/db"
	"checkpoint/internal/handlers"
	mw "checkpoint/internal/middleware"
	"checkpoint/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		slog.Error("failed to build request logger", slog.Any("err", err))
		os.Exit(1)
	}
	defer zl.Sync()

	dbConn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	if err := db.RunMigrations(context.Background(), dbConn); err != nil {
		slog.Error("failed migrations", slog.Any("err", err))
		os.Exit(1)
	}

	users := store.NewUserStore(dbConn)
	standups := store.NewStandupStore(dbConn)

	authHandler := handlers.NewAuthHandler(users, []byte(cfg.JWTSecret))
	standupHandler := handlers.NewStandupHandler(standups)
	authMW := mw.NewAuthMiddleware([]byte(cfg.JWTSecret), users)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLogger(zl))
	r.Use(mw.Recover(zl))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", handlers.Health)
		api.Post("/auth/register", authHandler.Register)
		api.Post("/auth/login", authHandler.Login)
		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)
			pr.Post("/standups", standupHandler.Submit)
			pr.Get("/standups/today", standupHandler.Today)
			pr.Get("/standups/team", standupHandler.Team)
			pr.Get("/standups/history", standupHandler.History)
			pr.Get("/standups/date/{date}", standupHandler.ByDate)
		})
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		slog.Info("server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("err", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	slog.Info("server stopped")
}
