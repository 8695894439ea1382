package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/pulse-backend/internal/modules/auth"
	"github.com/georgemunganga/pulse-backend/internal/modules/cart"
	"github.com/georgemunganga/pulse-backend/internal/modules/catalog"
	"github.com/georgemunganga/pulse-backend/internal/modules/mirror"
	"github.com/georgemunganga/pulse-backend/internal/modules/printing"
)

func main() {
	_ = godotenv.Load()

	config := zap.NewProductionConfig()
	if os.Getenv("DEBUG") != "" {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("ping database", zap.Error(err))
	}
	logger.Info("connected to the remote store")

	// ── Identity & gate ─────────────────────────────────────
	tokens := auth.NewTokenService(os.Getenv("JWT_SECRET"))
	gate := auth.NewGate()
	authService := auth.NewService(os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD_HASH"), tokens)

	// ── Store repositories ──────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	printRepo := printing.NewPostgresRepository(db)

	// ── Mirror over the change streams ──────────────────────
	source := mirror.NewPostgresSource(dsn, catalogRepo, printRepo, logger)
	mir := mirror.New(source, gate, logger)

	// ── Write coordinators & cart ───────────────────────────
	catalogService := catalog.NewService(catalogRepo)
	printService := printing.NewService(printRepo)
	carts := cart.NewManager()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(auth.Middleware(tokens))

	auth.NewHandler(authService).RegisterRoutes(router)
	catalog.NewHandler(catalogService, mir).RegisterRoutes(router)
	printing.NewHandler(printService, mir).RegisterRoutes(router)
	cart.NewHandler(carts, mir).RegisterRoutes(router)

	// The backend holds a standing verified service identity against the
	// store; the mirror's subscriptions follow this gate.
	gate.Set(&auth.Identity{
		ID:            "service",
		Email:         os.Getenv("SERVICE_EMAIL"),
		EmailVerified: true,
	})

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{Addr: ":" + port, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mir.Run(ctx)
	})
	g.Go(func() error {
		logger.Info("pulse API server starting", zap.String("port", port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
