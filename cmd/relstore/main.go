package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/gw-plant-doctor/internal/config"
	"github.com/sbilibin2017/gw-plant-doctor/internal/docs"
	"github.com/sbilibin2017/gw-plant-doctor/internal/handlers"
	"github.com/sbilibin2017/gw-plant-doctor/internal/jwt"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/middlewares"
	"github.com/sbilibin2017/gw-plant-doctor/internal/migrations"
	"github.com/sbilibin2017/gw-plant-doctor/internal/repositories"
	"github.com/sbilibin2017/gw-plant-doctor/internal/services"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-plant-doctor relstore API
// @version 1.0.0
// @description Account gateway backed by MySQL or PostgreSQL
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	docs.Register(docs.Relstore)

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// run connects to the SQL database, applies migrations and serves the account API.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to the database
	logger.Log.Infof("Connecting to %s at %s:%d/%s", cfg.DBDriver, cfg.DBHost, cfg.DBPort, cfg.DBName)
	db, err := sqlx.ConnectContext(ctx, cfg.DBDriver, cfg.SQLDSN())
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := migrations.Run(ctx, db.DB, cfg.DBDriver); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// Initialize JWT service
	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExp))
	if tokens.Ephemeral() {
		logger.Log.Warn("JWT_SECRET_KEY not set, signing tokens with a random per-process key")
	}

	// Initialize repositories and services
	userRepo := repositories.NewUserSQLRepository(db, middlewares.GetTxFromContext)
	authService := services.NewAuthService(userRepo, userRepo, tokens)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	// Initialize handlers
	signupHandler := handlers.NewSignupHandler(authService)
	signInHandler := handlers.NewSignInHandler(authService)
	forgotHandler := handlers.NewForgotHandler(authService, tokens)
	healthHandler := handlers.NewHealthHandler(db.PingContext)

	// Setup router
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middlewares.RequestIDHeader},
		ExposedHeaders: []string{middlewares.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))

	r.Post("/login", signInHandler)
	r.Get("/health", healthHandler)

	// Writes run inside a request transaction
	r.Group(func(r chi.Router) {
		r.Use(middlewares.TxMiddleware(db))
		r.Post("/signup", signupHandler)
		r.Post("/forgot", forgotHandler)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/swagger/doc.json", cfg.Addr())),
	))

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
