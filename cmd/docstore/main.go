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
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/gw-plant-doctor/internal/config"
	"github.com/sbilibin2017/gw-plant-doctor/internal/docs"
	"github.com/sbilibin2017/gw-plant-doctor/internal/facades"
	"github.com/sbilibin2017/gw-plant-doctor/internal/handlers"
	"github.com/sbilibin2017/gw-plant-doctor/internal/jwt"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/middlewares"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/sbilibin2017/gw-plant-doctor/internal/repositories"
	"github.com/sbilibin2017/gw-plant-doctor/internal/services"
	"github.com/sbilibin2017/gw-plant-doctor/internal/storage"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-plant-doctor docstore API
// @version 1.0.0
// @description Plant disease analysis gateway backed by MongoDB
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

	docs.Register(docs.Docstore)

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

// newUploadStore picks the storage backend named in the config.
func newUploadStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.StorageBackend == config.StorageMinio {
		return storage.NewMinioStore(ctx,
			cfg.MinioEndpoint, cfg.MinioRegion, cfg.MinioBucket,
			cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioUseSSL,
		)
	}
	return storage.NewLocalStore(cfg.UploadDir)
}

// run connects to MongoDB and the optional Redis, Kafka and MinIO backends,
// then serves the analysis API until a shutdown signal arrives.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to MongoDB
	logger.Log.Infof("Connecting to MongoDB: %s", cfg.MongoURL)
	session, err := repositories.DialMongo(cfg.MongoURL, cfg.MongoTimeout)
	if err != nil {
		return fmt.Errorf("MongoDB connection error: %w", err)
	}
	defer session.Close()

	userRepo := repositories.NewUserMongoRepository(session, cfg.MongoDB)
	if err := userRepo.EnsureIndexes(); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	historyRepo := repositories.NewHistoryMongoRepository(session, cfg.MongoDB)
	if err := historyRepo.EnsureIndexes(); err != nil {
		return fmt.Errorf("ensure history indexes: %w", err)
	}

	// Connect to Redis
	var historyCache services.HistoryCache
	if cfg.RedisHost != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()
		historyCache = repositories.NewHistoryCacheRepository(rdb, cfg.RedisExp)
	} else {
		logger.Log.Info("REDIS_HOST not set, history cache disabled")
	}

	// Kafka writer
	var kafkaWriter services.KafkaWriter
	if len(cfg.KafkaBrokers) > 0 {
		kw := &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers...),
			Topic:                  cfg.KafkaTopic,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		}
		defer kw.Close()
		kafkaWriter = kw
	} else {
		logger.Log.Info("KAFKA_BROKERS not set, analysis events disabled")
	}

	// Upload storage
	files, err := newUploadStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("upload storage: %w", err)
	}
	if err := storage.SeedSamples(ctx, files); err != nil {
		return fmt.Errorf("seed sample images: %w", err)
	}

	// Initialize JWT service
	tokens := jwt.New(jwt.WithSecretKey(cfg.JWTSecretKey), jwt.WithExpiration(cfg.JWTExp))
	if tokens.Ephemeral() {
		logger.Log.Warn("JWT_SECRET_KEY not set, signing tokens with a random per-process key")
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, userRepo, tokens)
	historyService := services.NewHistoryService(historyRepo, historyRepo, historyCache, services.SystemClock{})
	analysisService := services.NewAnalysisService(
		files,
		func(original string) string { return storage.UploadName(time.Now(), original) },
		facades.NewStubClassifier(),
		historyService,
		kafkaWriter,
	)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	// Initialize handlers
	registerHandler := handlers.NewRegisterHandler(authService)
	loginHandler := handlers.NewLoginHandler(authService)
	usersHandler := handlers.NewListUsersHandler(authService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	analyzeHandler := handlers.NewAnalyzeHandler(analysisService, cfg.MaxUploadBytes)
	uploadHandler := handlers.NewUploadHandler(files)
	healthHandler := handlers.NewHealthHandler(func(ctx context.Context) error {
		s := session.Copy()
		defer s.Close()
		return s.Ping()
	})

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

	// Public routes
	r.Post("/register", registerHandler)
	r.Post("/login", loginHandler)
	r.Get("/history", historyHandler)
	r.Post("/analyze", analyzeHandler)
	r.Get(storage.PublicPrefix+"{name}", uploadHandler)
	r.Get("/health", healthHandler)

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(tokens))
		r.Use(middlewares.RequireRole(models.RoleAdmin))
		r.Get("/users", usersHandler)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s/swagger/doc.json", cfg.Addr())),
	))

	return serve(ctx, cfg.Addr(), r)
}

// serve runs the HTTP server and shuts it down gracefully on SIGINT, SIGTERM or SIGQUIT.
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", addr)
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
