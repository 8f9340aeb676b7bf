package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"benfit/meustreinos/internal/api"
	"benfit/meustreinos/internal/catalog"
	"benfit/meustreinos/internal/config"
	"benfit/meustreinos/internal/logging"
	"benfit/meustreinos/internal/mcptools"
	"benfit/meustreinos/internal/metrics"
	"benfit/meustreinos/internal/remote"
	"benfit/meustreinos/internal/repository/mongo"
	"benfit/meustreinos/internal/service"
	"benfit/meustreinos/internal/storage"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var version = "dev"

// @title Meus Treinos API
// @version 1.0
// @description Monthly workout plans, session tracking, points and trophies.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("could not load config: %v", err)
	}

	hostname, _ := os.Hostname()
	logCloser := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.Log.File,
		LogToStdout:      cfg.Log.Stdout,
		LogLevel:         cfg.Log.Level,
		LogFormatJSON:    cfg.Log.JSON,
		Environment:      cfg.Log.Environment,
		SentryEnabled:    cfg.Log.SentryDSN != "",
		SentryDSN:        cfg.Log.SentryDSN,
		SentryServerName: hostname,
	})
	defer func() {
		sentry.Flush(2 * time.Second)
		_ = logCloser.Close()
	}()
	logrus.Infof("starting meustreinos server %s", version)

	if cfg.JWT.Secret == "" {
		logrus.Fatalln("JWT_SECRET must be set")
	}
	location, err := cfg.App.Location()
	if err != nil {
		logrus.Fatalf("invalid app timezone %q: %v", cfg.App.Timezone, err)
	}
	clock := service.NewClock(location)

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logrus.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		logrus.Infoln("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logrus.WithError(err).Errorln("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
	}()

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			logrus.Fatalf("failed to initialize S3 storage: %v", err)
		}
	} else {
		logrus.Infoln("s3 bucket not configured, exercise image uploads disabled")
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsManager := metrics.NewManager(cfg.Metrics.Namespace, "api", registry)

	// --- Repositories ---
	builtin := catalog.MustBuiltin()
	userRepo := mongo.NewMongoUserRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	progressRepo := mongo.NewMongoProgressRepository(appDB)
	pointsRepo := mongo.NewMongoPointsRepository(appDB)
	marksRepo := mongo.NewMongoMarksRepository(appDB)

	// --- Services ---
	gateway := remote.NewPostgRESTClient(cfg.Remote)
	if !gateway.Enabled() {
		logrus.Infoln("remote sync not configured")
	}
	// sync and progress updates of one user must not interleave
	locks := service.NewUserLocks()
	syncService := service.NewSyncService(gateway, service.SyncStores{
		Users:    userRepo,
		Plans:    planRepo,
		Progress: progressRepo,
		Points:   pointsRepo,
	}, clock, locks, metricsManager, cfg.Cache.SyncBytes, cfg.Remote.Timeout)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Auth.AdminEmails)
	exerciseService := service.NewExerciseService(exerciseRepo, builtin, fileStorage)
	planService := service.NewPlanService(planRepo, exerciseService, builtin, clock, metricsManager, syncService)
	progressService := service.NewProgressService(
		progressRepo, pointsRepo, marksRepo,
		planService, exerciseService,
		clock, locks, metricsManager, syncService,
	)
	profileService := service.NewProfileService(userRepo, builtin, syncService)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := exerciseService.SeedBuiltins(seedCtx); err != nil {
		logrus.WithError(err).Warnln("failed to seed built-in exercises")
	}
	seedCancel()

	opts := api.RouterOptions{
		JWTSecret:      cfg.JWT.Secret,
		Metrics:        metricsManager,
		AuthPerMinute:  cfg.Redis.AuthPerMinute,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	}

	// --- Rate limiting ---
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logrus.WithError(err).Warnln("redis not reachable, auth requests fail until it is")
		}
		pingCancel()
		opts.RateLimiter = redis_rate.NewLimiter(redisClient)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logrus.WithError(err).Errorln("failed to close redis client")
			}
		}()
	}

	if cfg.MCP.Enabled {
		opts.MCPHandler = mcptools.NewHTTPHandler(mcptools.New(planService, exerciseService, version))
		logrus.Infoln("mcp tools served at /mcp")
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	api.SetupRoutes(router, opts, api.Services{
		Auth:      authService,
		Exercises: exerciseService,
		Plans:     planService,
		Progress:  progressService,
		Profile:   profileService,
		Sync:      syncService,
		Catalog:   builtin,
	})

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("ListenAndServe: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Infoln("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logrus.WithError(err).Errorln("server forced to shutdown")
	}

	// pending remote pushes finish before the database goes away
	syncService.Close()
	logrus.Infoln("server exiting")
}
