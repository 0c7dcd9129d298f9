package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/gtd_portal/internal/auth"
	"github.com/GTDGit/gtd_portal/internal/cache"
	"github.com/GTDGit/gtd_portal/internal/catalog"
	"github.com/GTDGit/gtd_portal/internal/config"
	"github.com/GTDGit/gtd_portal/internal/database"
	"github.com/GTDGit/gtd_portal/internal/handler"
	"github.com/GTDGit/gtd_portal/internal/middleware"
	"github.com/GTDGit/gtd_portal/internal/repository"
	"github.com/GTDGit/gtd_portal/internal/service"
	"github.com/GTDGit/gtd_portal/internal/view"
	"github.com/GTDGit/gtd_portal/internal/worker"
	"github.com/GTDGit/gtd_portal/pkg/digiflazz"
)

// main is the entrypoint for the GTD customer/admin portal.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("backend", cfg.Backend.BaseURL).Msg("starting gtd portal")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Redis backs the "remember me" slot. Without it, remembered logins
	// fall back to the session slot.
	var persistent auth.Slot
	var redisPinger handler.Pinger
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable - remember me will be session-scoped")
	} else {
		defer redisClient.Close()
		persistent = auth.NewRedisSlot(redisClient)
		redisPinger = redisClient
		log.Info().Msg("redis connected successfully")
	}

	// 4. Optional database for sync history
	var runStore service.SyncRunStore
	var dbPinger handler.Pinger
	if cfg.DB.Enabled() {
		db, err := database.Connect(&cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := runMigrations(db.DB); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")

		runStore = repository.NewSyncRunRepository(db)
		dbPinger = dbPing{db}
	} else {
		log.Warn().Msg("DB_HOST not set - sync history disabled")
	}

	// 5. Backend client and core services
	backend := digiflazz.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)
	fetcher := catalog.NewFetcher(backend)

	sessionSlot := auth.NewMemorySlot()
	store := auth.NewStore(persistent, sessionSlot, cfg.Session.SessionTTL, cfg.Session.RememberTTL)
	views := view.NewRegistry(fetcher, cfg.Session.ViewIdleTTL)
	limiter := middleware.NewInvalidAuthRateLimiter(5, time.Minute)

	adminProductSvc := service.NewAdminProductService(fetcher)
	syncSvc := service.NewSyncService(backend, runStore)

	// 6. Handlers
	handlers := &Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"redis":    redisPinger,
			"database": dbPinger,
		}),
		Auth:         handler.NewAuthHandler(store, views, limiter),
		Catalog:      handler.NewCatalogHandler(fetcher, views),
		AdminProduct: handler.NewAdminProductHandler(adminProductSvc, syncSvc),
	}

	// 7. Router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	sessionMw := middleware.NewSessionMiddleware(store, cfg.Session.CookieName, cfg.Session.Secure)
	setupRoutes(router, handlers, sessionMw)

	// 8. Background loops
	go sessionSlot.StartSweeper(ctx, time.Minute)
	go views.Start(ctx, time.Minute)
	go limiter.Cleanup(ctx, 5*time.Minute)
	if cfg.Backend.ServiceToken != "" && cfg.Worker.SyncInterval > 0 {
		go worker.NewSyncWorker(syncSvc, worker.StaticToken(cfg.Backend.ServiceToken), cfg.Worker.SyncInterval).Start(ctx)
	}

	// 9. HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Catalog      *handler.CatalogHandler
	AdminProduct *handler.AdminProductHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMw *middleware.SessionMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	v1 := router.Group("/v1")
	v1.Use(sessionMw.Handle())
	{
		v1.GET("/session", handlers.Auth.Status)
		v1.POST("/session", handlers.Auth.Login)
		v1.DELETE("/session", handlers.Auth.Logout)

		v1.GET("/price-list/:kind", handlers.Catalog.GetPriceList)
		v1.GET("/views/price-list", handlers.Catalog.GetView)
		v1.POST("/views/price-list/refresh", handlers.Catalog.RefreshView)
	}

	admin := v1.Group("/admin")
	{
		admin.GET("/products", handlers.AdminProduct.ListProducts)
		admin.POST("/products/sync", handlers.AdminProduct.SyncPrepaid)
		admin.GET("/products/sync/history", handlers.AdminProduct.SyncHistory)
	}
}

// dbPing adapts *sqlx.DB to handler.Pinger.
type dbPing struct {
	db *sqlx.DB
}

func (p dbPing) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
