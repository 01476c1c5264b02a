package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/oakvale-college/lifecycle-service/internal/adapters/cache"
	"github.com/oakvale-college/lifecycle-service/internal/adapters/handler"
	"github.com/oakvale-college/lifecycle-service/internal/adapters/middleware"
	"github.com/oakvale-college/lifecycle-service/internal/adapters/repository"
	"github.com/oakvale-college/lifecycle-service/internal/adapters/snipeit"
	"github.com/oakvale-college/lifecycle-service/internal/config"
	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/services"
	"github.com/oakvale-college/lifecycle-service/migrations"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := runMigrations(ctx, db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	personRepo := repository.NewPersonRepository(db)
	lifecycleRepo := repository.NewLifecycleRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	assetGateway := snipeit.NewClient(cfg.SnipeITBaseURL, cfg.SnipeITAPIKey)
	assetCache := cache.NewRedisAssetCache(redisClient)

	personService := services.NewPersonService(personRepo)
	lifecycleService := services.NewLifecycleService(lifecycleRepo, personRepo)
	taskService := services.NewTaskService(lifecycleRepo, personRepo, assignmentRepo, assetGateway)
	assetService := services.NewAssetService(assetGateway, assetCache, assignmentRepo)

	personHandler := handler.NewPersonHandler(personService)
	lifecycleHandler := handler.NewLifecycleHandler(lifecycleService)
	taskHandler := handler.NewTaskHandler(taskService)
	assetHandler := handler.NewAssetHandler(assetService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)

	anyRole := []domain.Role{domain.RoleIT, domain.RoleHR, domain.RoleEnrolment}
	itOnly := []domain.Role{domain.RoleIT}
	submitters := []domain.Role{domain.RoleHR, domain.RoleEnrolment}

	router := mux.NewRouter()

	// Health endpoints (OpenShift compatible)
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods(http.MethodGet)
	router.HandleFunc("/health/live", healthHandler.Live).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.Metrics)

	// People
	api.HandleFunc("/people", authMiddleware.RequireRole(anyRole, personHandler.List)).Methods(http.MethodGet)
	api.HandleFunc("/people", authMiddleware.RequireRole(submitters, personHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/people/{id}", authMiddleware.RequireRole(anyRole, personHandler.Get)).Methods(http.MethodGet)
	api.HandleFunc("/people/{id}", authMiddleware.RequireRole(anyRole, personHandler.Update)).Methods(http.MethodPut)

	// Lifecycle requests
	api.HandleFunc("/lifecycle", authMiddleware.RequireRole(anyRole, lifecycleHandler.List)).Methods(http.MethodGet)
	api.HandleFunc("/lifecycle", authMiddleware.RequireRole(submitters, lifecycleHandler.Submit)).Methods(http.MethodPost)
	api.HandleFunc("/lifecycle/{id}", authMiddleware.RequireRole(anyRole, lifecycleHandler.Get)).Methods(http.MethodGet)
	api.HandleFunc("/lifecycle/{id}", authMiddleware.RequireRole(anyRole, lifecycleHandler.Update)).Methods(http.MethodPut)
	api.HandleFunc("/lifecycle/{id}/tickets", authMiddleware.RequireRole(anyRole, lifecycleHandler.LinkTicket)).Methods(http.MethodPost)

	// Tasks
	api.HandleFunc("/lifecycle-tasks/request/{id}", authMiddleware.RequireRole(anyRole, taskHandler.ListByRequest)).Methods(http.MethodGet)
	api.HandleFunc("/lifecycle-tasks/{id}", authMiddleware.RequireRole(anyRole, taskHandler.Get)).Methods(http.MethodGet)
	api.HandleFunc("/lifecycle-tasks/{id}", authMiddleware.RequireRole(itOnly, taskHandler.Complete)).Methods(http.MethodPut)

	// Assets (mirrored from Snipe-IT)
	api.HandleFunc("/assets", authMiddleware.RequireRole(anyRole, assetHandler.List)).Methods(http.MethodGet)
	api.HandleFunc("/assets/sync", authMiddleware.RequireRole(itOnly, assetHandler.Sync)).Methods(http.MethodPost)
	api.HandleFunc("/assets/person/{id}", authMiddleware.RequireRole(anyRole, assetHandler.PersonAssets)).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", authMiddleware.RequireRole(anyRole, assetHandler.Get)).Methods(http.MethodGet)

	corsRouter := middleware.CORSMiddleware(cfg.AllowedOrigins)(router)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsRouter); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Printf("migration applied: %s", r.Source.Path)
	}
	return nil
}
