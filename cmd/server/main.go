// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/gurkanbulca/todo/internal/config"
	"github.com/gurkanbulca/todo/internal/database"
	"github.com/gurkanbulca/todo/internal/grpcserver"
	"github.com/gurkanbulca/todo/internal/httpapi"
	"github.com/gurkanbulca/todo/internal/repository"
	"github.com/gurkanbulca/todo/internal/service"
	"github.com/gurkanbulca/todo/pkg/auth"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Storage backend
	users, tasks, closeStore, err := openStorage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStore()

	tokenManager := auth.NewTokenManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenDuration,
		cfg.JWT.RefreshTokenDuration,
	)

	workspace := service.NewWorkspace(tasks)
	securityLogger := service.NewSecurityLogger(cfg.Security.RecentEventsLimit)
	authService := service.NewAuthService(
		users,
		workspace,
		tokenManager,
		securityLogger,
		cfg.Security,
		cfg.ToPasswordPolicy(),
	)

	// gRPC
	grpcServer, healthServer := grpcserver.NewServer(grpcserver.Options{
		Workspace:    workspace,
		Auth:         authService,
		TokenManager: tokenManager,
		Validation:   cfg.ToValidationConfig(),
	})

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	go func() {
		log.Printf("[INFO] gRPC server listening on port %s", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("Failed to serve gRPC: %v", err)
		}
	}()

	// HTTP
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httpapi.New(workspace, authService, tokenManager, cfg.ToValidationConfig())
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.HTTPPort),
		Handler: handler.Router(),
	}

	go func() {
		log.Printf("[INFO] HTTP server listening on port %s", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[INFO] Shutting down servers...")
	healthServer.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] HTTP shutdown: %v", err)
	}
	grpcServer.GracefulStop()
	log.Println("[INFO] Server shutdown complete")
}

// openStorage builds the user and task repositories of the configured backend.
// The returned func releases the database connection, if any.
func openStorage(ctx context.Context, cfg *config.Config) (repository.UserRepository, repository.TaskRepositoryFactory, func(), error) {
	switch cfg.Storage.Backend {
	case config.StorageSQL:
		log.Printf("[INFO] Connecting to %s database...", cfg.Database.Driver)
		db, err := database.Open(cfg.ToDatabaseConfig())
		if err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if err := db.Close(); err != nil {
				log.Printf("Failed to close database connection: %v", err)
			}
		}

		if cfg.Server.AutoMigrate {
			if err := runAutoMigration(ctx, db); err != nil {
				closeDB()
				return nil, nil, nil, err
			}
		}
		return repository.NewSQLUserRepository(db), repository.NewSQLTaskRepositoryFactory(db), closeDB, nil

	default:
		log.Printf("[INFO] Using JSON files in %s", cfg.Storage.DataDir)
		return repository.NewJSONUserRepository(cfg.UsersFile()),
			repository.NewJSONTaskRepositoryFactory(cfg.Storage.DataDir),
			func() {},
			nil
	}
}

func runAutoMigration(ctx context.Context, db *sqlx.DB) error {
	log.Println("[INFO] Running auto migration...")
	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run auto migration: %w", err)
	}
	log.Println("[INFO] Auto migration completed")
	return nil
}
