package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	bindingApp "lexora/internal/application/binding"
	"lexora/internal/application/binding/usecases"
	domainBinding "lexora/internal/domain/binding"
	domainTenant "lexora/internal/domain/tenant"
	"lexora/internal/infrastructure/cache"
	"lexora/internal/infrastructure/config"
	"lexora/internal/infrastructure/database"
	"lexora/internal/infrastructure/metrics"
	"lexora/internal/infrastructure/migration"
	"lexora/internal/infrastructure/repository"
	"lexora/internal/infrastructure/repository/memory"
	httpRouter "lexora/internal/interfaces/http"
	bindingHandlers "lexora/internal/interfaces/http/handlers/binding"
	sharedDB "lexora/internal/shared/db"
	"lexora/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
	inMemory    bool
	sqlitePath  string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the Lexora binding server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Automatically run database migrations on startup (not recommended for production)")
	cmd.Flags().BoolVar(&inMemory, "in-memory", false, "Run with in-memory storage, no MySQL or Redis required")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Run against a local SQLite file instead of MySQL")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("starting server",
		"environment", env,
		"in_memory", inMemory,
		"auto_migrate", autoMigrate)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	var (
		codes   domainBinding.CodeStore
		ledger  domainBinding.LedgerRepository
		tenants domainTenant.Repository
		tx      usecases.TxRunner
		limiter bindingHandlers.ConsumeLimiter
	)

	if inMemory {
		codes = memory.NewCodeStore()
		ledger = memory.NewLedgerRepository()
		tenants = memory.NewTenantRepository()
		tx = memory.NewTxRunner()
	} else {
		if sqlitePath != "" {
			if err := database.InitSQLite(sqlitePath); err != nil {
				return fmt.Errorf("failed to initialize sqlite: %w", err)
			}
		} else {
			if err := database.Init(&cfg.Database); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
		}
		defer database.Close()

		if err := handleMigrations(env); err != nil {
			return fmt.Errorf("migration handling failed: %w", err)
		}

		log := logger.NewLogger()
		codes = repository.NewBindingCodeStore(database.Get(), log.Named("codestore"))
		ledger = repository.NewLedgerRepository(database.Get(), log.Named("ledger"))
		tenants = repository.NewTenantRepository(database.Get(), log.Named("tenants"))
		tx = sharedDB.NewTransactionManager(database.Get())

		limiter = connectLimiter(cfg)
	}

	svc := bindingApp.NewService(codes, ledger, tenants, tx, cfg.Binding.CodeTTL(), logger.NewLogger().Named("binding"))

	router := httpRouter.NewRouter(svc, limiter, cfg, logger.NewLogger())
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if interval := cfg.Binding.SweepInterval(); interval > 0 {
		go runSweeper(sweepCtx, svc, interval)
	}

	go func() {
		logger.Info("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server exited gracefully")
	return nil
}

// runSweeper periodically removes expired unconsumed binding codes.
func runSweeper(ctx context.Context, svc *bindingApp.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.SweepExpiredCodes(ctx)
			if err != nil {
				logger.Warn("expired code sweep failed", "error", err)
				continue
			}
			if n > 0 {
				metrics.BindingCodesExpiredTotal.Add(float64(n))
			}
		}
	}
}

// connectLimiter builds the Redis-backed brute-force limiter. A missing or
// unreachable Redis disables rate limiting rather than failing startup.
func connectLimiter(cfg *config.Config) bindingHandlers.ConsumeLimiter {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, consume rate limiting disabled",
			"addr", cfg.Redis.GetAddr(), "error", err)
		return nil
	}

	logger.Info("redis connected", "addr", cfg.Redis.GetAddr())
	return cache.NewConsumeLimiter(client, cfg.Binding.MaxConsumeAttempts, cfg.Binding.LockoutTTL())
}

func handleMigrations(environment string) error {
	if !autoMigrate {
		return nil
	}

	if environment == "production" {
		logger.Warn("auto-migration is enabled in production environment, this is not recommended")
	}

	manager := migration.NewManager(environment)
	if err := manager.Migrate(database.Get(), migration.AutoMigrateModels()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
