package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/vivekrana775/ems-backend/internal"
	"github.com/vivekrana775/ems-backend/internal/audit"
	auditPostgres "github.com/vivekrana775/ems-backend/internal/audit/postgres"
	"github.com/vivekrana775/ems-backend/internal/auth"
	authPostgres "github.com/vivekrana775/ems-backend/internal/auth/postgres"
	"github.com/vivekrana775/ems-backend/internal/core/events"
	"github.com/vivekrana775/ems-backend/internal/employee"
	employeePostgres "github.com/vivekrana775/ems-backend/internal/employee/postgres"
	"github.com/vivekrana775/ems-backend/internal/request"
	requestPostgres "github.com/vivekrana775/ems-backend/internal/request/postgres"
	"github.com/vivekrana775/ems-backend/internal/timeentry"
	timeentryPostgres "github.com/vivekrana775/ems-backend/internal/timeentry/postgres"
	"github.com/vivekrana775/ems-backend/internal/transport/rest"
	"github.com/vivekrana775/ems-backend/pkg/logger"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr, "base_url", deps.Config.Server.BaseURL)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(
		authPostgres.NewUserRepository(gormDB),
		authPostgres.NewRefreshTokenRepository(gormDB),
		tokenGen,
		config.Security.BCryptCost,
		lg,
	)
	secureCookie := os.Getenv("APP_ENV") == "production"
	authHandler := auth.NewHandler(authService, secureCookie)

	bus := events.NewEventBus(lg)
	audit.RegisterPersistence(bus, auditPostgres.NewAuditWriter(gormDB), lg)
	auditRecorder := audit.NewBusRecorder(bus, lg)

	requestService := request.NewService(
		requestPostgres.NewRequestRepository(gormDB),
		requestPostgres.NewEmployeeDirectory(gormDB),
		auditRecorder,
		lg,
	)
	timeEntryService := timeentry.NewService(
		timeentryPostgres.NewTimeEntryRepository(gormDB),
		timeentryPostgres.NewEmployeeDirectory(gormDB),
		lg,
	)
	employeeService := employee.NewService(
		employeePostgres.NewEmployeeRepository(gormDB),
		authService,
		lg,
	)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(
		router,
		db.DB,
		authHandler,
		employee.NewHandler(employeeService),
		request.NewHandler(requestService),
		timeentry.NewHandler(timeEntryService),
		lg,
	)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// initDB opens the shared pgx-backed connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
