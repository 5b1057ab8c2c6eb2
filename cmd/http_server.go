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
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mbenkirane/cabinet-management/internal"
	"github.com/mbenkirane/cabinet-management/internal/auth"
	authpg "github.com/mbenkirane/cabinet-management/internal/auth/postgres"
	"github.com/mbenkirane/cabinet-management/internal/client"
	clientpg "github.com/mbenkirane/cabinet-management/internal/client/postgres"
	"github.com/mbenkirane/cabinet-management/internal/portfolio"
	portfoliopg "github.com/mbenkirane/cabinet-management/internal/portfolio/postgres"
	"github.com/mbenkirane/cabinet-management/internal/report"
	reportpg "github.com/mbenkirane/cabinet-management/internal/report/postgres"
	"github.com/mbenkirane/cabinet-management/internal/request"
	requestpg "github.com/mbenkirane/cabinet-management/internal/request/postgres"
	"github.com/mbenkirane/cabinet-management/internal/role"
	rolepg "github.com/mbenkirane/cabinet-management/internal/role/postgres"
	"github.com/mbenkirane/cabinet-management/internal/storage"
	"github.com/mbenkirane/cabinet-management/internal/task"
	taskpg "github.com/mbenkirane/cabinet-management/internal/task/postgres"
	"github.com/mbenkirane/cabinet-management/internal/timeentry"
	timeentrypg "github.com/mbenkirane/cabinet-management/internal/timeentry/postgres"
	"github.com/mbenkirane/cabinet-management/internal/transport/rest"
	"github.com/mbenkirane/cabinet-management/internal/transport/swagger"
	"github.com/mbenkirane/cabinet-management/internal/user"
	userpg "github.com/mbenkirane/cabinet-management/internal/user/postgres"
	"github.com/mbenkirane/cabinet-management/pkg/logger"
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
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		return fmt.Errorf("invalid openapi document: %w", err)
	}

	files, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}

	tokenGen := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authpg.NewRepository(deps.GormDB), tokenGen, cfg.Security.BCryptCost)

	// also the authz.Store behind the per-request access resolver
	roleRepo := rolepg.NewRoleRepository(deps.GormDB)

	userService := user.NewService(userpg.NewUserRepository(deps.GormDB), cfg.Security.BCryptCost, deps.Logger)
	roleService := role.NewService(roleRepo, deps.Logger)
	portfolioService := portfolio.NewService(portfoliopg.NewPortfolioRepository(deps.GormDB), deps.Logger)
	clientService := client.NewService(clientpg.NewClientRepository(deps.GormDB), files, deps.Logger)
	taskService := task.NewService(taskpg.NewTaskRepository(deps.GormDB), deps.Logger)

	timeRepo := timeentrypg.NewTimeEntryRepository(deps.GormDB)
	timeService := timeentry.NewService(timeRepo, timeRepo, deps.Logger)

	requestService := request.NewService(requestpg.NewRequestRepository(deps.GormDB), files, deps.Logger)
	reportService := report.NewService(reportpg.NewReportRepository(deps.DB), deps.Logger)

	handlers := rest.Handlers{
		Auth:      auth.NewHandler(authService, roleRepo),
		User:      user.NewHandler(userService),
		Role:      role.NewHandler(roleService),
		Portfolio: portfolio.NewHandler(portfolioService),
		Client:    client.NewHandler(clientService, cfg.Storage.MaxUploadSize),
		Task:      task.NewHandler(taskService),
		TimeEntry: timeentry.NewHandler(timeService),
		Request:   request.NewHandler(requestService, cfg.Storage.MaxUploadSize),
		Report:    report.NewHandler(reportService),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGormDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB opens the pgx connection pool shared by the raw-SQL repositories and
// the health check.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
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

// initGormDB layers gorm over the already-open pool so both access paths share
// one set of connections.
func initGormDB(db *sqlx.DB) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx pool: %w", err)
	}
	return gormDB, nil
}
