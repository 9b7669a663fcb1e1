package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prepdeck/qbank-admin/internal/api"
	catalogapi "github.com/prepdeck/qbank-admin/internal/api/catalog"
	wizardapi "github.com/prepdeck/qbank-admin/internal/api/wizard"
	"github.com/prepdeck/qbank-admin/internal/config"
	"github.com/prepdeck/qbank-admin/internal/integration/qbank"
	"github.com/prepdeck/qbank-admin/internal/pkg/validator"
	"github.com/prepdeck/qbank-admin/internal/repository"
	"github.com/prepdeck/qbank-admin/internal/usecase/catalog"
	"github.com/prepdeck/qbank-admin/internal/usecase/wizard"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("session_storage", string(cfg.SessionStorage)),
	)

	app := &App{logger: logger}

	// Setup session storage
	var storage wizard.SessionStorage
	switch cfg.SessionStorage {
	case config.StoragePostgres:
		db, err := setupDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pgStorage := repository.NewWizardPostgresRepository(db, cfg.SessionTTL)
		storage = pgStorage
		app.db = db
		app.purger = pgStorage
	default:
		storage = repository.NewWizardMemoryRepository(cfg.SessionTTL)
	}
	logger.Info("Session storage initialized")

	// Initialize backend connector (with mock support)
	var backend qbank.Service
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the question-bank backend")
		backend = qbank.NewMockConnector(logger)
	} else {
		backend = qbank.NewConnector(cfg.BackendCfg, logger)
	}

	// Initialize validators
	requestValidator := validator.NewValidator(cfg.FileUploadCfg)
	logger.Info("Validators initialized")

	// Initialize use cases
	wizardUC := wizard.NewUsecase(
		storage,
		backend,
		backend,
		backend,
		backend,
		requestValidator,
		logger,
	)
	catalogUC := catalog.NewUsecase(backend, requestValidator, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	wizardHandler := wizardapi.NewHandler(wizardUC, cfg.FileUploadCfg)
	catalogHandler := catalogapi.NewHandler(catalogUC)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(wizardHandler, catalogHandler, logger)
	logger.Info("HTTP router configured")

	app.server = &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return app, nil
}
