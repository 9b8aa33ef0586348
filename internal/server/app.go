// Package server wires configuration, storage, services and the REST API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/surveykeeper/internal/logging"
	"github.com/dmitrijs2005/surveykeeper/internal/server/config"
	"github.com/dmitrijs2005/surveykeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/surveykeeper/internal/server/rest"
	"github.com/dmitrijs2005/surveykeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	StorageModePostgres = "postgres"
	StorageModeMemory   = "memory"
)

var (
	logOutput io.Writer = os.Stdout

	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	server      *rest.Server
}

// NewApp opens storage, applies migrations and builds the HTTP stack.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(c.LogFormat, logOutput)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	rm, err := openStorage(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	us := services.NewUserService(rm, c, logger)
	router := rest.NewRouter(rest.RouterConfig{
		AuthHandler:       rest.NewAuthHandler(us),
		SurveyHandler:     rest.NewSurveyHandler(services.NewSurveyService(rm, logger)),
		ResponseHandler:   rest.NewResponseHandler(services.NewResponseService(rm, logger), services.NewExportService(rm, c, logger)),
		RespondentHandler: rest.NewRespondentHandler(services.NewRespondentService(rm, logger)),
		Verifier:          us,
		Logger:            logger.With("module", "http"),
		CORSOrigins:       c.CORSOrigins,
	})

	return &App{
		config:      c,
		logger:      logger,
		repomanager: rm,
		server:      rest.NewServer(c.HTTPAddr, router, logger, c.ShutdownTimeout),
	}, nil
}

func openStorage(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.StorageMode {
	case StorageModeMemory:
		return repomanager.NewInMemoryRepositoryManager(), nil
	case StorageModePostgres, "":
		if c.DatabaseDSN == "" {
			return nil, fmt.Errorf("database DSN is required for %s storage", StorageModePostgres)
		}
		return openPostgres(ctx, c.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", c.StorageMode)
	}
}

func (app *App) initSignalHandler(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := app.initSignalHandler(ctx)
	defer cancel()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageMode)

	err := app.server.Run(ctx)
	if cerr := app.repomanager.Close(); cerr != nil {
		app.logger.Error(ctx, "close storage", "error", cerr)
	}
	_ = logging.Flush(app.logger)
	return err
}
