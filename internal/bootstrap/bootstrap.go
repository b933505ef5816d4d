package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/rankpredictor/internal/app/controllers"
	appMigrations "github.com/yigit/rankpredictor/internal/app/migrations"
	appRepos "github.com/yigit/rankpredictor/internal/app/repositories"
	appRoutes "github.com/yigit/rankpredictor/internal/app/routes"
	appServices "github.com/yigit/rankpredictor/internal/app/services"
	"github.com/yigit/rankpredictor/internal/catalog"
	"github.com/yigit/rankpredictor/internal/config"
	"github.com/yigit/rankpredictor/internal/db"
	appMiddleware "github.com/yigit/rankpredictor/internal/middleware"
	pkgAuth "github.com/yigit/rankpredictor/internal/pkg/auth"
	"github.com/yigit/rankpredictor/internal/pkg/logger"
	"github.com/yigit/rankpredictor/internal/pkg/validation"
	"github.com/yigit/rankpredictor/internal/seed"
)

// Store is the cutoff store chosen by the database driver. DB is nil for
// the in-memory driver.
type Store struct {
	Cutoffs appServices.CutoffStore
	DB      *db.PostgresDB
}

// Close releases the database pool, if any
func (s *Store) Close() {
	if s != nil && s.DB != nil {
		s.DB.Close()
	}
}

// Dependencies holds all the application dependencies
type Dependencies struct {
	Catalog              *catalog.Catalog
	FilterService        appServices.FilterConfigService
	PredictionService    appServices.PredictionService
	PredictionController *appControllers.PredictionController
	FilterController     *appControllers.FilterController
	CatalogController    *appControllers.CatalogController
	HealthController     *appControllers.HealthController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Logger()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// LoadCatalog builds the filter catalog, overlaying the configured file on
// the built-in tables when one is set.
func LoadCatalog(cfg *config.Config, lgr zerolog.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		lgr.Info().Msg("Using built-in filter catalog")
		return catalog.Default(), nil
	}

	cat, err := catalog.LoadFile(cfg.Catalog.Path, catalog.DefaultDefinition())
	if err != nil {
		for _, p := range catalog.Problems(err) {
			lgr.Error().Str("path", cfg.Catalog.Path).Str("problem", p).Msg("Catalog problem")
		}
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Catalog.Path, err)
	}

	s := cat.Summarize()
	lgr.Info().Str("path", cfg.Catalog.Path).Int("colleges", s.Colleges).Int("groups", s.Groups).Msg("Filter catalog loaded")
	return cat, nil
}

// SetupStore opens the cutoff store selected by the database driver. For
// PostgreSQL it runs migrations and, when enabled, seeds sample data.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	if cfg.Database.Driver == config.DriverMemory {
		return setupMemoryStore(cfg, lgr)
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateAll(ctx, appMigrations.Files()); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.SeedSampleData {
		err := database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return seed.CreateSampleData(ctx, appRepos.NewCutoffRepository(tx), lgr)
		})
		if err != nil {
			// Startup continues on an empty store
			lgr.Error().Err(err).Msg("Failed to seed sample data, proceeding anyway...")
		}
	}

	repos := appRepos.NewRepositories(database.Pool)
	return &Store{Cutoffs: repos.CutoffRepository, DB: database}, nil
}

func setupMemoryStore(cfg *config.Config, lgr zerolog.Logger) (*Store, error) {
	if cfg.Database.FixturePath == "" {
		store, err := seed.SampleStore()
		if err != nil {
			return nil, fmt.Errorf("failed to load sample data: %w", err)
		}
		lgr.Warn().Int("rows", store.Len()).Msg("Serving bundled sample cutoffs from memory")
		return &Store{Cutoffs: store}, nil
	}

	store, err := appRepos.LoadMemoryCutoffStore(cfg.Database.FixturePath)
	if err != nil {
		return nil, err
	}
	lgr.Info().Str("path", cfg.Database.FixturePath).Int("rows", store.Len()).Msg("Serving cutoffs from fixture")
	return &Store{Cutoffs: store}, nil
}

// BuildDependencies initializes services and controllers.
func BuildDependencies(cfg *config.Config, cat *catalog.Catalog, store *Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Catalog: cat, Logger: lgr}

	scorer, err := appServices.NewScorer(cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("failed to configure scoring: %w", err)
	}

	deps.FilterService = appServices.NewFilterConfigService(cat, lgr)
	deps.PredictionService = appServices.NewPredictionService(
		store.Cutoffs,
		deps.FilterService,
		scorer,
		cfg.Pagination.MaxPageSize,
		lgr,
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: parseDuration(cfg.JWT.AccessTokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.PredictionController = appControllers.NewPredictionController(deps.PredictionService, cfg.Pagination.DefaultPageSize)
	deps.FilterController = appControllers.NewFilterController(deps.FilterService)
	deps.CatalogController = appControllers.NewCatalogController(deps.FilterService)

	var pinger appControllers.Pinger
	if store.DB != nil {
		pinger = store.DB.Pool
	}
	deps.HealthController = appControllers.NewHealthController(pinger)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterWithGin(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.Logger(lgr),
		appMiddleware.Timeout(cfg.RequestTimeout()),
	)

	appRoutes.SetupRouter(router,
		deps.PredictionController,
		deps.FilterController,
		deps.CatalogController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router, nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
