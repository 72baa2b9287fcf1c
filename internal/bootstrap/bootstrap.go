package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/coursedesk/internal/app/controllers"
	appMigrations "github.com/yigit/coursedesk/internal/app/migrations"
	appRepos "github.com/yigit/coursedesk/internal/app/repositories"
	appRoutes "github.com/yigit/coursedesk/internal/app/routes"
	appServices "github.com/yigit/coursedesk/internal/app/services"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/db"
	appMiddleware "github.com/yigit/coursedesk/internal/middleware"
	pkgAuth "github.com/yigit/coursedesk/internal/pkg/auth"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
	"github.com/yigit/coursedesk/internal/pkg/logger"
	"github.com/yigit/coursedesk/internal/pkg/validation"
	"github.com/yigit/coursedesk/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CourseService    appServices.CourseService
	CourseController *appControllers.CourseController
	HealthController *appControllers.HealthController
	AuthMiddleware   *appMiddleware.AuthMiddleware // nil when auth is disabled
	JWTService       *pkgAuth.JWTService           // nil when auth is disabled
	Metrics          *appMiddleware.HTTPMetrics
	Registry         *prometheus.Registry
	Repos            *appRepos.Repositories
	Logger           zerolog.Logger
}

// Database is an open store with its repositories
type Database struct {
	Repos *appRepos.Repositories
	close func()
}

// Close releases the underlying connection(s)
func (d *Database) Close() {
	if d != nil && d.close != nil {
		d.close()
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase connects to the configured driver, applies migrations and
// seeds default courses when enabled.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Database, error) {
	lgr.Info().Str("driver", cfg.Database.Driver).Msg("Establishing database connection...")

	var (
		database *Database
		dialect  appMigrations.Dialect
		migrate  func() error
	)

	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg, err := db.NewPostgresDB(ctx, cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		database = &Database{Repos: appRepos.NewPostgresRepositories(pg.Pool), close: pg.Close}
		dialect = appMigrations.DialectPostgres
		migrate = func() error {
			sqlDB := pg.SQL()
			defer sqlDB.Close()
			return runMigrations(ctx, sqlDB, dialect, lgr)
		}
	case config.DriverSQLite:
		lite, err := db.NewSQLiteDB(ctx, cfg.Database.Path)
		if err != nil {
			lgr.Error().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
			return nil, err
		}
		database = &Database{Repos: appRepos.NewSQLRepositories(lite.SQL()), close: lite.Close}
		dialect = appMigrations.DialectSQLite
		migrate = func() error {
			return runMigrations(ctx, lite.SQL(), dialect, lgr)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	lgr.Info().Msg("Database connection successfully established.")

	if err := migrate(); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if cfg.Database.Seed {
		if err := seed.CreateDefaultCourses(ctx, database.Repos.CourseRepository, cfg.Seed.Courses, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default courses, proceeding anyway...")
		}
	}

	return database, nil
}

func runMigrations(ctx context.Context, sqlDB *sql.DB, dialect appMigrations.Dialect, lgr zerolog.Logger) error {
	lgr.Info().Str("dialect", string(dialect)).Msg("Running database migrations...")
	migrator, err := appMigrations.NewMigrator(sqlDB, dialect, lgr)
	if err != nil {
		return err
	}
	if err := migrator.Migrate(ctx); err != nil {
		return err
	}
	lgr.Info().Msg("Database migrations successfully applied.")
	return nil
}

// BuildDependencies initializes services, controllers and middleware.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Repos: repos, Logger: lgr}

	if err := validation.RegisterGinRules(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := appMiddleware.NewHTTPMetrics(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register HTTP metrics: %w", err)
	}
	deps.Metrics = metrics

	if cfg.Auth.Enabled {
		deps.JWTService = pkgAuth.NewJWTService(JWTConfig(cfg))
		deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
		lgr.Info().Msg("Write routes require a bearer token")
	}

	deps.CourseService = appServices.NewCourseService(repos.CourseRepository)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.HealthController = appControllers.NewHealthController(repos.CourseRepository, lgr)

	return deps, nil
}

// JWTConfig derives token settings from the auth section
func JWTConfig(cfg *config.Config) pkgAuth.JWTConfig {
	return pkgAuth.JWTConfig{
		SecretKey:   cfg.Auth.Secret,
		TokenExp:    helpers.ParseDuration(cfg.Auth.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.Auth.Issuer,
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case strings.EqualFold(cfg.Server.Mode, "test"):
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	lgr.Info().Str("mode", gin.Mode()).Msg("Gin mode set")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestID(),
		appMiddleware.RequestLogger(lgr),
		deps.Metrics.Handler(),
	)

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.CourseController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
