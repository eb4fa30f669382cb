// Package bootstrap assembles the console from configuration. The server and
// the operator CLI share these providers.
package bootstrap

import (
	"context"
	"time"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/domain/collection"
	"github.com/Romer4ig/image-moderation/internal/domain/events"
	"github.com/Romer4ig/image-moderation/internal/domain/generation"
	"github.com/Romer4ig/image-moderation/internal/domain/grid"
	"github.com/Romer4ig/image-moderation/internal/domain/project"
	"github.com/Romer4ig/image-moderation/internal/domain/selection"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/database"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/realtime"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/collectionrepo"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/generationrepo"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/gridrepo"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/projectrepo"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/repository/selectionrepo"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/scheduler"
	"github.com/Romer4ig/image-moderation/internal/infrastructure/storage"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/handlers"
)

// Services groups the domain services.
type Services struct {
	Projects    project.Service
	Collections collection.Service
	Generations generation.Service
	Grid        grid.Service
	Selection   selection.Service
}

// Infrastructure groups the adapters the services run on.
type Infrastructure struct {
	DB        *gorm.DB
	Files     *storage.FileStore
	Hub       *realtime.Hub
	Publisher events.Publisher
	Redis     *realtime.RedisBus
}

// Close releases the infrastructure resources.
func (i *Infrastructure) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.Hub != nil {
		i.Hub.Close()
	}
	if i.DB != nil {
		if sqlDB, err := i.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// ProviderSet lists the providers used by the server injector.
var ProviderSet = wire.NewSet(
	NewDatabaseConfig,
	OpenDatabase,
	storage.NewFileStore,
	realtime.NewHub,
	NewInfrastructure,
	NewServices,
	NewHTTPServer,
)

// NewDatabaseConfig maps application settings to database settings.
func NewDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

// OpenDatabase connects and migrates the schema.
func OpenDatabase(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// NewInfrastructure selects the event delivery path. With REDIS_ADDR set events
// travel through Redis so every instance sees them; otherwise they are
// delivered in process. A Redis outage at startup falls back to local delivery.
func NewInfrastructure(ctx context.Context, cfg *config.Config, db *gorm.DB, files *storage.FileStore, hub *realtime.Hub, log zerolog.Logger) *Infrastructure {
	infra := &Infrastructure{DB: db, Files: files, Hub: hub, Publisher: hub}
	if !cfg.RedisEnabled() {
		return infra
	}

	bus, err := realtime.NewRedisBus(ctx, cfg, hub, log)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; live updates stay local to this instance")
		return infra
	}
	if err := bus.StartForwarder(ctx); err != nil {
		log.Warn().Err(err).Msg("redis forwarder failed; live updates stay local to this instance")
		_ = bus.Close()
		return infra
	}
	infra.Redis = bus
	infra.Publisher = bus
	return infra
}

// NewServices wires repositories and adapters into the domain services.
func NewServices(ctx context.Context, cfg *config.Config, infra *Infrastructure, log zerolog.Logger) (*Services, error) {
	projectRepo := projectrepo.NewRepository(infra.DB)
	collectionRepo := collectionrepo.NewRepository(infra.DB)
	generationRepo := generationrepo.NewRepository(infra.DB)
	selectionRepo := selectionrepo.NewRepository(infra.DB)
	gridRepo := gridrepo.NewRepository(infra.DB)

	s3Mirror, err := storage.NewS3Mirror(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	mirror := storage.NewSelectionMirror(infra.Files, s3Mirror, log)

	return &Services{
		Projects:    project.NewService(projectRepo, infra.Files, log),
		Collections: collection.NewService(collectionRepo, infra.Files, log),
		Generations: generation.NewService(
			generationRepo,
			projectRepo,
			collectionRepo,
			scheduler.NewFromConfig(cfg, log),
			infra.Files,
			storage.NewSourceScanner(log),
			infra.Publisher,
			generation.Options{PublicBaseURL: cfg.PublicBaseURL},
			log,
		),
		Grid: grid.NewService(gridRepo, projectRepo, collectionRepo, selectionRepo, generationRepo, cfg.PublicBaseURL, log),
		Selection: selection.NewService(
			selectionRepo,
			projectRepo,
			collectionRepo,
			generationRepo,
			mirror,
			infra.Publisher,
			cfg.PublicBaseURL,
			log,
		),
	}, nil
}

// NewHTTPServer builds the HTTP server with readiness checks for the database,
// the files root and Redis when configured.
func NewHTTPServer(cfg *config.Config, infra *Infrastructure, services *Services, log zerolog.Logger) *httpserver.HttpServer {
	provider := handlers.NewProvider(
		cfg,
		services.Projects,
		services.Collections,
		services.Generations,
		services.Grid,
		services.Selection,
		infra.Hub,
		log,
	)

	checks := map[string]httpserver.ReadinessCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := infra.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"files": infra.Files.Health,
	}
	if infra.Redis != nil {
		checks["redis"] = infra.Redis.Ping
	}
	return httpserver.New(cfg, log, provider, checks)
}

// Build assembles everything without the HTTP layer.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Infrastructure, *Services, error) {
	started := time.Now()
	db, err := OpenDatabase(ctx, NewDatabaseConfig(cfg), log)
	if err != nil {
		return nil, nil, err
	}
	files, err := storage.NewFileStore(cfg, log)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, nil, err
	}
	infra := NewInfrastructure(ctx, cfg, db, files, realtime.NewHub(log), log)
	services, err := NewServices(ctx, cfg, infra, log)
	if err != nil {
		infra.Close()
		return nil, nil, err
	}
	log.Debug().Dur("elapsed", time.Since(started)).Msg("console assembled")
	return infra, services, nil
}
