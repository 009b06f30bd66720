package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"kyc-backend/internal/documents"
	"kyc-backend/internal/extract"
	"kyc-backend/internal/kyc"
	"kyc-backend/internal/profiles"
	"kyc-backend/internal/services/health"
	"kyc-backend/internal/shared/auth"
	"kyc-backend/internal/shared/config"
	"kyc-backend/internal/shared/server"
	"kyc-backend/internal/shared/storage/db"
	"kyc-backend/internal/shared/storage/object"
	localstore "kyc-backend/internal/shared/storage/object/local"
	s3store "kyc-backend/internal/shared/storage/object/s3"
	"kyc-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Store            object.ObjectStore
	Verifier         *auth.Verifier
	Extractor        *extract.Extractor
	DocumentsRepo    documents.DocumentsRepo
	ProfilesRepo     profiles.Repo
	DocumentsService *documents.Service
	KYCService       *kyc.Service
	DocumentsHandler *documents.Handler
	KYCHandler       *kyc.Handler
	Health           *health.Service
}

// Build prepares dependencies and routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	verifier, err := auth.NewVerifier(cfg.AuthSecret, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	extractor := extract.New(extract.Options{
		Binary:   cfg.PdftotextPath,
		Timeout:  cfg.ExtractTimeout,
		TempDir:  cfg.ExtractTempDir,
		Fallback: cfg.ExtractFallback,
	})

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		Verifier:  verifier,
		Extractor: extractor,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Verifier:        app.Verifier,
		KYCHandler:      app.KYCHandler,
		DocumentHandler: app.DocumentsHandler,
		Health:          app.Health,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err == nil {
		if err = db.RunMigrations(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var profileRepo profiles.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		profileRepo = &profiles.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		profileRepo = profiles.NewMemoryRepo()
	}

	docSvc := documents.NewService(docRepo)
	kycSvc := kyc.NewService(app.Store, app.Extractor, docSvc, profileRepo)

	app.DocumentsRepo = docRepo
	app.ProfilesRepo = profileRepo
	app.DocumentsService = docSvc
	app.KYCService = kycSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.KYCHandler = kyc.NewHandler(kycSvc)
	app.Health = health.NewService(app.DB, app.Config.ObjectStoreType, app.Config.PdftotextPath)

	if app.DocumentsHandler == nil || app.KYCHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}
