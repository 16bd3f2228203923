package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"go.uber.org/zap"

	"github.com/trilha-app/trilha-engine/pkg/auth"
	"github.com/trilha-app/trilha-engine/pkg/config"
	"github.com/trilha-app/trilha-engine/pkg/database"
	"github.com/trilha-app/trilha-engine/pkg/handlers"
	"github.com/trilha-app/trilha-engine/pkg/llm"
	"github.com/trilha-app/trilha-engine/pkg/logging"
	"github.com/trilha-app/trilha-engine/pkg/middleware"
	"github.com/trilha-app/trilha-engine/pkg/repositories"
	"github.com/trilha-app/trilha-engine/pkg/retry"
	"github.com/trilha-app/trilha-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := newLogger(cfg.Env)
	defer logger.Sync() //nolint:errcheck

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.Bool("ai_available", cfg.AI.IsAvailable()),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx := context.Background()

	db, err := retry.DoWithResult(ctx, retry.DefaultConfig(), func() (*database.DB, error) {
		return database.NewConnection(ctx, &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	if err := runMigrations(cfg, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.String("error", logging.SanitizeError(err)))
	}

	// The generative client is optional. Without credentials the roadmap
	// endpoints fall back to plain catalog-driven creation.
	var llmClient llm.LLMClient
	if cfg.AI.IsAvailable() {
		client, err := llm.NewClient(&llm.Config{
			Endpoint: cfg.AI.BaseURL,
			Model:    cfg.AI.Model,
			APIKey:   cfg.AI.APIKey,
		}, logger)
		if err != nil {
			logger.Fatal("failed to create llm client", zap.Error(err))
		}
		llmClient = client
		logger.Info("llm client configured",
			zap.String("endpoint", cfg.AI.BaseURL),
			zap.String("model", cfg.AI.Model))
	} else {
		logger.Warn("OPENAI_API_KEY not set; roadmap generation runs in degraded mode")
	}

	authMW := auth.NewMiddleware(cfg.Auth.TokenSecret, cfg.Auth.EnableVerification, logger)

	skillRepo := repositories.NewSkillRepository(db)
	roadmapRepo := repositories.NewRoadmapRepository(db, logger)
	resourceRepo := repositories.NewResourceRepository(db)

	roadmapService := services.NewRoadmapService(roadmapRepo, logger)
	generationService := services.NewRoadmapGenerationService(llmClient, skillRepo, roadmapRepo, resourceRepo, logger)
	suggestionService := services.NewSkillSuggestionService(llmClient, skillRepo, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSkillHandler(skillRepo, logger).RegisterRoutes(mux)
	handlers.NewRoadmapHandler(roadmapService, generationService, suggestionService, logger).RegisterRoutes(mux, authMW)

	addr := cfg.BindAddr + ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           middleware.RequestLogger(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting trilha-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

// runMigrations applies pending schema migrations through database/sql,
// which golang-migrate requires.
func runMigrations(cfg *config.Config, logger *zap.Logger) error {
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger)
}

func newLogger(env string) *zap.Logger {
	if env == "local" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return logger
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	return logger
}
