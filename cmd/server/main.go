package main

import (
	"context"
	"os"
	"time"

	"iajuridica-backend/auth"
	"iajuridica-backend/config"
	"iajuridica-backend/generator"
	"iajuridica-backend/handlers"
	"iajuridica-backend/logging"
	"iajuridica-backend/repository"
	"iajuridica-backend/service"
	"iajuridica-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

func main() {
	dotenvErr := config.LoadDotEnv()

	cfg, err := config.FromEnv()
	if err != nil {
		bootLogger := logging.New(os.Stderr, "info", "console")
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if dotenvErr != nil {
		logger.Warn().Msg("no .env file found, using environment variables")
	}

	ctx := context.Background()

	// Initialize repositories
	var (
		caseRepo  repository.CaseRepository
		normIndex generator.NormIndex
	)
	switch cfg.Store {
	case config.StorePostgres:
		db, err := initPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize Postgres")
		}
		defer db.Close()
		caseRepo = repository.NewPostgresCaseRepository(db)
		normIndex = repository.NewNormRepository(db)
		logger.Info().Msg("Postgres connection established")
	default:
		caseRepo = repository.NewMemoryCaseRepository()
		logger.Info().Msg("using in-memory case registry")
	}

	// Initialize storage
	archive, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	logger.Info().Str("type", string(cfg.Storage.Type)).Msg("document archive initialized")

	gen, err := initGenerator(ctx, cfg, normIndex, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize generator")
	}

	authenticator, err := initAuthenticator(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize authenticator")
	}

	// Initialize services
	caseService := service.NewCaseService(
		service.WithCaseRepository(caseRepo),
		service.WithStorage(archive),
		service.WithDefaultMatter(cfg.DefaultMatter),
		service.WithLogger(logger),
	)
	researchService := service.NewResearchService(
		service.ResearchWithCaseRepository(caseRepo),
		service.ResearchWithGenerator(gen),
		service.ResearchWithLogger(logger),
	)

	gin.SetMode(gin.ReleaseMode)
	r := handlers.Router{
		Authenticator:   authenticator,
		CaseHandler:     handlers.NewCaseHandler(caseService),
		ResearchHandler: handlers.NewResearchHandler(researchService),
		Logger:          logger,
	}.Engine()

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

func initPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func initGenerator(ctx context.Context, cfg *config.Config, index generator.NormIndex, logger zerolog.Logger) (generator.Generator, error) {
	if cfg.Generator != config.GeneratorGemini {
		logger.Info().Msg("using static generator")
		return generator.NewStatic(index), nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	opts := []generator.GeminiOption{
		generator.GeminiWithRetry(cfg.GeminiMaxAttempts, 500*time.Millisecond),
		generator.GeminiWithLogger(logger),
	}
	if index != nil {
		opts = append(opts, generator.GeminiWithNormIndex(index))
	}

	logger.Info().Str("model", cfg.GeminiModel).Msg("Gemini client initialized")
	return generator.NewGemini(client, cfg.GeminiModel, opts...), nil
}

func initAuthenticator(cfg *config.Config) (*auth.Authenticator, error) {
	if cfg.APIBearerHash != "" {
		return auth.NewHashedAuthenticator(cfg.APIBearerHash)
	}
	return auth.NewAuthenticator(cfg.APIBearer)
}
