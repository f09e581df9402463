package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/course-backend/internal/api"
	courseapi "github.com/futig/course-backend/internal/api/course"
	"github.com/futig/course-backend/internal/config"
	"github.com/futig/course-backend/internal/document"
	"github.com/futig/course-backend/internal/integration/llm"
	"github.com/futig/course-backend/internal/outline"
	"github.com/futig/course-backend/internal/pkg/formatter"
	"github.com/futig/course-backend/internal/pkg/validator"
	"github.com/futig/course-backend/internal/prompt"
	"github.com/futig/course-backend/internal/repository"
	"github.com/futig/course-backend/internal/session"
	"github.com/futig/course-backend/internal/usecase/course"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Pipeline is the wired course generation use case with the resources it owns
type Pipeline struct {
	Usecase *course.CourseUsecase
	Config  *config.Config
	Logger  *zap.Logger

	db *pgxpool.Pool
}

// Close releases the database pool, if any, and flushes the logger
func (p *Pipeline) Close() {
	if p.db != nil {
		p.Logger.Info("Closing database connections")
		p.db.Close()
	}
	_ = p.Logger.Sync()
}

// Build wires the HTTP service. The environment comes from the -env flag.
func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	pipeline, err := buildPipeline(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	logger := pipeline.Logger

	// Setup API handlers
	courseHandler := courseapi.NewHandler(pipeline.Usecase)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(courseHandler, cfg.RequestTimeout, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server. Pipeline steps run inside the request, so writes may take as long as RequestTimeout.
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:   server,
		pipeline: pipeline,
		logger:   logger,
	}, nil
}

// BuildPipeline wires the use case alone, for callers that parse their own flags
func BuildPipeline(environment string) (*Pipeline, error) {
	cfg, err := config.Load(environment)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return buildPipeline(context.Background(), cfg)
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	logger, err := setupLogger(cfg.LogLevel, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("mode", string(cfg.PipelineCfg.Mode)),
		zap.String("history_backend", cfg.HistoryCfg.Backend),
	)

	// Chat history storage
	var (
		historyRepo repository.HistoryRepository
		db          *pgxpool.Pool
	)
	switch cfg.HistoryCfg.Backend {
	case config.HistoryBackendPostgres:
		db, err = setupDatabase(ctx, &cfg.HistoryCfg, logger)
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}

		logger.Info("Running database migrations")
		if err := repository.RunMigrations(cfg.HistoryCfg.DatabaseURL); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		historyRepo = repository.NewHistoryPostgres(db)
	default:
		historyRepo = repository.NewHistoryFile(cfg.HistoryCfg.FilePath)
	}
	logger.Info("Chat history repository initialized")

	// Initialize generation connector (with mock support)
	var llmConnector course.LLMConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the language model")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the language model", zap.String("model", cfg.LLMConnectorCfg.Model))
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, cfg.APIKey, logger)
	}
	if !llmConnector.HasCredential() {
		logger.Warn("OPENAI_API_KEY is not set, generation calls are refused until a key is supplied through PUT /credentials")
	}

	// Prompting, parsing and rendering
	prompts := prompt.NewBuilder(cfg.PipelineCfg.Mode)
	parser := outline.NewMarkerParser(prompts.ChapterMarkers()...)
	phrases := cfg.PipelineCfg.CleanupPhrases
	if len(phrases) == 0 {
		phrases = outline.DefaultBoilerplate
	}
	cleaner := outline.NewCleaner(phrases)

	formatters := formatter.NewFactory(
		formatter.WithEncoding(formatter.Encoding(cfg.DocumentCfg.Encoding)),
		formatter.WithFontPath(cfg.DocumentCfg.FontPath),
		formatter.WithLogger(logger),
	)
	assembler := document.NewAssembler(document.Config{
		OutputDir:  cfg.DocumentCfg.OutputDir,
		WriteFiles: cfg.DocumentCfg.WriteFiles,
	}, prompts.Labels(), formatters, logger)

	registry := session.NewRegistry(cfg.SessionCfg.TTL, cfg.SessionCfg.CleanupInterval, logger)

	// Initialize use case
	courseUC := course.NewUsecase(
		llmConnector,
		prompts,
		parser,
		cleaner,
		assembler,
		registry,
		historyRepo,
		validator.NewCourseValidator(cfg.PipelineCfg.Mode),
		course.Config{
			QuizQuestions:      cfg.PipelineCfg.QuizQuestions,
			ChapterConcurrency: cfg.PipelineCfg.ChapterConcurrency,
		},
		logger,
	)
	logger.Info("Use cases initialized")

	return &Pipeline{
		Usecase: courseUC,
		Config:  cfg,
		Logger:  logger,
		db:      db,
	}, nil
}
