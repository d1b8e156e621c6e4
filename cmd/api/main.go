package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/gita-wisdom-query-api/internal/config"
	"github.com/gita-wisdom-query-api/internal/corpus"
	"github.com/gita-wisdom-query-api/internal/handlers"
	"github.com/gita-wisdom-query-api/internal/middleware"
	"github.com/gita-wisdom-query-api/internal/services"
	"github.com/gita-wisdom-query-api/pkg/embeddings"
	"github.com/gita-wisdom-query-api/pkg/generation"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := config.GetConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Load the corpus before serving; artifact inconsistency aborts startup
	ctx := context.Background()
	store, err := loadCorpus(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to load corpus", zap.Error(err))
	}
	logger.Info("corpus loaded",
		zap.Int("verses", store.Len()),
		zap.Int("dimension", store.Dimension()))
	if store.Len() > 0 && store.Dimension() != cfg.EmbeddingDimensions {
		logger.Warn("corpus dimension differs from EMBEDDING_DIMENSIONS",
			zap.Int("corpus", store.Dimension()),
			zap.Int("configured", cfg.EmbeddingDimensions))
	}

	// Build the embedding resolution chain
	providers, closers := buildProviders(ctx, cfg, logger)
	chain := embeddings.NewChain(providers,
		time.Duration(cfg.EmbeddingTimeoutSeconds)*time.Second, logger)

	generator := generation.NewClient(cfg.HFAPIURL, cfg.GenerationModel, cfg.HFAPIToken,
		cfg.GenerationMaxNewTokens, cfg.GenerationTemperature,
		time.Duration(cfg.GenerationTimeoutSeconds)*time.Second)

	answerSvc := services.NewAnswerService(store, chain, generator, cfg.TopK, logger)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware())

	// Register handlers
	root := e.Group("")

	healthHandler := handlers.NewHealthHandler(store)
	healthHandler.RegisterRoutes(root)

	queryHandler := handlers.NewQueryHandler(answerSvc)
	queryHandler.RegisterRoutes(root)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"name":    cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logger.Info("starting server",
			zap.String("name", cfg.APITitle),
			zap.String("version", cfg.APIVersion),
			zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down server", zap.Error(err))
	}

	for _, c := range closers {
		if err := c(); err != nil {
			logger.Error("error closing embedding provider", zap.Error(err))
		}
	}
}

func loadCorpus(ctx context.Context, cfg *config.Config) (*corpus.Store, error) {
	switch cfg.CorpusBackend {
	case "sqlite":
		return corpus.LoadSQLite(ctx, cfg.CorpusDBPath)
	default:
		return corpus.LoadJSON(cfg.MetadataPath, cfg.EmbeddingsPath)
	}
}

// buildProviders constructs the configured embedding providers in chain
// order. A provider that cannot be constructed (missing GCP config, bad
// name) disables that link only; the rest of the chain still serves.
func buildProviders(ctx context.Context, cfg *config.Config, logger *zap.Logger) ([]embeddings.Provider, []func() error) {
	var providers []embeddings.Provider
	var closers []func() error

	for _, name := range cfg.EmbeddingProviders {
		switch name {
		case "huggingface":
			providers = append(providers,
				embeddings.NewHuggingFaceProvider(cfg.HFAPIURL, cfg.EmbeddingModel, cfg.HFAPIToken))
		case "vertex":
			vertex, err := embeddings.NewVertexProvider(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.VertexModel)
			if err != nil {
				logger.Warn("skipping vertex embedding provider", zap.Error(err))
				continue
			}
			providers = append(providers, vertex)
			closers = append(closers, vertex.Close)
		case "custom":
			providers = append(providers,
				embeddings.NewCustomProvider(cfg.EmbeddingServiceURL))
		default:
			logger.Warn("unknown embedding provider", zap.String("provider", name))
		}
	}

	if len(providers) == 0 {
		logger.Warn("no embedding providers configured, all queries will use lexical ranking")
	}
	return providers, closers
}
