package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/config"
	"github.com/baedyl/proaicontent/internal/draft"
	"github.com/baedyl/proaicontent/internal/faq"
	"github.com/baedyl/proaicontent/internal/ledger"
	"github.com/baedyl/proaicontent/internal/llm"
	"github.com/baedyl/proaicontent/internal/pipeline"
	"github.com/baedyl/proaicontent/internal/serp"
	"github.com/baedyl/proaicontent/internal/store"
	"github.com/baedyl/proaicontent/internal/structure"
	"github.com/baedyl/proaicontent/models"
	"github.com/baedyl/proaicontent/pkg/api"
)

func main() {
	var (
		configFile = flag.String("config", "proaicontent", "Name of the yaml configuration file")
	)
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Failed to load configuration %s: %v", *configFile, err)
		log.Println("Using default configuration...")
		cfg = config.GetDefaultConfig()
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	llmClient, err := llm.NewOpenAIClient(&llm.Settings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		logger.Fatal("failed to create llm client", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host,
		Username: cfg.Redis.User,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	mongoStore, err := store.NewMongoStore(ctx, &cfg.Mongo)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	defer mongoStore.Disconnect(ctx)

	journal, err := store.NewPostgresJournal(ctx, &cfg.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer journal.Close()

	serpProvider := serp.NewCachedProvider(
		serp.NewClient(cfg.Serp.APIKey, cfg.Serp.BaseURL),
		redisClient, cfg.Serp.CacheTTL, logger)

	orchestrator := pipeline.NewOrchestrator(
		serp.NewGroundingAgent(serpProvider, logger),
		structure.NewAgent(structure.NewFetcher(cfg.Pipeline.FetchTimeout), cfg.Pipeline.MaxCompetitorURLs, cfg.Pipeline.FetchDelay, logger),
		draft.NewAgent(llmClient, draft.NewHumanizer(int64(os.Getpid())), logger),
		faq.NewAgent(llmClient, logger),
		pipeline.NewSerpVideoFinder(serpProvider),
		pipeline.NewStaticCatalog(),
		pipeline.Options{
			MaxAttempts:       cfg.Pipeline.MaxAttempts,
			TolerancePct:      cfg.Pipeline.TolerancePct,
			DegradeWidenPct:   cfg.Pipeline.DegradeWidenPct,
			Bounds:            models.WordRange{Min: cfg.Pipeline.MinWordCount, Max: cfg.Pipeline.MaxWordCount},
			MaxCompetitorURLs: cfg.Pipeline.MaxCompetitorURLs,
		},
		logger,
	)

	generateAPI := api.NewGenerateAPI(
		orchestrator,
		ledger.NewRedisLedger(redisClient),
		mongoStore,
		journal,
		api.NewRedisRateLimiter(redisClient, cfg.Server.RequestsPerMin),
		api.NewStaticVerifier(tokensFromEnv()),
		cfg.Pipeline.CreditsPerWord,
		logger,
	)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.RequestTimeout,
		WriteTimeout: cfg.Server.RequestTimeout,
	})
	generateAPI.RegisterRoutes(app)

	go func() {
		if err := app.Listen(cfg.Server.HTTPAddr); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()
	logger.Info("server listening", zap.String("addr", cfg.Server.HTTPAddr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

// tokensFromEnv reads API_TOKENS as "token1:user1,token2:user2".
func tokensFromEnv() map[string]string {
	tokens := make(map[string]string)
	raw := os.Getenv("API_TOKENS")
	if raw == "" {
		return tokens
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			tokens[parts[0]] = parts[1]
		}
	}
	return tokens
}
