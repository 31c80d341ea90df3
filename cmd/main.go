// One-shot generator: runs the pipeline for a single topic from the command
// line and prints the markdown. Uses a scripted model when no API key is
// configured, so the wiring can be exercised offline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/baedyl/proaicontent/config"
	"github.com/baedyl/proaicontent/internal/draft"
	"github.com/baedyl/proaicontent/internal/faq"
	"github.com/baedyl/proaicontent/internal/llm"
	"github.com/baedyl/proaicontent/internal/pipeline"
	"github.com/baedyl/proaicontent/internal/serp"
	"github.com/baedyl/proaicontent/internal/structure"
	"github.com/baedyl/proaicontent/models"
)

func main() {
	var (
		configFile  = flag.String("config", "proaicontent", "Name of the yaml configuration file")
		topic       = flag.String("topic", "", "Topic to write about")
		target      = flag.Int("words", 1200, "Target word count")
		contentType = flag.String("type", "article", "Content type: article, review, comparison or promotional")
		useSerp     = flag.Bool("serp", false, "Use search grounding")
	)
	flag.Parse()

	if *topic == "" {
		log.Fatal("a -topic is required")
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Failed to load configuration %s: %v", *configFile, err)
		log.Println("Using default configuration...")
		cfg = config.GetDefaultConfig()
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	var client llm.Client
	if cfg.LLM.APIKey != "" {
		client, err = llm.NewOpenAIClient(&llm.Settings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
		if err != nil {
			logger.Fatal("failed to create llm client", zap.Error(err))
		}
	} else {
		logger.Warn("no api key configured, using the scripted model")
		client = llm.NewScriptedClient(cfg.LLM.Model,
			llm.Response{Text: "# Outline\n\n## Section", Finish: llm.FinishStop},
			llm.Response{Text: llm.TextOfWords(*target), Finish: llm.FinishStop},
		)
	}

	serpProvider := serp.NewClient(cfg.Serp.APIKey, cfg.Serp.BaseURL)
	orchestrator := pipeline.NewOrchestrator(
		serp.NewGroundingAgent(serpProvider, logger),
		structure.NewAgent(structure.NewFetcher(cfg.Pipeline.FetchTimeout), cfg.Pipeline.MaxCompetitorURLs, cfg.Pipeline.FetchDelay, logger),
		draft.NewAgent(client, draft.NewHumanizer(int64(os.Getpid())), logger),
		faq.NewAgent(client, logger),
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

	result, err := orchestrator.Generate(context.Background(), &models.GenerationRequest{
		Topic:           *topic,
		ContentType:     models.ContentType(*contentType),
		TargetWordCount: *target,
		UseSerpAnalysis: *useSerp,
	})
	if err != nil {
		logger.Fatal("generation failed", zap.Error(err))
	}

	fmt.Println(result.Content)
	logger.Info("done",
		zap.Int("wordCount", result.WordCount),
		zap.Int("attempts", result.Attempts),
		zap.Int64("tokens", result.TokensUsed.Total))
}
