// Package bootstrap assembles the application from config: dependencies,
// middleware stack, and routes.
package bootstrap

import (
	"os"

	"github.com/rs/zerolog"

	"triage_server/adapter/out/rules"
	"triage_server/config"
	"triage_server/core/agent/llm"
	"triage_server/core/port/out"
	"triage_server/core/service/classification"
	"triage_server/core/service/pipeline"
	"triage_server/infra/database"
	"triage_server/pkg/cache"
	"triage_server/pkg/logger"
)

// Dependencies holds all wired collaborators.
type Dependencies struct {
	Taxonomy  *classification.Taxonomy
	Pipeline  *pipeline.Pipeline
	Batch     *pipeline.BatchClassifier
	Cache     *cache.RedisCache
	Secondary *llm.SecondaryClassifier
}

// NewDependencies wires everything from config. Redis and the secondary
// classifier are optional: a missing REDIS_URL or API key degrades the
// pipeline, it never blocks startup.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	deps := &Dependencies{
		Taxonomy: classification.NewTaxonomy(),
	}

	// Redis result cache (optional)
	var resultCache out.Cache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, running without cache: %v", err)
		} else {
			cleanups = append(cleanups, func() { redisClient.Close() })
			deps.Cache = cache.NewRedisCache(redisClient, "triage")
			resultCache = deps.Cache
			logger.Info("Redis result cache initialized")
		}
	}

	// Secondary AI classifier (optional)
	var secondary out.SecondaryClassifier
	if cfg.OpenAIAPIKey != "" {
		client := llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.LLMBaseURL,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
		deps.Secondary = llm.NewSecondaryClassifier(client, deps.Taxonomy)
		secondary = deps.Secondary
		logger.Info("Secondary classifier initialized (model: %s)", cfg.LLMModel)
	} else {
		logger.Info("No OpenAI API key, secondary classifier disabled")
	}

	deps.Pipeline = pipeline.New(deps.Taxonomy, rules.NewCatalogAdapter(), resultCache, secondary, pipeline.Config{
		SecondaryTimeout: cfg.SecondaryTimeout,
		CacheTTL:         cfg.CacheTTL,
	})

	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	deps.Batch = pipeline.NewBatchClassifier(deps.Pipeline, cfg.BatchConcurrency, zl)

	return deps, cleanup, nil
}
