// Package app wires configuration into a ready search service for the
// server and CLI entry points.
package app

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/config"
	"github.com/proteinfinder/backend/internal/domain"
	"github.com/proteinfinder/backend/internal/infrastructure/cache"
	"github.com/proteinfinder/backend/internal/infrastructure/fallback"
	"github.com/proteinfinder/backend/internal/infrastructure/marketplace"
	"github.com/proteinfinder/backend/internal/usecase"
)

// PipelineConfig maps the pipeline and filter sections onto the ranking pipeline.
func PipelineConfig(cfg *config.Config) usecase.PipelineConfig {
	return usecase.PipelineConfig{
		PageSize:       cfg.Pipeline.PageSize,
		TypeMatchQuota: cfg.Pipeline.TypeMatchQuota,
		OtherQuota:     cfg.Pipeline.OtherQuota,
		Filter: usecase.FilterConfig{
			MinProteinGrams:    cfg.Filter.MinProteinGrams,
			MinPricePerServing: cfg.Filter.MinPricePerServing,
			MaxPricePerServing: cfg.Filter.MaxPricePerServing,
			RequireReviews:     cfg.Filter.RequireReviews,
			SkipQuantityToken:  !cfg.Filter.RequireWeightToken,
		},
		Scorer: usecase.DefaultScorerConfig(),
	}
}

// NewCache builds the configured cache. The returned func releases it.
func NewCache(cfg *config.Config, logger *zap.Logger) (domain.CacheRepository, func(), error) {
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.Retention, logger)
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() {
			if err := redisCache.Close(); err != nil {
				logger.Warn("closing redis cache", zap.Error(err))
			}
		}, nil
	case "memory", "":
		memoryCache := cache.NewMemoryCache(cfg.Cache.Retention)
		return memoryCache, memoryCache.Close, nil
	}
	return nil, nil, eris.Errorf("unknown cache type %q", cfg.Cache.Type)
}

// NewSources builds a client for every marketplace that has credentials.
func NewSources(cfg *config.Config, logger *zap.Logger) []domain.MarketplaceSource {
	debug := cfg.Server.Environment == "development"
	var sources []domain.MarketplaceSource

	if cfg.HasRakuten() {
		client := marketplace.NewRakutenClient(marketplace.RakutenConfig{
			ApplicationID:     cfg.Rakuten.ApplicationID,
			AffiliateID:       cfg.Rakuten.AffiliateID,
			BaseURL:           cfg.Rakuten.BaseURL,
			RequestsPerSecond: cfg.RateLimit.Marketplace,
		}, logger)
		client.SetDebug(debug)
		sources = append(sources, client)
	}

	if cfg.HasYahoo() {
		client := marketplace.NewYahooClient(marketplace.YahooConfig{
			AppID:             cfg.Yahoo.AppID,
			BaseURL:           cfg.Yahoo.BaseURL,
			RequestsPerSecond: cfg.RateLimit.Marketplace,
		}, logger)
		client.SetDebug(debug)
		sources = append(sources, client)
	}

	return sources
}

// NewSearchService assembles sources, cache and fallback catalog.
func NewSearchService(cfg *config.Config, logger *zap.Logger) (*usecase.SearchService, func(), error) {
	store, closeCache, err := NewCache(cfg, logger)
	if err != nil {
		return nil, nil, eris.Wrap(err, "initialize cache")
	}

	sources := NewSources(cfg, logger)
	for _, source := range sources {
		logger.Info("marketplace configured", zap.String("platform", string(source.Platform())))
	}

	service := usecase.NewSearchService(
		sources,
		store,
		fallback.NewCatalog(),
		usecase.SearchServiceConfig{
			CacheMaxAge:   cfg.Cache.MaxAge,
			SourceTimeout: cfg.Pipeline.SourceTimeout,
			HitsPerSource: cfg.Pipeline.HitsPerSource,
			Pipeline:      PipelineConfig(cfg),
		},
		logger,
	)
	return service, closeCache, nil
}
