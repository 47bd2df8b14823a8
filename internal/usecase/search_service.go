package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/domain"
)

// Search service defaults
const (
	DefaultCacheMaxAge   = 6 * time.Hour
	DefaultSourceTimeout = 8 * time.Second
	DefaultHitsPerSource = 30
)

// Package-level compiled regex patterns for cache keys
var (
	cacheKeyStripRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpaceRegex = regexp.MustCompile(`\s+`)
)

// FallbackCatalog supplies curated listings for when no marketplace answers
type FallbackCatalog interface {
	Listings() []domain.SourceListings
}

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheMaxAge   time.Duration
	SourceTimeout time.Duration
	HitsPerSource int
	Pipeline      PipelineConfig
}

// SearchService fetches listings from every marketplace concurrently, ranks
// them and caches the result
type SearchService struct {
	sources       []domain.MarketplaceSource
	cache         domain.CacheRepository
	fallback      FallbackCatalog
	pipeline      *Pipeline
	queries       *QueryBuilder
	cacheMaxAge   time.Duration
	sourceTimeout time.Duration
	hitsPerSource int
	logger        *zap.Logger
}

// NewSearchService creates a new search service with dependencies. cache and
// fallback may be nil.
func NewSearchService(
	sources []domain.MarketplaceSource,
	cache domain.CacheRepository,
	fallback FallbackCatalog,
	config SearchServiceConfig,
	logger *zap.Logger,
) *SearchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxAge := config.CacheMaxAge
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}
	timeout := config.SourceTimeout
	if timeout <= 0 {
		timeout = DefaultSourceTimeout
	}
	hits := config.HitsPerSource
	if hits <= 0 {
		hits = DefaultHitsPerSource
	}

	return &SearchService{
		sources:       sources,
		cache:         cache,
		fallback:      fallback,
		pipeline:      NewPipeline(config.Pipeline, logger),
		queries:       NewQueryBuilder(logger),
		cacheMaxAge:   maxAge,
		sourceTimeout: timeout,
		hitsPerSource: hits,
		logger:        logger,
	}
}

// Pipeline exposes the ranking pipeline for offline use.
func (s *SearchService) Pipeline() *Pipeline {
	return s.pipeline
}

// Recommend validates diagnosis answers and returns the ranked products for
// them. Only invalid answers produce an error.
func (s *SearchService) Recommend(ctx context.Context, answers domain.PreferenceAnswers) (*domain.RankingResult, error) {
	prefs, err := ParsePreferences(answers)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, prefs, s.queries.ForPreferences(prefs)), nil
}

// SearchKeyword ranks products for a free keyword with neutral preferences.
func (s *SearchService) SearchKeyword(ctx context.Context, keyword string) *domain.RankingResult {
	return s.Search(ctx, NeutralPreferences(), s.queries.ForKeyword(keyword))
}

// Fallback ranks the curated catalog with neutral preferences.
func (s *SearchService) Fallback() *domain.RankingResult {
	return s.rankFallback(NeutralPreferences(), nil)
}

// Search returns ranked products for prefs and query terms.
// Flow: fresh cache -> live fetch -> rank -> cache; when every source fails
// it serves stale cache, then the fallback catalog. It never fails.
func (s *SearchService) Search(ctx context.Context, prefs domain.UserPreferenceProfile, terms []string) *domain.RankingResult {
	cacheKey := generateCacheKey(prefs, terms)

	if cached := s.getFromCache(ctx, cacheKey, true); cached != nil {
		cached.Metadata.ServedFrom = domain.ServedFromCache
		return cached
	}

	query := domain.SearchQuery{Keyword: strings.Join(terms, " "), Hits: s.hitsPerSource}
	batches, statuses := s.fetchAll(ctx, query)

	succeeded := 0
	for _, st := range statuses {
		if st.OK {
			succeeded++
		}
	}

	if succeeded == 0 {
		s.logger.Warn("all marketplace sources failed",
			zap.Strings("terms", terms),
			zap.Int("sources", len(statuses)),
		)
		if stale := s.getFromCache(ctx, cacheKey, false); stale != nil {
			stale.Metadata.ServedFrom = domain.ServedFromStale
			stale.Metadata.AllSourcesFailed = true
			stale.Metadata.Sources = statuses
			stale.Metadata.SuccessfulSources = 0
			return stale
		}
		result := s.rankFallback(prefs, terms)
		result.Metadata.Sources = statuses
		result.Metadata.AllSourcesFailed = len(statuses) > 0
		return result
	}

	result := s.pipeline.RankProducts(batches, prefs)
	result.Metadata.QueryTerms = terms
	result.Metadata.Sources = statuses
	result.Metadata.SuccessfulSources = succeeded
	result.Metadata.PartialFailure = succeeded < len(statuses)

	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		// A cache write failure never fails the request
		s.logger.Warn("cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}

	return result
}

// fetchAll queries every source concurrently. Each branch records its own
// outcome; a failing or slow source contributes no listings.
func (s *SearchService) fetchAll(ctx context.Context, query domain.SearchQuery) ([]domain.SourceListings, []domain.SourceStatus) {
	batches := make([]domain.SourceListings, len(s.sources))
	statuses := make([]domain.SourceStatus, len(s.sources))
	if len(s.sources) == 0 {
		return batches, statuses
	}

	p := pool.New().WithMaxGoroutines(len(s.sources))
	for i, source := range s.sources {
		p.Go(func() {
			platform := source.Platform()
			batches[i] = domain.SourceListings{Platform: platform}
			statuses[i] = domain.SourceStatus{Platform: platform}

			listings, err := s.fetchOne(ctx, source, query)
			if err != nil {
				s.logger.Warn("marketplace source unavailable",
					zap.String("platform", string(platform)),
					zap.Error(err),
				)
				statuses[i].Error = err.Error()
				return
			}

			batches[i].Listings = listings
			statuses[i].OK = true
			statuses[i].Count = len(listings)
		})
	}
	p.Wait()

	return batches, statuses
}

func (s *SearchService) fetchOne(ctx context.Context, source domain.MarketplaceSource, query domain.SearchQuery) (listings []domain.RawListing, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = &domain.SourceUnavailableError{Platform: source.Platform(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	listings, err = source.Search(ctx, query)
	if err != nil {
		return nil, &domain.SourceUnavailableError{Platform: source.Platform(), Err: err}
	}
	return listings, nil
}

func (s *SearchService) rankFallback(prefs domain.UserPreferenceProfile, terms []string) *domain.RankingResult {
	var batches []domain.SourceListings
	if s.fallback != nil {
		batches = s.fallback.Listings()
	}
	result := s.pipeline.RankProducts(batches, prefs)
	result.Metadata.ServedFrom = domain.ServedFromFallback
	result.Metadata.QueryTerms = terms
	return result
}

// generateCacheKey creates a normalized cache key from the profile and terms.
// Format: "ranking:{goal}:{exercise}:{body}:{budget}:{flavor}:{timing}:{lactose}:{type}:{terms}"
func generateCacheKey(prefs domain.UserPreferenceProfile, terms []string) string {
	return fmt.Sprintf("ranking:%s:%s:%s:%s:%s:%s:%t:%s:%s",
		prefs.Goal, prefs.ExerciseFrequency, prefs.BodyHint, prefs.Budget,
		prefs.FlavorPreference, prefs.Timing, prefs.LactoseIntolerant, prefs.ProteinType,
		normalizeForCacheKey(strings.Join(terms, " ")),
	)
}

// normalizeForCacheKey lowercases, folds widths and removes punctuation.
func normalizeForCacheKey(s string) string {
	if s == "" {
		return ""
	}
	result := foldText(s)
	result = cacheKeyStripRegex.ReplaceAllString(result, "")
	result = multipleSpaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// getFromCache returns the cached result for key. With requireFresh set,
// entries older than the configured max age are ignored.
func (s *SearchService) getFromCache(ctx context.Context, key string, requireFresh bool) *domain.RankingResult {
	if s.cache == nil {
		return nil
	}

	if requireFresh {
		fresh, err := s.cache.IsFresh(ctx, key, s.cacheMaxAge)
		if err != nil || !fresh {
			return nil
		}
	}

	blob, err := s.cache.Get(ctx, key)
	if err != nil {
		if !eris.Is(err, domain.ErrCacheMiss) {
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	var result domain.RankingResult
	if err := json.Unmarshal(blob, &result); err != nil || result.Products == nil {
		s.logger.Warn("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &result
}

// setInCache stores a ranking result as a JSON blob
func (s *SearchService) setInCache(ctx context.Context, key string, result *domain.RankingResult) error {
	if s.cache == nil {
		return nil
	}

	now := time.Now().UTC()
	stored := *result
	stored.Metadata.CachedAt = &now

	blob, err := json.Marshal(stored)
	if err != nil {
		return eris.Wrap(err, "marshal ranking result")
	}
	if err := s.cache.Set(ctx, key, blob); err != nil {
		return eris.Wrapf(err, "store %s", key)
	}
	return nil
}
