package usecase

import (
	"errors"
	"slices"
	"sort"

	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/domain"
)

// Pipeline defaults
const (
	DefaultPageSize       = 10
	DefaultTypeMatchQuota = 6
	DefaultOtherQuota     = 4
)

// PipelineConfig holds configuration for the ranking pipeline
type PipelineConfig struct {
	PageSize         int
	TypeMatchQuota   int
	OtherQuota       int
	DescriptionLimit int
	Filter           FilterConfig
	Scorer           ScorerConfig
}

// Pipeline turns raw listings from several marketplaces into one ranked page:
// normalize, filter, dedupe, score, sort, diversify, truncate.
type Pipeline struct {
	normalizer     *Normalizer
	filter         *ValidityFilter
	scorer         *Scorer
	pageSize       int
	typeMatchQuota int
	otherQuota     int
	logger         *zap.Logger
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(config PipelineConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	typeQuota, otherQuota := config.TypeMatchQuota, config.OtherQuota
	if typeQuota <= 0 && otherQuota <= 0 {
		typeQuota, otherQuota = DefaultTypeMatchQuota, DefaultOtherQuota
	}

	return &Pipeline{
		normalizer:     NewNormalizer(NormalizerConfig{DescriptionLimit: config.DescriptionLimit}),
		filter:         NewValidityFilter(config.Filter),
		scorer:         NewScorer(config.Scorer),
		pageSize:       pageSize,
		typeMatchQuota: typeQuota,
		otherQuota:     otherQuota,
		logger:         logger,
	}
}

// RankProducts runs the whole pipeline over the listings of every source. A
// malformed listing is logged and skipped; it never aborts the batch.
func (p *Pipeline) RankProducts(batches []domain.SourceListings, prefs domain.UserPreferenceProfile) *domain.RankingResult {
	meta := domain.RankingMetadata{ServedFrom: domain.ServedFromLive}

	var valid []domain.Product
	for _, batch := range batches {
		meta.TotalFound += len(batch.Listings)
		for _, raw := range batch.Listings {
			product, fullDescription, err := p.normalizer.normalize(raw, batch.Platform)
			if err != nil {
				var malformed *domain.MalformedListingError
				if errors.As(err, &malformed) {
					p.logger.Debug("dropping malformed listing",
						zap.String("platform", string(malformed.Platform)),
						zap.String("item_code", malformed.ItemCode),
						zap.String("field", malformed.Field),
					)
					continue
				}
				p.logger.Warn("normalize failed", zap.Error(err))
				continue
			}
			meta.Normalized++

			if ok, reason := p.filter.CheckListing(product, fullDescription); !ok {
				p.logger.Debug("filtered listing",
					zap.String("id", product.ID),
					zap.String("reason", reason),
				)
				continue
			}
			valid = append(valid, *product)
		}
	}
	meta.Valid = len(valid)

	unique := Dedupe(valid)
	meta.Unique = len(unique)

	scored := make([]domain.ScoredProduct, 0, len(unique))
	for _, product := range unique {
		scored = append(scored, p.scorer.Evaluate(product, prefs))
	}
	sortByScore(scored)

	ranked := p.diversify(scored, prefs.PreferredTypes())
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return &domain.RankingResult{Products: ranked, Metadata: meta}
}

// diversify truncates sorted to a page. When preferred types are known it
// takes up to typeMatchQuota matching products and otherQuota others, fills
// any shortfall from the remainder in score order, and re-sorts the page.
func (p *Pipeline) diversify(sorted []domain.ScoredProduct, preferred []domain.ProteinType) []domain.ScoredProduct {
	if len(preferred) == 0 {
		return slices.Clone(sorted[:min(len(sorted), p.pageSize)])
	}

	page := make([]domain.ScoredProduct, 0, p.pageSize)
	var rest []domain.ScoredProduct
	matched, others := 0, 0
	for _, sp := range sorted {
		isMatch := slices.Contains(preferred, sp.ProteinType)
		switch {
		case isMatch && matched < p.typeMatchQuota && len(page) < p.pageSize:
			page = append(page, sp)
			matched++
		case !isMatch && others < p.otherQuota && len(page) < p.pageSize:
			page = append(page, sp)
			others++
		default:
			rest = append(rest, sp)
		}
	}
	for _, sp := range rest {
		if len(page) >= p.pageSize {
			break
		}
		page = append(page, sp)
	}

	sortByScore(page)
	return page
}

// sortByScore orders by score descending, then review count descending.
func sortByScore(products []domain.ScoredProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Score != products[j].Score {
			return products[i].Score > products[j].Score
		}
		return products[i].ReviewCount > products[j].ReviewCount
	})
}
