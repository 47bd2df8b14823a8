package usecase

import (
	"strings"

	"github.com/proteinfinder/backend/internal/domain"
)

// Filter defaults. The band is the most permissive of the thresholds that were
// in use: 8g protein floor and 20-500 per serving.
const (
	DefaultMinProteinGrams    = 8.0
	DefaultMinPricePerServing = 20
	DefaultMaxPricePerServing = 500
)

// proteinAllowKeywords must appear in the title or description
var proteinAllowKeywords = []string{
	"protein", "プロテイン",
	"whey", "ホエイ",
	"soy", "ソイ",
	"casein", "カゼイン",
	"wpi", "isolate", "アイソレート",
	"pea protein", "ピープロテイン", "plant", "植物性",
}

// productDenyKeywords reject accessories and unrelated goods. A deny hit wins
// over any allow hit.
var productDenyKeywords = []string{
	// accessories
	"シェイカー", "シェーカー", "shaker", "ボトル", "bottle", "スクープ", "scoop",
	"計量スプーン", "プロテインケース", "ピルケース", "ファンネル",
	// non-powder protein foods
	"プロテインバー", "protein bar", "ウエハース", "チップス", "ゼリー", "jelly",
	// unrelated supplements. Amino acids, enzymes and lactic acid bacteria are
	// common whey ingredients, so only their product forms are listed.
	"bcaaサプリ", "bcaaパウダー", "bcaa powder", "eaaサプリ", "eaaパウダー", "eaa powder",
	"hmbサプリ", "hmbタブレット", "酵素サプリ", "酵素ドリンク", "enzyme supplement",
	"乳酸菌サプリ", "乳酸菌タブレット",
	"クレアチン", "creatine", "グルタミン", "glutamine",
	"マルチビタミン", "multivitamin", "青汁",
	// apparel
	"tシャツ", "t-shirt", "ウェア", "パーカー", "タンクトップ", "レギンス",
	// books and media
	"書籍", "雑誌", "文庫", "ムック", "book", "dvd",
	// decorative goods
	"ポスター", "poster", "ステッカー", "sticker", "キーホルダー", "フィギュア",
}

// FilterConfig holds the thresholds of the validity filter
type FilterConfig struct {
	MinProteinGrams    float64
	MinPricePerServing int
	MaxPricePerServing int
	RequireReviews     bool
	// SkipQuantityToken turns off the weight/quantity token rule
	SkipQuantityToken  bool
}

// DefaultFilterConfig returns the unified default thresholds.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinProteinGrams:    DefaultMinProteinGrams,
		MinPricePerServing: DefaultMinPricePerServing,
		MaxPricePerServing: DefaultMaxPricePerServing,
		RequireReviews:     false,
	}
}

// Rejection reasons reported by ValidityFilter.Check
const (
	RejectNoProteinKeyword = "no protein keyword"
	RejectDenyKeyword      = "deny-listed keyword"
	RejectLowProtein       = "protein below floor"
	RejectPriceBand        = "price per serving out of band"
	RejectNoReviews        = "no reviews"
	RejectNoQuantity       = "no weight or quantity in title"
)

// ValidityFilter decides whether a normalized product is a protein powder
type ValidityFilter struct {
	cfg FilterConfig
}

// NewValidityFilter creates a filter. Non-positive thresholds fall back to the defaults.
func NewValidityFilter(cfg FilterConfig) *ValidityFilter {
	if cfg.MinProteinGrams <= 0 {
		cfg.MinProteinGrams = DefaultMinProteinGrams
	}
	if cfg.MinPricePerServing <= 0 {
		cfg.MinPricePerServing = DefaultMinPricePerServing
	}
	if cfg.MaxPricePerServing <= 0 {
		cfg.MaxPricePerServing = DefaultMaxPricePerServing
	}
	return &ValidityFilter{cfg: cfg}
}

// Config returns the effective thresholds.
func (f *ValidityFilter) Config() FilterConfig {
	return f.cfg
}

// IsValid reports whether p passes every rule.
func (f *ValidityFilter) IsValid(p *domain.Product) bool {
	ok, _ := f.Check(p)
	return ok
}

// Check evaluates the rules in order and returns the first failing reason.
// Keywords are matched against the product's display description.
func (f *ValidityFilter) Check(p *domain.Product) (bool, string) {
	if p == nil {
		return false, RejectNoProteinKeyword
	}
	return f.CheckListing(p, p.Description)
}

// CheckListing is Check with the keyword rules applied to description, the
// full listing text, instead of the truncated copy kept on the product.
func (f *ValidityFilter) CheckListing(p *domain.Product, description string) (bool, string) {
	if p == nil {
		return false, RejectNoProteinKeyword
	}

	text := foldText(p.Name + " " + description)
	if containsAny(text, productDenyKeywords) {
		return false, RejectDenyKeyword
	}
	if !containsAny(text, proteinAllowKeywords) {
		return false, RejectNoProteinKeyword
	}
	if p.Nutrition.ProteinGrams < f.cfg.MinProteinGrams {
		return false, RejectLowProtein
	}
	if p.PricePerServing < f.cfg.MinPricePerServing || p.PricePerServing > f.cfg.MaxPricePerServing {
		return false, RejectPriceBand
	}
	if f.cfg.RequireReviews && p.ReviewCount < 1 {
		return false, RejectNoReviews
	}
	if !f.cfg.SkipQuantityToken && !HasQuantityToken(p.Name) {
		return false, RejectNoQuantity
	}
	return true, ""
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
