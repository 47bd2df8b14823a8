package usecase

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/domain"
)

// maxKeywordRunes bounds the keyword sent to the marketplaces
const maxKeywordRunes = 64

// baseProteinTerm is appended to keyword searches that do not mention protein
const baseProteinTerm = "プロテイン"

// Compiled patterns for keyword cleaning
var (
	// Weight and count patterns like "1kg", "3袋", "30食分"
	keywordQuantityPattern = regexp.MustCompile(`\d+(?:\.\d+)?\s*(?:kg|g|キロ|グラム|lbs?|食分|回分|袋|個|セット)`)

	// Orphaned punctuation and brackets
	keywordPunctPattern = regexp.MustCompile(`[,.!?;:'"()\[\]【】「」（）/|・]+`)
)

// keywordNoiseWords are marketplace marketing terms that narrow searches for no benefit
var keywordNoiseWords = map[string]bool{
	"送料無料": true,
	"ポイント": true,
	"クーポン": true,
	"セール":  true,
	"公式":   true,
	"正規品":  true,
	"あす楽":  true,
	"最安値":  true,
	"人気":   true,
	"おすすめ": true,
	"sale": true,
	"free": true,
	"best": true,
	"new":  true,
}

// typeTerms maps a protein-type preference to a marketplace search term
var typeTerms = map[domain.TypePreference]string{
	domain.TypePrefPlant:  "ソイプロテイン",
	domain.TypePrefWhey:   "ホエイプロテイン",
	domain.TypePrefCasein: "カゼインプロテイン",
}

// QueryBuilder derives marketplace search terms from preferences or a free keyword
type QueryBuilder struct {
	logger *zap.Logger
}

// NewQueryBuilder creates a new query builder
func NewQueryBuilder(logger *zap.Logger) *QueryBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryBuilder{logger: logger}
}

// ForPreferences returns the search terms for a diagnosis profile. Lactose
// intolerance steers the search to soy the same way a plant answer does.
func (b *QueryBuilder) ForPreferences(prefs domain.UserPreferenceProfile) []string {
	pref := prefs.ProteinType
	if prefs.LactoseIntolerant && pref != domain.TypePrefPlant {
		pref = domain.TypePrefPlant
	}
	if term, ok := typeTerms[pref]; ok {
		return []string{term}
	}
	return []string{baseProteinTerm}
}

// ForKeyword cleans a user keyword and makes sure the search stays on protein.
func (b *QueryBuilder) ForKeyword(keyword string) []string {
	cleaned := CleanKeyword(keyword)
	if cleaned == "" {
		return []string{baseProteinTerm}
	}

	terms := strings.Fields(cleaned)
	if !containsAny(foldText(cleaned), proteinAllowKeywords) {
		terms = append(terms, baseProteinTerm)
	}

	b.logger.Debug("keyword cleaned",
		zap.String("input", keyword),
		zap.Strings("terms", terms),
	)
	return terms
}

// CleanKeyword removes quantities, marketing words and stray punctuation,
// folds widths and limits the length.
func CleanKeyword(keyword string) string {
	if keyword == "" {
		return ""
	}

	cleaned := foldText(keyword)
	cleaned = keywordQuantityPattern.ReplaceAllString(cleaned, " ")
	cleaned = keywordPunctPattern.ReplaceAllString(cleaned, " ")

	var kept []string
	for _, word := range strings.Fields(cleaned) {
		if !keywordNoiseWords[word] {
			kept = append(kept, word)
		}
	}
	cleaned = strings.Join(kept, " ")

	if runes := []rune(cleaned); len(runes) > maxKeywordRunes {
		cleaned = string(runes[:maxKeywordRunes])
		if lastSpace := strings.LastIndex(cleaned, " "); lastSpace > len(cleaned)/2 {
			cleaned = cleaned[:lastSpace]
		}
	}

	return strings.TrimSpace(cleaned)
}
