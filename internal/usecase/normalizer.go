package usecase

import (
	"math"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"github.com/proteinfinder/backend/internal/domain"
)

// DefaultDescriptionLimit is the display length of a product description in runes
const DefaultDescriptionLimit = 150

const ellipsis = "…"

// listingNamespace seeds the name-based ids of listings without an item code
var listingNamespace = uuid.MustParse("6f1c2a9e-3b1d-5c8e-9a47-2d0f6b8e4c13")

var (
	breakTagRegex   = regexp.MustCompile(`(?i)<\s*(br|/p|/div|/li)\s*/?\s*>`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// imageUpgradeRule rewrites a thumbnail URL of a known image host to a
// higher-resolution variant
type imageUpgradeRule struct {
	pattern     *regexp.Regexp
	replacement string
}

var imageUpgradeRules = []imageUpgradeRule{
	// Rakuten thumbnails carry the size in the _ex parameter
	{regexp.MustCompile(`^(https?://thumbnail\.image\.rakuten\.co\.jp/.*[?&]_ex=)\d+x\d+`), "${1}500x500"},
	// Yahoo! Shopping encodes the size as a path letter, n is 600px
	{regexp.MustCompile(`^(https?://item-shopping\.c\.yimg\.jp/i/)[a-m](/)`), "${1}n${2}"},
	// Amazon size suffix such as ._AC_SL160_.
	{regexp.MustCompile(`^(https?://[^/]*media-amazon\.com/.*\._AC_S[LXY])\d+(_\.)`), "${1}1000${2}"},
}

// NormalizerConfig holds configuration for the normalizer
type NormalizerConfig struct {
	DescriptionLimit int
}

// Normalizer converts raw marketplace listings into canonical products
type Normalizer struct {
	descriptionLimit int
}

// NewNormalizer creates a normalizer with the given configuration
func NewNormalizer(config NormalizerConfig) *Normalizer {
	limit := config.DescriptionLimit
	if limit <= 0 {
		limit = DefaultDescriptionLimit
	}
	return &Normalizer{descriptionLimit: limit}
}

// Normalize maps one raw listing onto a Product. It is a pure transform: the
// same listing always yields the same Product. Listings without a title or a
// positive price return a *domain.MalformedListingError.
func (n *Normalizer) Normalize(raw domain.RawListing, platform domain.Platform) (*domain.Product, error) {
	product, _, err := n.normalize(raw, platform)
	return product, err
}

// normalize also returns the full HTML-stripped description, before
// truncation, for the validity filter.
func (n *Normalizer) normalize(raw domain.RawListing, platform domain.Platform) (*domain.Product, string, error) {
	title := whitespaceRegex.ReplaceAllString(strings.TrimSpace(raw.Title), " ")
	switch {
	case !platform.IsValid():
		return nil, "", &domain.MalformedListingError{Platform: platform, ItemCode: raw.ItemCode, Field: "platform"}
	case title == "":
		return nil, "", &domain.MalformedListingError{Platform: platform, ItemCode: raw.ItemCode, Field: "title"}
	case raw.Price <= 0:
		return nil, "", &domain.MalformedListingError{Platform: platform, ItemCode: raw.ItemCode, Field: "price"}
	}

	plainDescription := StripHTML(raw.Description)
	nutrition := ExtractNutrition(title, plainDescription)
	if nutrition.Servings <= 0 {
		nutrition.Servings = DefaultServings
	}

	return &domain.Product{
		ID:              listingID(raw, platform, title),
		Name:            title,
		Brand:           ExtractBrand(title),
		ProteinType:     ExtractProteinType(title, plainDescription),
		Flavor:          ExtractFlavor(title),
		Nutrition:       nutrition,
		PriceMinorUnit:  raw.Price,
		PricePerServing: PricePerServing(raw.Price, nutrition.Servings),
		ReviewAverage:   clampReviewAverage(raw.ReviewAverage),
		ReviewCount:     max(raw.ReviewCount, 0),
		SourcePlatform:  platform,
		ShopName:        strings.TrimSpace(raw.ShopName),
		PurchaseURL:     raw.ItemURL,
		ImageURL:        primaryImage(raw.ImageURLs),
		Description:     truncateRunes(plainDescription, n.descriptionLimit),
	}, plainDescription, nil
}

// PricePerServing divides price by servings, rounding to the nearest unit.
// Non-positive servings are treated as DefaultServings.
func PricePerServing(price, servings int) int {
	if servings <= 0 {
		servings = DefaultServings
	}
	return int(math.Round(float64(price) / float64(servings)))
}

// UpgradeImageURL rewrites thumbnails of known image hosts to a larger size
// and leaves any other URL untouched.
func UpgradeImageURL(imageURL string) string {
	for _, rule := range imageUpgradeRules {
		if rule.pattern.MatchString(imageURL) {
			return rule.pattern.ReplaceAllString(imageURL, rule.replacement)
		}
	}
	return imageURL
}

// StripHTML returns the text content of an HTML fragment with whitespace collapsed.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	fragment = breakTagRegex.ReplaceAllString(fragment, " ")

	var text string
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		text = htmlTagRegex.ReplaceAllString(fragment, " ")
	} else {
		text = doc.Text()
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

func listingID(raw domain.RawListing, platform domain.Platform, title string) string {
	code := strings.TrimSpace(raw.ItemCode)
	if code == "" {
		seed := string(platform) + "|" + raw.ItemURL + "|" + title
		code = uuid.NewSHA1(listingNamespace, []byte(seed)).String()
	}
	return string(platform) + "_" + code
}

func primaryImage(urls []string) string {
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			return UpgradeImageURL(u)
		}
	}
	return ""
}

func clampReviewAverage(avg float64) float64 {
	return math.Min(math.Max(avg, 0), 5)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit])) + ellipsis
}
