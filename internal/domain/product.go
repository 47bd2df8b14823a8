package domain

// ProteinType is the coarse classification of a protein product
type ProteinType string

const (
	ProteinWhey   ProteinType = "Whey"
	ProteinSoy    ProteinType = "Soy"
	ProteinCasein ProteinType = "Casein"
	ProteinWPI    ProteinType = "WPI"
	ProteinPlant  ProteinType = "Plant"
	ProteinOther  ProteinType = "Other"
)

// Platform identifies the marketplace a listing came from
type Platform string

const (
	PlatformRakuten Platform = "rakuten"
	PlatformYahoo   Platform = "yahoo"
	PlatformAmazon  Platform = "amazon"
)

// IsValid reports whether p is a known marketplace.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformRakuten, PlatformYahoo, PlatformAmazon:
		return true
	}
	return false
}

// RawListing is a marketplace search result mapped onto a common shape by a
// per-source adapter. It is read-only input to the normalizer.
type RawListing struct {
	ItemCode      string   `json:"itemCode,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Price         int      `json:"price"` // minor currency unit
	ReviewCount   int      `json:"reviewCount"`
	ReviewAverage float64  `json:"reviewAverage"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
	ShopName      string   `json:"shopName,omitempty"`
	ItemURL       string   `json:"itemUrl,omitempty"`
}

// SourceListings tags a batch of raw listings with the platform they came from
type SourceListings struct {
	Platform Platform     `json:"platform"`
	Listings []RawListing `json:"listings"`
}

// Product is the canonical, source-agnostic protein product
type Product struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Brand           string         `json:"brand"`
	ProteinType     ProteinType    `json:"proteinType"`
	Flavor          string         `json:"flavor"`
	Nutrition       NutritionFacts `json:"nutrition"`
	PriceMinorUnit  int            `json:"price"`
	PricePerServing int            `json:"pricePerServing"`
	ReviewAverage   float64        `json:"reviewAverage"`
	ReviewCount     int            `json:"reviewCount"`
	SourcePlatform  Platform       `json:"sourcePlatform"`
	ShopName        string         `json:"shopName,omitempty"`
	PurchaseURL     string         `json:"purchaseUrl"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	Description     string         `json:"description,omitempty"`
}

// ScoredProduct is a Product with its match score and position in a ranking
type ScoredProduct struct {
	Product
	Score       float64 `json:"score"`
	Rank        int     `json:"rank,omitempty"`
	MatchReason string  `json:"matchReason,omitempty"`
}
