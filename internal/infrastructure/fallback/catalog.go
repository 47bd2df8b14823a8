// Package fallback holds a small curated catalog served when no marketplace
// answers and nothing is cached.
package fallback

import "github.com/proteinfinder/backend/internal/domain"

// Catalog is a static, curated set of well-known protein products. Prices are
// typical street prices and only indicative.
type Catalog struct {
	listings []domain.SourceListings
}

// NewCatalog returns the built-in catalog.
func NewCatalog() *Catalog {
	return &Catalog{listings: []domain.SourceListings{
		{Platform: domain.PlatformRakuten, Listings: curatedListings}},
	}
}

// Listings returns the curated listings tagged with their platform.
func (c *Catalog) Listings() []domain.SourceListings {
	out := make([]domain.SourceListings, len(c.listings))
	for i, batch := range c.listings {
		out[i] = domain.SourceListings{
			Platform: batch.Platform,
			Listings: append([]domain.RawListing(nil), batch.Listings...),
		}
	}
	return out
}

var curatedListings = []domain.RawListing{
	{
		ItemCode:      "fallback:savas-whey100-cocoa-980",
		Title:         "ザバス ホエイプロテイン100 リッチショコラ味 980g",
		Description:   "1食(28g)あたり エネルギー 113kcal たんぱく質 20.0g",
		Price:         4815,
		ReviewCount:   2500,
		ReviewAverage: 4.6,
		ShopName:      "curated",
		ItemURL:       "https://search.rakuten.co.jp/search/mall/%E3%82%B6%E3%83%90%E3%82%B9/",
	},
	{
		ItemCode:      "fallback:myprotein-impact-whey-1kg",
		Title:         "マイプロテイン Impact ホエイプロテイン ナチュラルチョコレート 1kg",
		Description:   "1食(25g)あたり エネルギー 103kcal たんぱく質 21g 糖質 1.5g",
		Price:         4990,
		ReviewCount:   1800,
		ReviewAverage: 4.4,
		ShopName:      "curated",
		ItemURL:       "https://search.rakuten.co.jp/search/mall/myprotein/",
	},
	{
		ItemCode:      "fallback:belegend-whey-3kg",
		Title:         "ビーレジェンド ホエイプロテイン 激うまチョコ風味 3kg",
		Description:   "1食(29g)あたり エネルギー 117kcal たんぱく質 21.1g",
		Price:         11800,
		ReviewCount:   3200,
		ReviewAverage: 4.5,
		ShopName:      "curated",
		ItemURL:       "https://search.rakuten.co.jp/search/mall/beLEGEND/",
	},
	{
		ItemCode:      "fallback:savas-soy100-cocoa-900",
		Title:         "ザバス ソイプロテイン100 ココア味 900g",
		Description:   "1食(21g)あたり エネルギー 79kcal たんぱく質 15.0g 糖質 0.9g",
		Price:         4298,
		ReviewCount:   1500,
		ReviewAverage: 4.4,
		ShopName:      "curated",
		ItemURL:       "https://search.rakuten.co.jp/search/mall/%E3%82%BD%E3%82%A4%E3%83%97%E3%83%AD%E3%83%86%E3%82%A4%E3%83%B3/",
	},
	{
		ItemCode:      "fallback:alpron-wpi-plain-1kg",
		Title:         "アルプロン WPI プレーン 1kg",
		Description:   "1食(30g)あたり エネルギー 112kcal たんぱく質 27.0g",
		Price:         5280,
		ReviewCount:   900,
		ReviewAverage: 4.3,
		ShopName:      "curated",
		ItemURL:       "https://search.rakuten.co.jp/search/mall/alpron/",
	},
	{
		ItemCode:      "fallback:grong-whey-plain-1kg",
		Title:         "グロング ホエイプロテイン100 プレーン 1kg",
		Description:   "1食(30g)あたり エネルギー 118kcal たんぱく質 22.0g",
		Price:         3680,
		ReviewCount:   1100,
		ReviewAverage: 4.2,
		ShopName:      "curated",
		ItemURL:       "https://search.rakuten.co.jp/search/mall/grong/",
	},
	{
		ItemCode:      "fallback:ultora-casein-vanilla-1kg",
		Title:         "ケンタイ カゼインプロテイン バニラ風味 1kg",
		Description:   "1食(30g)あたり エネルギー 114kcal たんぱく質 24.0g",
		Price:         6400,
		ReviewCount:   300,
		ReviewAverage: 4.1,
		ShopName:      "curated",
		ItemURL:       "https://search.rakuten.co.jp/search/mall/kentai/",
	},
}
