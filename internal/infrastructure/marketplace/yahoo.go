package marketplace

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/domain"
)

// DefaultYahooBaseURL is the Shopping V3 item search endpoint
const DefaultYahooBaseURL = "https://shopping.yahooapis.jp/ShoppingWebService/V3/itemSearch"

const yahooMaxHits = 50

// YahooConfig holds Yahoo! Shopping credentials
type YahooConfig struct {
	AppID             string
	BaseURL           string
	RequestsPerSecond float64
}

// YahooClient searches Yahoo! Shopping
type YahooClient struct {
	*httpClient
	appID   string
	baseURL string
}

type yahooSearchResponse struct {
	TotalResultsAvailable int        `json:"totalResultsAvailable"`
	Hits                  []yahooHit `json:"hits"`
}

type yahooHit struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HeadLine    string `json:"headLine"`
	URL         string `json:"url"`
	Price       int    `json:"price"`
	Image       struct {
		Small  string `json:"small"`
		Medium string `json:"medium"`
	} `json:"image"`
	Review struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"review"`
	Seller struct {
		Name string `json:"name"`
	} `json:"seller"`
}

// NewYahooClient creates a new Yahoo! Shopping client
func NewYahooClient(cfg YahooConfig, logger *zap.Logger) *YahooClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooClient{
		httpClient: newHTTPClient(string(domain.PlatformYahoo), cfg.RequestsPerSecond, logger),
		appID:      cfg.AppID,
		baseURL:    baseURL,
	}
}

// SetDebug enables logging of error response bodies
func (c *YahooClient) SetDebug(debug bool) {
	c.debug = debug
}

// Platform identifies the marketplace
func (c *YahooClient) Platform() domain.Platform {
	return domain.PlatformYahoo
}

// Search runs a keyword search and maps the hits onto raw listings
func (c *YahooClient) Search(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error) {
	if c.appID == "" {
		return nil, ErrMissingCredentials
	}

	hits := query.Hits
	if hits <= 0 || hits > yahooMaxHits {
		hits = yahooMaxHits
	}

	params := url.Values{}
	params.Set("appid", c.appID)
	params.Set("query", query.Keyword)
	params.Set("results", strconv.Itoa(hits))
	params.Set("in_stock", "true")
	params.Set("sort", "-review_count")

	var resp yahooSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, eris.Wrapf(err, "yahoo search %q", query.Keyword)
	}

	listings := make([]domain.RawListing, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		listings = append(listings, mapYahooHit(hit))
	}
	return listings, nil
}

// mapYahooHit converts a Yahoo! hit to a raw listing. The headline is
// prepended to the description since it often carries the nutrition summary.
func mapYahooHit(hit yahooHit) domain.RawListing {
	description := hit.Description
	if hit.HeadLine != "" {
		description = hit.HeadLine + " " + description
	}
	var images []string
	for _, img := range []string{hit.Image.Medium, hit.Image.Small} {
		if img != "" {
			images = append(images, img)
		}
	}
	return domain.RawListing{
		ItemCode:      hit.Code,
		Title:         hit.Name,
		Description:   description,
		Price:         hit.Price,
		ReviewCount:   hit.Review.Count,
		ReviewAverage: hit.Review.Rate,
		ImageURLs:     images,
		ShopName:      hit.Seller.Name,
		ItemURL:       hit.URL,
	}
}
