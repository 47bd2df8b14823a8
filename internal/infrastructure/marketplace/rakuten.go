package marketplace

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/domain"
)

// DefaultRakutenBaseURL is the Ichiba item search endpoint
const DefaultRakutenBaseURL = "https://app.rakuten.co.jp/services/api/IchibaItem/Search/20220601"

// rakutenMaxHits is the API's page size limit
const rakutenMaxHits = 30

// RakutenConfig holds Rakuten Web Service credentials
type RakutenConfig struct {
	ApplicationID     string
	AffiliateID       string
	BaseURL           string
	RequestsPerSecond float64
}

// RakutenClient searches Rakuten Ichiba
type RakutenClient struct {
	*httpClient
	applicationID string
	affiliateID   string
	baseURL       string
}

// rakutenSearchResponse is the formatVersion=2 search payload
type rakutenSearchResponse struct {
	Count int           `json:"count"`
	Items []rakutenItem `json:"Items"`
}

type rakutenItem struct {
	ItemCode        string   `json:"itemCode"`
	ItemName        string   `json:"itemName"`
	ItemCaption     string   `json:"itemCaption"`
	ItemPrice       int      `json:"itemPrice"`
	ItemURL         string   `json:"itemUrl"`
	AffiliateURL    string   `json:"affiliateUrl"`
	ShopName        string   `json:"shopName"`
	ReviewCount     int      `json:"reviewCount"`
	ReviewAverage   float64  `json:"reviewAverage"`
	MediumImageURLs []string `json:"mediumImageUrls"`
	SmallImageURLs  []string `json:"smallImageUrls"`
}

// NewRakutenClient creates a new Rakuten Ichiba client
func NewRakutenClient(cfg RakutenConfig, logger *zap.Logger) *RakutenClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultRakutenBaseURL
	}
	return &RakutenClient{
		httpClient:    newHTTPClient(string(domain.PlatformRakuten), cfg.RequestsPerSecond, logger),
		applicationID: cfg.ApplicationID,
		affiliateID:   cfg.AffiliateID,
		baseURL:       baseURL,
	}
}

// SetDebug enables logging of error response bodies
func (c *RakutenClient) SetDebug(debug bool) {
	c.debug = debug
}

// Platform identifies the marketplace
func (c *RakutenClient) Platform() domain.Platform {
	return domain.PlatformRakuten
}

// Search runs a keyword search and maps the items onto raw listings
func (c *RakutenClient) Search(ctx context.Context, query domain.SearchQuery) ([]domain.RawListing, error) {
	if c.applicationID == "" {
		return nil, ErrMissingCredentials
	}

	hits := query.Hits
	if hits <= 0 || hits > rakutenMaxHits {
		hits = rakutenMaxHits
	}

	params := url.Values{}
	params.Set("applicationId", c.applicationID)
	if c.affiliateID != "" {
		params.Set("affiliateId", c.affiliateID)
	}
	params.Set("keyword", query.Keyword)
	params.Set("hits", strconv.Itoa(hits))
	params.Set("format", "json")
	params.Set("formatVersion", "2")
	params.Set("availability", "1")
	params.Set("imageFlag", "1")
	params.Set("sort", "-reviewCount")

	var resp rakutenSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, eris.Wrapf(err, "rakuten search %q", query.Keyword)
	}

	listings := make([]domain.RawListing, 0, len(resp.Items))
	for _, item := range resp.Items {
		listings = append(listings, mapRakutenItem(item))
	}

	c.logger.Debug("rakuten search done",
		zap.String("keyword", query.Keyword),
		zap.Int("items", len(listings)),
	)
	return listings, nil
}

// mapRakutenItem converts a Rakuten item to a raw listing. The affiliate URL
// is preferred as purchase link when present.
func mapRakutenItem(item rakutenItem) domain.RawListing {
	itemURL := item.ItemURL
	if item.AffiliateURL != "" {
		itemURL = item.AffiliateURL
	}
	images := item.MediumImageURLs
	if len(images) == 0 {
		images = item.SmallImageURLs
	}
	return domain.RawListing{
		ItemCode:      item.ItemCode,
		Title:         item.ItemName,
		Description:   item.ItemCaption,
		Price:         item.ItemPrice,
		ReviewCount:   item.ReviewCount,
		ReviewAverage: item.ReviewAverage,
		ImageURLs:     images,
		ShopName:      item.ShopName,
		ItemURL:       itemURL,
	}
}
