package domain

import (
	"context"
	"time"
)

// CacheRepository is the opaque blob store used for aggregate results
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
	IsFresh(ctx context.Context, key string, maxAge time.Duration) (bool, error)
}

// SearchQuery is a keyword search against a marketplace
type SearchQuery struct {
	Keyword string
	Hits    int
}

// MarketplaceSource fetches raw listings from one marketplace
type MarketplaceSource interface {
	Platform() Platform
	Search(ctx context.Context, query SearchQuery) ([]RawListing, error)
}
