package domain

import "time"

// Where a ranking result was served from
const (
	ServedFromLive     = "live"
	ServedFromCache    = "cache"
	ServedFromStale    = "stale"
	ServedFromFallback = "fallback"
)

// SourceStatus records the outcome of fetching one marketplace
type SourceStatus struct {
	Platform Platform `json:"platform"`
	OK       bool     `json:"ok"`
	Count    int      `json:"count"`
	Error    string   `json:"error,omitempty"`
}

// RankingMetadata describes how a ranking was produced
type RankingMetadata struct {
	TotalFound        int            `json:"totalFound"`
	Normalized        int            `json:"normalized"`
	Valid             int            `json:"valid"`
	Unique            int            `json:"unique"`
	QueryTerms        []string       `json:"queryTerms,omitempty"`
	Sources           []SourceStatus `json:"sources,omitempty"`
	SuccessfulSources int            `json:"successfulSources"`
	PartialFailure    bool           `json:"partialFailure"`
	AllSourcesFailed  bool           `json:"allSourcesFailed"`
	ServedFrom        string         `json:"servedFrom"`
	CachedAt          *time.Time     `json:"cachedAt,omitempty"`
}

// RankingResult is the JSON payload returned to the UI and stored in cache
type RankingResult struct {
	Products []ScoredProduct `json:"products"`
	Metadata RankingMetadata `json:"metadata"`
}
