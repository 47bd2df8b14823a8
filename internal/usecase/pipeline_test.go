package usecase

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/proteinfinder/backend/internal/domain"
)

func listing(code, title string, price, reviews int, avg float64) domain.RawListing {
	return domain.RawListing{
		ItemCode:      code,
		Title:         title,
		Price:         price,
		ReviewCount:   reviews,
		ReviewAverage: avg,
		ItemURL:       "https://example.com/" + code,
	}
}

func TestPipeline_RankProducts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	pipeline := NewPipeline(PipelineConfig{}, zap.New(core))

	batches := []domain.SourceListings{
		{Platform: domain.PlatformRakuten, Listings: []domain.RawListing{
			listing("r1", "ザバス ホエイプロテイン100 リッチショコラ味 1kg", 4815, 2500, 4.6),
			listing("r2", "プロテインシェイカー 500ml", 980, 300, 4.1),
			listing("r3", "", 3000, 10, 4.0),
			listing("r4", "ビーレジェンド ホエイプロテイン バニラ 1kg", 3980, 800, 4.4),
		}},
		{Platform: domain.PlatformYahoo, Listings: []domain.RawListing{
			listing("y1", "ザバス　ホエイプロテイン100 リッチショコラ味 1KG", 4700, 900, 4.5),
			listing("y2", "ソイプロテイン ココア味 1kg", 2980, 50, 4.0),
			listing("y3", "ホエイプロテイン 1kg", 0, 0, 0),
		}},
	}

	result := pipeline.RankProducts(batches, profile(domain.GoalMuscle, domain.BudgetMid, domain.FlavorPrefSweet))

	meta := result.Metadata
	assert.Equal(t, 7, meta.TotalFound)
	assert.Equal(t, 5, meta.Normalized, "empty title and zero price are malformed")
	assert.Equal(t, 4, meta.Valid, "the shaker is filtered")
	assert.Equal(t, 3, meta.Unique, "the two ザバス listings collapse")
	assert.Equal(t, domain.ServedFromLive, meta.ServedFrom)
	assert.Equal(t, 2, logs.FilterMessage("dropping malformed listing").Len())

	require.Len(t, result.Products, 3)
	for i, p := range result.Products {
		assert.Equal(t, i+1, p.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, result.Products[i-1].Score, p.Score)
		}
	}
	assert.Equal(t, "rakuten_r1", result.Products[0].ID, "the duplicate with more reviews survives")
}

func TestPipeline_FilterRules(t *testing.T) {
	longDeny := listing("r1", "ホエイプロテイン ナチュラル 1kg", 3980, 120, 4.3)
	longDeny.Description = strings.Repeat("高品質", 60) + " プロテインシェイカー付き"

	noQuantity := listing("r2", "ホエイプロテイン チョコ", 3980, 120, 4.3)

	clean := listing("r3", "ホエイプロテイン バニラ 1kg", 3980, 120, 4.3)
	clean.Description = strings.Repeat("高品質", 60) + " BCAA配合"

	batches := []domain.SourceListings{{
		Platform: domain.PlatformRakuten,
		Listings: []domain.RawListing{longDeny, noQuantity, clean},
	}}

	result := NewPipeline(PipelineConfig{}, nil).RankProducts(batches, NeutralPreferences())

	assert.Equal(t, 3, result.Metadata.Normalized)
	assert.Equal(t, 1, result.Metadata.Valid)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "rakuten_r3", result.Products[0].ID)
	assert.NotContains(t, result.Products[0].Description, "BCAA", "the display copy is truncated")
}

func TestPipeline_Empty(t *testing.T) {
	result := NewPipeline(PipelineConfig{}, nil).RankProducts(nil, NeutralPreferences())

	assert.NotNil(t, result.Products)
	assert.Empty(t, result.Products)
	assert.Zero(t, result.Metadata.TotalFound)
}

func TestPipeline_PageSize(t *testing.T) {
	var listings []domain.RawListing
	for i := 0; i < 25; i++ {
		listings = append(listings, listing(
			fmt.Sprintf("item%d", i),
			fmt.Sprintf("ホエイプロテイン ブランド%d 1kg", i),
			3000+i*10, 100+i, 4.0,
		))
	}
	batches := []domain.SourceListings{{Platform: domain.PlatformRakuten, Listings: listings}}

	result := NewPipeline(PipelineConfig{}, nil).RankProducts(batches, NeutralPreferences())
	assert.Len(t, result.Products, DefaultPageSize)

	result = NewPipeline(PipelineConfig{PageSize: 5}, nil).RankProducts(batches, NeutralPreferences())
	assert.Len(t, result.Products, 5)
}

func scored(id string, typ domain.ProteinType, score float64) domain.ScoredProduct {
	return domain.ScoredProduct{
		Product: domain.Product{ID: id, ProteinType: typ},
		Score:   score,
	}
}

func TestPipeline_Diversify(t *testing.T) {
	pipeline := NewPipeline(PipelineConfig{}, nil)

	t.Run("quota for preferred types", func(t *testing.T) {
		var sorted []domain.ScoredProduct
		for i := 0; i < 8; i++ {
			sorted = append(sorted, scored(fmt.Sprintf("whey%d", i), domain.ProteinWhey, 100-float64(i)))
		}
		for i := 0; i < 8; i++ {
			sorted = append(sorted, scored(fmt.Sprintf("soy%d", i), domain.ProteinSoy, 50-float64(i)))
		}

		page := pipeline.diversify(sorted, []domain.ProteinType{domain.ProteinSoy, domain.ProteinPlant})

		require.Len(t, page, 10)
		counts := map[domain.ProteinType]int{}
		for _, sp := range page {
			counts[sp.ProteinType]++
		}
		assert.Equal(t, 6, counts[domain.ProteinSoy])
		assert.Equal(t, 4, counts[domain.ProteinWhey])
		assert.Equal(t, "whey0", page[0].ID, "the page is sorted by score")
	})

	t.Run("shortfall is filled by score", func(t *testing.T) {
		var sorted []domain.ScoredProduct
		for i := 0; i < 10; i++ {
			sorted = append(sorted, scored(fmt.Sprintf("whey%d", i), domain.ProteinWhey, 100-float64(i)))
		}
		sorted = append(sorted, scored("soy0", domain.ProteinSoy, 10), scored("soy1", domain.ProteinSoy, 9))

		page := pipeline.diversify(sorted, []domain.ProteinType{domain.ProteinSoy})

		require.Len(t, page, 10)
		ids := make([]string, len(page))
		for i, sp := range page {
			ids[i] = sp.ID
		}
		assert.Contains(t, ids, "soy0")
		assert.Contains(t, ids, "soy1")
		assert.Contains(t, ids, "whey7")
		assert.NotContains(t, ids, "whey8")
	})

	t.Run("no preference truncates", func(t *testing.T) {
		var sorted []domain.ScoredProduct
		for i := 0; i < 12; i++ {
			sorted = append(sorted, scored(fmt.Sprintf("p%d", i), domain.ProteinWhey, float64(100-i)))
		}
		page := pipeline.diversify(sorted, nil)
		require.Len(t, page, 10)
		assert.Equal(t, "p9", page[9].ID)
	})
}

func TestSortByScore(t *testing.T) {
	products := []domain.ScoredProduct{
		{Product: domain.Product{ID: "a", ReviewCount: 10}, Score: 50},
		{Product: domain.Product{ID: "b", ReviewCount: 99}, Score: 50},
		{Product: domain.Product{ID: "c", ReviewCount: 1}, Score: 70},
	}

	sortByScore(products)

	assert.Equal(t, "c", products[0].ID)
	assert.Equal(t, "b", products[1].ID, "ties broken by review count")
	assert.Equal(t, "a", products[2].ID)
}
