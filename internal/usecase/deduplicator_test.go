package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/proteinfinder/backend/internal/domain"
)

func TestDedupeKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"case and spacing", "SAVAS Whey 100 1KG", "savas whey100 1kg"},
		{"full-width", "ＳＡＶＡＳ Ｗｈｅｙ１００ 1KG", "savas whey100 1kg"},
		{"punctuation and brackets", "ザバス・ホエイ100（1kg）", "ザバス ホエイ100 1kg"},
		{"decorative stars", "★送料無料★ザバス ホエイ100 1kg", "送料無料 ザバス ホエイ100 1kg"},
		{"plus and wave dash", "ザバス ホエイ100＋ビタミン 1kg～", "ザバス ホエイ100 ビタミン 1kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, DedupeKey(tt.b), DedupeKey(tt.a))
		})
	}

	assert.NotEqual(t, DedupeKey("ザバス ホエイ100 1kg"), DedupeKey("ザバス ホエイ100 2kg"))
}

func TestDedupe(t *testing.T) {
	products := []domain.Product{
		{ID: "rakuten_1", Name: "ザバス ホエイ100 1kg", ReviewCount: 100},
		{ID: "yahoo_1", Name: "ビーレジェンド 1kg", ReviewCount: 50},
		{ID: "yahoo_2", Name: "ザバス　ホエイ100 1KG", ReviewCount: 300},
		{ID: "amazon_1", Name: "ビーレジェンド 1kg", ReviewCount: 50},
		{ID: "rakuten_2", Name: "!!!", ReviewCount: 1},
		{ID: "rakuten_3", Name: "・・", ReviewCount: 2},
	}

	got := Dedupe(products)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	// more reviews wins, ties keep the first, groups keep their first position,
	// names without a key are never merged
	assert.Equal(t, []string{"yahoo_2", "yahoo_1", "rakuten_2", "rakuten_3"}, ids)
}

func TestDedupe_Empty(t *testing.T) {
	assert.Empty(t, Dedupe(nil))
}
