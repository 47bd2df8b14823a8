package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteinfinder/backend/internal/domain"
)

func TestExtractBrand(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"known brand", "ザバス ホエイプロテイン100 リッチショコラ味 1kg", "ザバス"},
		{"latin alias", "【送料無料】 MYPROTEIN Impact ホエイ 1kg", "マイプロテイン"},
		{"full-width alias", "ＳＡＶＡＳ ホエイ 1kg", "ザバス"},
		{"specific before generic", "バルクスポーツ ビッグホエイ 1kg", "バルクスポーツ"},
		{"savas before meiji", "明治 ザバス アドバンスト ホエイ 900g", "ザバス"},
		{"fallback skips noise", "【送料無料】 NoNameLab ホエイプロテイン 1kg", "NoNameLab"},
		{"weights are not brands", "1kg 500g", UnknownBrand},
		{"empty title", "", UnknownBrand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBrand(tt.title))
		})
	}
}

func TestExtractFlavor(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"ザバス ホエイプロテイン100 リッチショコラ味", "チョコレート"},
		{"ソイプロテイン ココア味", "チョコレート"},
		{"ホエイ ストロベリー風味 1kg", "ストロベリー"},
		{"WPI 宇治抹茶 1kg", "抹茶"},
		{"ホエイプロテイン 無香料 1kg", "プレーン"},
		{"Gold Standard Whey Vanilla 2lb", "バニラ"},
		{"ホエイプロテイン 1kg", FlavorOther},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFlavor(tt.title))
		})
	}
}

func TestFlavorCategoryOf(t *testing.T) {
	assert.Equal(t, FlavorCategorySweet, FlavorCategoryOf("チョコレート"))
	assert.Equal(t, FlavorCategoryLight, FlavorCategoryOf("抹茶"))
	assert.Equal(t, FlavorCategoryLight, FlavorCategoryOf("プレーン"))
	assert.Equal(t, FlavorCategoryUnknown, FlavorCategoryOf(FlavorOther))
}

func TestExtractProteinType(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        domain.ProteinType
	}{
		{"soy", "ソイプロテイン ココア味 900g", "", domain.ProteinSoy},
		{"casein", "カゼインプロテイン バニラ 1kg", "", domain.ProteinCasein},
		{"wpi", "WPI プレーン 1kg", "", domain.ProteinWPI},
		{"isolate in description", "ホエイ 1kg", "分離乳清たんぱく(アイソレート)使用", domain.ProteinWPI},
		{"plant", "ピープロテイン 1kg", "", domain.ProteinPlant},
		{"whey default", "ホエイプロテイン 1kg", "", domain.ProteinWhey},
		{"unlabelled default", "プロテイン 1kg", "", domain.ProteinWhey},
		{"soy wins over whey", "ソイ&ホエイ ブレンドプロテイン 1kg", "", domain.ProteinSoy},
		{"casein wins over wpi", "カゼイン WPI ミックス 1kg", "", domain.ProteinCasein},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractProteinType(tt.title, tt.description))
		})
	}
}

func TestExtractNutrition_Defaults(t *testing.T) {
	facts := ExtractNutrition("Protein Powder 1kg", "")

	assert.Equal(t, 20.0, facts.ProteinGrams)
	assert.Equal(t, 110.0, facts.Calories)
	assert.Equal(t, 33, facts.Servings)
	assert.Equal(t, DefaultServingSizeGrams, facts.ServingSizeGrams)
	assert.Equal(t, domain.NutritionFromDefault, facts.Source)
	assert.False(t, facts.HasSugar())
}

func TestExtractNutrition_TypeDefaults(t *testing.T) {
	soy := ExtractNutrition("ソイプロテイン 900g", "")
	assert.Equal(t, 17.0, soy.ProteinGrams)
	assert.Equal(t, 115.0, soy.Calories)

	casein := ExtractNutrition("カゼインプロテイン 1kg", "")
	assert.Equal(t, 24.0, casein.ProteinGrams)
	assert.Equal(t, 120.0, casein.Calories)
}

func TestExtractNutrition_Label(t *testing.T) {
	facts := ExtractNutrition(
		"ホエイプロテイン 980g",
		"1食(28g)あたり エネルギー 113kcal たんぱく質 20.0g 糖質 1.5g",
	)

	assert.Equal(t, domain.NutritionFromLabel, facts.Source)
	assert.Equal(t, 28.0, facts.ServingSizeGrams)
	assert.Equal(t, 113.0, facts.Calories)
	assert.Equal(t, 20.0, facts.ProteinGrams)
	require.True(t, facts.HasSugar())
	assert.Equal(t, 1.5, *facts.SugarGrams)
	assert.Equal(t, 35, facts.Servings, "980g / 28g")
}

func TestExtractNutrition_FullWidthText(t *testing.T) {
	facts := ExtractNutrition("ホエイプロテイン １ｋｇ", "たんぱく質：２１ｇ　エネルギー：１１５ｋｃａｌ")

	assert.Equal(t, domain.NutritionFromText, facts.Source)
	assert.Equal(t, 21.0, facts.ProteinGrams)
	assert.Equal(t, 115.0, facts.Calories)
	assert.Equal(t, 33, facts.Servings)
}

func TestExtractNutrition_ImplausibleProteinDiscarded(t *testing.T) {
	facts := ExtractNutrition("ホエイプロテイン 1kg", "たんぱく質 75g")

	assert.Equal(t, 20.0, facts.ProteinGrams)
	assert.Equal(t, domain.NutritionFromDefault, facts.Source)
}

func TestExtractNutrition_Servings(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  int
	}{
		{"explicit servings win", "グロング ホエイプロテイン 1kg 約33食分", 33},
		{"english servings", "Whey Protein 2kg 66 servings", 66},
		{"single serving count ignored", "ホエイプロテイン 1kg 1食分", 33},
		{"multiplier", "ホエイプロテイン 1kg×2", 67},
		{"kilo kana", "ホエイプロテイン 3キロ", 100},
		{"pounds", "Gold Standard 100% Whey 5lbs", 76},
		{"largest weight is the container", "ホエイプロテイン 1食30g 1kg", 33},
		{"no weight", "ホエイプロテイン", DefaultServings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractNutrition(tt.title, "").Servings)
		})
	}
}

func TestEstimateServings(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Protein Powder 1kg", 33},
		{"Protein Powder 3kg", 100},
		{"Protein Powder 500g", 17},
		{"Protein Powder", DefaultServings},
		{"Protein Powder 10g", 1},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateServings(tt.title))
		})
	}
}

func TestHasQuantityToken(t *testing.T) {
	assert.True(t, HasQuantityToken("ホエイ 1kg"))
	assert.True(t, HasQuantityToken("ホエイ 30食分"))
	assert.True(t, HasQuantityToken("ホエイ 3袋セット"))
	assert.True(t, HasQuantityToken("ホエイ １ｋｇ"))
	assert.False(t, HasQuantityToken("ホエイプロテイン チョコ"))
}

func TestNormalize_EndToEnd(t *testing.T) {
	raw := domain.RawListing{
		ItemCode:      "shop:10000001",
		Title:         "ザバス ホエイプロテイン100 リッチショコラ味 1kg",
		Price:         4815,
		ReviewCount:   2500,
		ReviewAverage: 4.6,
	}

	product, err := NewNormalizer(NormalizerConfig{}).Normalize(raw, domain.PlatformRakuten)
	require.NoError(t, err)

	assert.Equal(t, "ザバス", product.Brand)
	assert.Equal(t, domain.ProteinWhey, product.ProteinType)
	assert.Equal(t, "チョコレート", product.Flavor)
	assert.Equal(t, 33, product.Nutrition.Servings)
	assert.Equal(t, 146, product.PricePerServing)
	assert.True(t, NewValidityFilter(DefaultFilterConfig()).IsValid(product))
}
