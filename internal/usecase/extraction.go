package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/proteinfinder/backend/internal/domain"
)

// Extraction defaults
const (
	DefaultServingSizeGrams = 30.0
	DefaultServings         = 30
	UnknownBrand            = "Unknown"
	FlavorOther             = "その他"

	maxPlausibleProtein  = 60.0 // grams per serving
	minPlausibleCalories = 20.0
	maxPlausibleCalories = 600.0
	minExplicitServings  = 5
	gramsPerPound        = 453.6
)

// labelRule maps a set of lowercase keywords onto one canonical label.
// Rules are evaluated in slice order and the first hit wins.
type labelRule struct {
	label    string
	keywords []string
}

// brandRules lists known manufacturers. Longer or more specific names come
// before generic ones: バルクスポーツ before バルクス, ザバス before 明治.
var brandRules = []labelRule{
	{"ザバス", []string{"ザバス", "savas"}},
	{"マイプロテイン", []string{"マイプロテイン", "myprotein", "my protein"}},
	{"オプティマムニュートリション", []string{"オプティマム", "optimum nutrition", "gold standard", "ゴールドスタンダード"}},
	{"ビーレジェンド", []string{"ビーレジェンド", "be legend", "belegend"}},
	{"グロング", []string{"グロング", "grong"}},
	{"エクスプロージョン", []string{"エクスプロージョン", "x-plosion", "xplosion"}},
	{"アルプロン", []string{"アルプロン", "alpron"}},
	{"ケンタイ", []string{"ケンタイ", "kentai"}},
	{"バルクスポーツ", []string{"バルクスポーツ", "bulk sports"}},
	{"バルクス", []string{"バルクス", "valx"}},
	{"ゴールドジム", []string{"ゴールドジム", "gold's gym", "golds gym"}},
	{"ダイマタイズ", []string{"ダイマタイズ", "dymatize"}},
	{"マッスルテック", []string{"マッスルテック", "muscletech"}},
	{"ファイン・ラボ", []string{"ファイン・ラボ", "ファインラボ", "fine lab"}},
	{"ハレオ", []string{"ハレオ", "haleo"}},
	{"ウイダー", []string{"inウイダー", "ウイダー", "weider"}},
	{"明治", []string{"明治", "meiji"}},
	{"森永", []string{"森永", "morinaga"}},
	{"DNS", []string{"dns"}},
}

// flavorRules groups flavor synonyms. Table order decides ties when a title
// names several flavors.
var flavorRules = []labelRule{
	{"チョコレート", []string{"チョコ", "ショコラ", "ココア", "chocolate", "choco", "cocoa"}},
	{"ストロベリー", []string{"ストロベリー", "いちご", "イチゴ", "苺", "strawberry"}},
	{"バニラ", []string{"バニラ", "vanilla"}},
	{"バナナ", []string{"バナナ", "banana"}},
	{"抹茶", []string{"抹茶", "matcha", "宇治"}},
	{"コーヒー", []string{"コーヒー", "カフェオレ", "カフェラテ", "珈琲", "coffee", "cafe", "latte"}},
	{"ミルクティー", []string{"ミルクティー", "紅茶", "milk tea"}},
	{"ヨーグルト", []string{"ヨーグルト", "yogurt", "yoghurt"}},
	{"クッキー", []string{"クッキー", "cookie"}},
	{"フルーツ", []string{"フルーツ", "ピーチ", "マンゴー", "レモン", "グレープ", "オレンジ", "fruit", "peach", "mango", "lemon", "orange"}},
	{"プレーン", []string{"プレーン", "ノンフレーバー", "無香料", "フレーバーなし", "plain", "unflavored", "non flavor"}},
}

// FlavorCategory groups canonical flavors for preference matching
type FlavorCategory int

const (
	FlavorCategoryUnknown FlavorCategory = iota
	FlavorCategorySweet
	FlavorCategoryLight
)

var flavorCategories = map[string]FlavorCategory{
	"チョコレート": FlavorCategorySweet,
	"ストロベリー": FlavorCategorySweet,
	"バニラ":    FlavorCategorySweet,
	"バナナ":    FlavorCategorySweet,
	"コーヒー":   FlavorCategorySweet,
	"ミルクティー": FlavorCategorySweet,
	"クッキー":   FlavorCategorySweet,
	"フルーツ":   FlavorCategorySweet,
	"抹茶":     FlavorCategoryLight,
	"ヨーグルト":  FlavorCategoryLight,
	"プレーン":   FlavorCategoryLight,
}

// typeRule is one entry of the protein-type precedence table
type typeRule struct {
	proteinType domain.ProteinType
	keywords    []string
}

// proteinTypeRules is ordered by precedence: Soy > Casein > WPI > Plant.
// Anything that matches none of them is Whey.
var proteinTypeRules = []typeRule{
	{domain.ProteinSoy, []string{"ソイ", "soy", "大豆"}},
	{domain.ProteinCasein, []string{"カゼイン", "casein"}},
	{domain.ProteinWPI, []string{"wpi", "アイソレート", "isolate", "分離乳清"}},
	{domain.ProteinPlant, []string{"ピープロテイン", "pea protein", "えんどう豆", "植物性", "plant", "ヴィーガン", "vegan", "玄米プロテイン", "ヘンプ"}},
}

// nutritionDefault is the per-serving estimate used when text states nothing
type nutritionDefault struct {
	protein  float64
	calories float64
}

var proteinTypeDefaults = map[domain.ProteinType]nutritionDefault{
	domain.ProteinWhey:   {protein: 20, calories: 110},
	domain.ProteinSoy:    {protein: 17, calories: 115},
	domain.ProteinCasein: {protein: 24, calories: 120},
	domain.ProteinWPI:    {protein: 22, calories: 100},
	domain.ProteinPlant:  {protein: 18, calories: 115},
	domain.ProteinOther:  {protein: 20, calories: 110},
}

// brandNoiseTokens are marketplace marketing tokens skipped by the brand fallback
var brandNoiseTokens = []string{
	"送料無料", "ポイント", "クーポン", "セール", "公式", "正規品", "あす楽",
	"楽天1位", "1位", "最大", "限定", "新発売", "sale", "ranking",
}

const num = `(\d+(?:\.\d+)?)`

// Patterns run against foldText output: lowercase, half-width digits and colons.
var (
	labelPattern = regexp.MustCompile(
		`(?:^|\D)(?:1食|一食|1回|1杯|serving\s*size|per\s*serving)\D{0,15}?` + num + `\s*g\D{0,40}?` +
			num + `\s*kcal\D{0,40}?` + num + `\s*g`)
	proteinPattern     = regexp.MustCompile(`(?:たんぱく質|タンパク質|蛋白質|protein)量?\s*:?\s*(?:約)?` + num + `\s*g`)
	caloriePattern     = regexp.MustCompile(num + `\s*kcal`)
	sugarPattern       = regexp.MustCompile(`(?:糖質|糖類|sugars?)\s*:?\s*` + num + `\s*g`)
	servingSizePattern = regexp.MustCompile(
		`(?:(?:^|\D)(?:1食|一食|1回|1杯)(?:分|あたり|当たり)?|serving\s*size)[\s(:]*` + num + `\s*g`)
	servingsPattern = regexp.MustCompile(`(\d+)\s*(?:食分|回分|杯分|servings)`)
	weightPattern   = regexp.MustCompile(num + `\s*(kg|キロ|グラム|g|lbs?)(?:\s*[x×]\s*(\d+))?`)
	quantityPattern = regexp.MustCompile(`\d+\s*(?:食分|食|回分|杯分|袋|個|servings?)`)
	tokenSplitter   = regexp.MustCompile(`[\s\[\]【】()（）「」『』<>〈〉《》/|]+`)
)

// foldText lowercases s and folds full-width digits, letters and punctuation
// to their half-width forms so patterns can be written once.
func foldText(s string) string {
	return strings.ToLower(width.Fold.String(s))
}

func matchLabel(rules []labelRule, text string) (string, bool) {
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.label, true
			}
		}
	}
	return "", false
}

// ExtractBrand returns the canonical brand named in title. When no known brand
// matches it falls back to the first meaningful token of the title, and to
// UnknownBrand when the title has none.
func ExtractBrand(title string) string {
	if brand, ok := matchLabel(brandRules, foldText(title)); ok {
		return brand
	}

	for _, token := range tokenSplitter.Split(width.Fold.String(title), -1) {
		if token == "" || isBrandNoise(token) {
			continue
		}
		return token
	}
	return UnknownBrand
}

func isBrandNoise(token string) bool {
	if strings.IndexFunc(token, unicode.IsLetter) < 0 {
		return true
	}
	lower := strings.ToLower(token)
	for _, noise := range brandNoiseTokens {
		if strings.Contains(lower, noise) {
			return true
		}
	}
	return weightPattern.MatchString(lower) && strings.Trim(weightPattern.ReplaceAllString(lower, ""), " ") == ""
}

// ExtractFlavor returns the canonical flavor label named in title, or FlavorOther.
func ExtractFlavor(title string) string {
	if flavor, ok := matchLabel(flavorRules, foldText(title)); ok {
		return flavor
	}
	return FlavorOther
}

// FlavorCategoryOf reports whether a canonical flavor is sweet or light.
func FlavorCategoryOf(flavor string) FlavorCategory {
	return flavorCategories[flavor]
}

// ExtractProteinType classifies the product from title and description.
func ExtractProteinType(title, description string) domain.ProteinType {
	text := foldText(title + " " + description)
	for _, rule := range proteinTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.proteinType
			}
		}
	}
	return domain.ProteinWhey
}

// ExtractNutrition estimates per-serving nutrition. It tries a combined label
// declaration, then individual protein/calorie mentions, then protein-type
// defaults, so the result is always complete.
func ExtractNutrition(title, description string) domain.NutritionFacts {
	text := foldText(title + " " + description)
	defaults := proteinTypeDefaults[ExtractProteinType(title, description)]

	facts := domain.NutritionFacts{ServingSizeGrams: DefaultServingSizeGrams}

	if m := labelPattern.FindStringSubmatch(text); m != nil {
		size, kcal, protein := parseNumber(m[1]), parseNumber(m[2]), parseNumber(m[3])
		if size > 0 && plausibleProtein(protein, size) && plausibleCalories(kcal) {
			facts.ServingSizeGrams = size
			facts.ProteinGrams = protein
			facts.Calories = kcal
			facts.Source = domain.NutritionFromLabel
		}
	}

	if facts.Source == "" {
		if m := servingSizePattern.FindStringSubmatch(text); m != nil {
			if size := parseNumber(m[1]); size > 0 && size <= 100 {
				facts.ServingSizeGrams = size
			}
		}
		for _, m := range proteinPattern.FindAllStringSubmatch(text, -1) {
			if protein := parseNumber(m[1]); plausibleProtein(protein, facts.ServingSizeGrams) {
				facts.ProteinGrams = protein
				facts.Source = domain.NutritionFromText
				break
			}
		}
		for _, m := range caloriePattern.FindAllStringSubmatch(text, -1) {
			if kcal := parseNumber(m[1]); plausibleCalories(kcal) {
				facts.Calories = kcal
				facts.Source = domain.NutritionFromText
				break
			}
		}
	}

	if facts.ProteinGrams <= 0 {
		facts.ProteinGrams = defaults.protein
	}
	if facts.Calories <= 0 {
		facts.Calories = defaults.calories
	}
	if facts.Source == "" {
		facts.Source = domain.NutritionFromDefault
	}

	if m := sugarPattern.FindStringSubmatch(text); m != nil {
		sugar := parseNumber(m[1])
		if sugar >= 0 && sugar < facts.ServingSizeGrams {
			facts.SugarGrams = &sugar
		}
	}

	facts.Servings = explicitServings(text)
	if facts.Servings == 0 {
		facts.Servings = servingsFromWeight(foldText(title), facts.ServingSizeGrams)
	}
	return facts
}

// EstimateServings divides the container weight in title by the assumed 30g
// serving. Titles without a weight get DefaultServings.
func EstimateServings(title string) int {
	return servingsFromWeight(foldText(title), DefaultServingSizeGrams)
}

// HasQuantityToken reports whether title states a weight or a count.
func HasQuantityToken(title string) bool {
	text := foldText(title)
	return weightPattern.MatchString(text) || quantityPattern.MatchString(text)
}

func servingsFromWeight(text string, servingSize float64) int {
	grams := containerGrams(text)
	if grams <= 0 || servingSize <= 0 {
		return DefaultServings
	}
	servings := int(math.Round(grams / servingSize))
	if servings < 1 {
		return 1
	}
	return servings
}

// containerGrams returns the largest weight stated in text, in grams. Titles
// often mention the serving weight too, so the maximum is the container.
func containerGrams(text string) float64 {
	var largest float64
	for _, m := range weightPattern.FindAllStringSubmatch(text, -1) {
		grams := parseNumber(m[1])
		switch m[2] {
		case "kg", "キロ":
			grams *= 1000
		case "lb", "lbs":
			grams *= gramsPerPound
		}
		if m[3] != "" {
			if multiplier, err := strconv.Atoi(m[3]); err == nil && multiplier > 0 {
				grams *= float64(multiplier)
			}
		}
		if grams > largest {
			largest = grams
		}
	}
	return largest
}

func explicitServings(text string) int {
	for _, m := range servingsPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= minExplicitServings {
			return n
		}
	}
	return 0
}

func plausibleProtein(protein, servingSize float64) bool {
	return protein > 0 && protein <= maxPlausibleProtein && protein <= servingSize
}

func plausibleCalories(kcal float64) bool {
	return kcal >= minPlausibleCalories && kcal <= maxPlausibleCalories
}

func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
