package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteinfinder/backend/internal/domain"
)

const listingsJSON = `{
	"platform": "rakuten",
	"listings": [
		{"itemCode": "shop:001", "title": "ザバス ホエイプロテイン100 リッチショコラ味 1kg", "price": 4815, "reviewCount": 2500, "reviewAverage": 4.6},
		{"itemCode": "shop:002", "title": "プロテインシェイカー 500ml", "price": 980, "reviewCount": 10, "reviewAverage": 4.0}
	]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadListings(t *testing.T) {
	dir := t.TempDir()

	t.Run("single batch object", func(t *testing.T) {
		batches, err := loadListings(writeFile(t, dir, "single.json", listingsJSON))
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, domain.PlatformRakuten, batches[0].Platform)
		assert.Len(t, batches[0].Listings, 2)
	})

	t.Run("array of batches", func(t *testing.T) {
		batches, err := loadListings(writeFile(t, dir, "array.json", "["+listingsJSON+`,{"platform":"yahoo","listings":[]}]`))
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, domain.PlatformYahoo, batches[1].Platform)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := loadListings(writeFile(t, dir, "broken.json", "{"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadListings(filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})
}

func TestLoadPreferences(t *testing.T) {
	dir := t.TempDir()

	prefs, err := loadPreferences(writeFile(t, dir, "prefs.json", `{
		"goal": "diet", "exerciseFrequency": "light", "bodyHint": "female", "budget": "low",
		"flavorPreference": "light", "timing": "morning", "lactoseIntolerant": "yes"
	}`))
	require.NoError(t, err)
	assert.Equal(t, domain.GoalDiet, prefs.Goal)
	assert.True(t, prefs.LactoseIntolerant)

	_, err = loadPreferences(writeFile(t, dir, "bad.json", `{"goal": "fly"}`))
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestRankCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	input := writeFile(t, dir, "listings.json", listingsJSON)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"rank", input})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	var result domain.RankingResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.Len(t, result.Products, 1)
	assert.Equal(t, "ザバス", result.Products[0].Brand)
	assert.Equal(t, 1, result.Products[0].Rank)
	assert.Equal(t, 2, result.Metadata.TotalFound)
	assert.Equal(t, 1, result.Metadata.Valid)
}
