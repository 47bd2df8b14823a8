package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/app"
	"github.com/proteinfinder/backend/internal/domain"
	"github.com/proteinfinder/backend/internal/usecase"
)

var rankPrefsFile string

var rankCmd = &cobra.Command{
	Use:   "rank <listings.json>...",
	Short: "Rank saved marketplace listings offline",
	Long: `Ranks listings saved as JSON. Each file holds one {"platform": ..., "listings": [...]}
object or an array of them. Without --prefs, neutral preferences are used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs := usecase.NeutralPreferences()
		if rankPrefsFile != "" {
			p, err := loadPreferences(rankPrefsFile)
			if err != nil {
				return err
			}
			prefs = p
		}

		var batches []domain.SourceListings
		for _, path := range args {
			b, err := loadListings(path)
			if err != nil {
				return err
			}
			batches = append(batches, b...)
		}

		pipeline := usecase.NewPipeline(app.PipelineConfig(cfg), zap.L())
		result := pipeline.RankProducts(batches, prefs)
		zap.L().Info("ranked listings",
			zap.Int("total", result.Metadata.TotalFound),
			zap.Int("valid", result.Metadata.Valid),
			zap.Int("unique", result.Metadata.Unique),
			zap.Int("returned", len(result.Products)),
		)

		return writeJSON(cmd, result)
	},
}

func init() {
	rankCmd.Flags().StringVar(&rankPrefsFile, "prefs", "", "JSON file with diagnosis answers")
	rootCmd.AddCommand(rankCmd)
}

// loadPreferences reads and validates a diagnosis answers file.
func loadPreferences(path string) (domain.UserPreferenceProfile, error) {
	answers, err := readAnswers(path)
	if err != nil {
		return domain.UserPreferenceProfile{}, err
	}
	return usecase.ParsePreferences(answers)
}

func readAnswers(path string) (domain.PreferenceAnswers, error) {
	var answers domain.PreferenceAnswers
	data, err := os.ReadFile(path)
	if err != nil {
		return answers, eris.Wrapf(err, "read preferences %s", path)
	}
	if err := json.Unmarshal(data, &answers); err != nil {
		return answers, eris.Wrapf(err, "decode preferences %s", path)
	}
	return answers, nil
}

// loadListings accepts a single batch object or an array of batches.
func loadListings(path string) ([]domain.SourceListings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read listings %s", path)
	}

	var batches []domain.SourceListings
	if err := json.Unmarshal(data, &batches); err == nil {
		return batches, nil
	}

	var batch domain.SourceListings
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, eris.Wrapf(err, "decode listings %s", path)
	}
	return []domain.SourceListings{batch}, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
