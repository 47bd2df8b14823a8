package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proteinfinder/backend/internal/app"
	"github.com/proteinfinder/backend/internal/domain"
)

var searchPrefsFile string

var searchCmd = &cobra.Command{
	Use:   "search [keyword...]",
	Short: "Search the marketplaces live and print the ranking",
	Long:  "Queries every configured marketplace. With --prefs the query is derived from the diagnosis answers; otherwise the keyword is used.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.HasRakuten() && !cfg.HasYahoo() {
			return eris.New("no marketplace credentials configured")
		}
		keyword := strings.TrimSpace(strings.Join(args, " "))
		if searchPrefsFile == "" && keyword == "" {
			return eris.New("a keyword or --prefs is required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		service, closeCache, err := app.NewSearchService(cfg, zap.L())
		if err != nil {
			return err
		}
		defer closeCache()

		var result *domain.RankingResult
		if searchPrefsFile != "" {
			result, err = recommendFromFile(ctx, service, searchPrefsFile)
			if err != nil {
				return err
			}
		} else {
			result = service.SearchKeyword(ctx, keyword)
		}

		return writeJSON(cmd, result)
	},
}

type recommender interface {
	Recommend(ctx context.Context, answers domain.PreferenceAnswers) (*domain.RankingResult, error)
}

func recommendFromFile(ctx context.Context, service recommender, path string) (*domain.RankingResult, error) {
	answers, err := readAnswers(path)
	if err != nil {
		return nil, err
	}
	return service.Recommend(ctx, answers)
}

func init() {
	searchCmd.Flags().StringVar(&searchPrefsFile, "prefs", "", "JSON file with diagnosis answers")
	rootCmd.AddCommand(searchCmd)
}
