package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/proteinfinder/backend/internal/domain"
)

// DedupeKey normalizes a product name for duplicate detection: width-folded,
// lowercased, with whitespace, punctuation, brackets and symbols (★, ＋, ～)
// removed.
func DedupeKey(name string) string {
	folded := strings.ToLower(width.Fold.String(name))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, folded)
}

// Dedupe collapses products sharing a DedupeKey into one representative: the
// one with the most reviews, the first seen on ties. Groups keep the position
// of their first member. Products whose key is empty are never grouped.
func Dedupe(products []domain.Product) []domain.Product {
	result := make([]domain.Product, 0, len(products))
	index := make(map[string]int, len(products))

	for _, p := range products {
		key := DedupeKey(p.Name)
		if key == "" {
			result = append(result, p)
			continue
		}
		if i, seen := index[key]; seen {
			if p.ReviewCount > result[i].ReviewCount {
				result[i] = p
			}
			continue
		}
		index[key] = len(result)
		result = append(result, p)
	}

	return result
}
