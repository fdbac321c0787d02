package usecase

import (
	"strings"

	"moodrec/internal/domain"
)

// OverviewLimit is the number of overview characters kept per context entry.
const OverviewLimit = 300

// BuildContext renders hits, in order, into the grounding block handed to the
// generative model. Blank fields get placeholder values.
func BuildContext(hits []domain.SearchResult) string {
	var sb strings.Builder
	for _, h := range hits {
		sb.WriteString("\nTitle: ")
		sb.WriteString(orDefault(h.Item.Title, "Unknown Title"))
		sb.WriteString("\nType: ")
		sb.WriteString(orDefault(h.Item.Category, "Unknown Category"))
		sb.WriteString("\nGenre: ")
		sb.WriteString(orDefault(h.Item.Genre, "Unknown Genre"))
		sb.WriteString("\nYear: ")
		sb.WriteString(orDefault(h.Item.Year, "Unknown Year"))
		sb.WriteString("\nRating: ")
		sb.WriteString(orDefault(h.Item.Rating, "Not Rated"))
		sb.WriteString("\nOverview: ")
		sb.WriteString(truncateRunes(overviewText(h), OverviewLimit))
		sb.WriteString("...\n\n---\n")
	}
	return sb.String()
}

func overviewText(h domain.SearchResult) string {
	if h.Document != "" {
		return h.Document
	}
	return h.Item.Overview
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
