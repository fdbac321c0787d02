package usecase

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"moodrec/internal/domain"
)

func TestBuildContext_Format(t *testing.T) {
	hits := []domain.SearchResult{{
		Item:     domain.CatalogItem{Title: "Up", Category: "Movie", Genre: "Animation", Year: "2009", Rating: "PG"},
		Document: "An old man flies his house.",
	}}

	want := "\nTitle: Up\nType: Movie\nGenre: Animation\nYear: 2009\nRating: PG\nOverview: An old man flies his house....\n\n---\n"
	assert.Equal(t, want, BuildContext(hits))
}

func TestBuildContext_Defaults(t *testing.T) {
	got := BuildContext([]domain.SearchResult{{Document: "text"}})

	for _, s := range []string{"Title: Unknown Title", "Type: Unknown Category", "Genre: Unknown Genre", "Year: Unknown Year", "Rating: Not Rated"} {
		assert.Contains(t, got, s)
	}
}

func TestBuildContext_PreservesOrder(t *testing.T) {
	hits := []domain.SearchResult{
		{Item: domain.CatalogItem{Title: "First"}, Document: "a"},
		{Item: domain.CatalogItem{Title: "Second"}, Document: "b"},
		{Item: domain.CatalogItem{Title: "Third"}, Document: "c"},
	}
	got := BuildContext(hits)

	i1 := strings.Index(got, "Title: First")
	i2 := strings.Index(got, "Title: Second")
	i3 := strings.Index(got, "Title: Third")
	assert.True(t, i1 >= 0 && i1 < i2 && i2 < i3)
	assert.Equal(t, 3, strings.Count(got, "\n---\n"))
}

func TestBuildContext_TruncatesRunes(t *testing.T) {
	overview := strings.Repeat("é", 400)
	got := BuildContext([]domain.SearchResult{{Document: overview}})

	start := strings.Index(got, "Overview: ") + len("Overview: ")
	end := strings.Index(got, "...\n")
	kept := got[start:end]
	assert.True(t, utf8.ValidString(kept))
	assert.Equal(t, OverviewLimit, utf8.RuneCountInString(kept))
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}
