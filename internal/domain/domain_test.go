package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupMood(t *testing.T) {
	for _, key := range []string{"happy", "HAPPY", "😊 Happy", " Happy "} {
		m, ok := LookupMood(key)
		require.True(t, ok, key)
		assert.Equal(t, "happy", m.ID)
		assert.Equal(t, "Happy", m.PlainName)
	}

	_, ok := LookupMood("bored")
	assert.False(t, ok)
}

func TestResolveMood_Fallback(t *testing.T) {
	m := ResolveMood("Bored")
	assert.Equal(t, FallbackQuery, m.QueryPhrase)
	assert.Equal(t, "Bored", m.PlainName)
	assert.Equal(t, "bored", m.ID)
}

func TestMoods_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Moods {
		assert.False(t, seen[m.ID], "duplicate mood %s", m.ID)
		seen[m.ID] = true
		assert.NotEmpty(t, m.QueryPhrase)
		assert.NotContains(t, m.PlainName, " ")
	}
	assert.Len(t, Moods, 12)
}

func TestCatalogStats(t *testing.T) {
	c := &Catalog{Items: []CatalogItem{
		{ID: 0, Category: CategoryMovie, Genre: "Comedy"},
		{ID: 1, Category: CategoryTVShow, Genre: "Drama"},
		{ID: 2, Category: CategoryMovie, Genre: "Comedy"},
		{ID: 3, Category: "Special", Genre: ""},
	}}

	assert.Equal(t, Stats{Total: 4, Movies: 2, Series: 1, Genres: 2}, c.Stats())
}

func TestMetadataRoundTrip(t *testing.T) {
	item := CatalogItem{ID: 42, Title: "Up", Category: CategoryMovie, Genre: "Animation", Year: "2009", Rating: "PG", Overview: "Balloons."}
	assert.Equal(t, item, ItemFromMetadata(item.Metadata()))
	assert.Equal(t, "42", item.DocID())
}

func TestSetupError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewSetupError("load", errors.New("boom")))
	assert.True(t, IsSetupError(err))
	assert.EqualError(t, errors.Unwrap(err), "setup failed at load: boom")
	assert.False(t, IsSetupError(ErrNoResults))
}
