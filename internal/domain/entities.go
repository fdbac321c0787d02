package domain

import "strconv"

// Content categories as they appear in the catalog dataset.
const (
	CategoryMovie  = "Movie"
	CategoryTVShow = "TV Show"
)

type CatalogItem struct {
	ID       int
	Title    string
	Category string
	Genre    string
	Year     string
	Rating   string
	Overview string
}

// DocID is the key the item is stored under in the similarity index.
func (c CatalogItem) DocID() string {
	return strconv.Itoa(c.ID)
}

// Metadata returns the full record as stored alongside the item's vector.
func (c CatalogItem) Metadata() map[string]string {
	return map[string]string{
		"id":       strconv.Itoa(c.ID),
		"title":    c.Title,
		"category": c.Category,
		"genre":    c.Genre,
		"year":     c.Year,
		"rating":   c.Rating,
		"overview": c.Overview,
	}
}

// ItemFromMetadata rebuilds a catalog item from a stored metadata record.
func ItemFromMetadata(meta map[string]string) CatalogItem {
	id, _ := strconv.Atoi(meta["id"])
	return CatalogItem{
		ID:       id,
		Title:    meta["title"],
		Category: meta["category"],
		Genre:    meta["genre"],
		Year:     meta["year"],
		Rating:   meta["rating"],
		Overview: meta["overview"],
	}
}

// Catalog is the cleaned dataset. Item IDs are contiguous from zero.
type Catalog struct {
	Source string
	Items  []CatalogItem
}

func (c *Catalog) Len() int {
	return len(c.Items)
}

// Stats summarizes the catalog for the presentation layer.
func (c *Catalog) Stats() Stats {
	stats := Stats{Total: len(c.Items)}
	genres := make(map[string]struct{})
	for _, it := range c.Items {
		switch it.Category {
		case CategoryMovie:
			stats.Movies++
		case CategoryTVShow:
			stats.Series++
		}
		if it.Genre != "" {
			genres[it.Genre] = struct{}{}
		}
	}
	stats.Genres = len(genres)
	return stats
}

type Stats struct {
	Total  int `json:"total"`
	Movies int `json:"movies"`
	Series int `json:"series"`
	Genres int `json:"genres"`
}

// SearchResult is one ranked hit. Lower distance is closer.
type SearchResult struct {
	Item     CatalogItem
	Document string
	Distance float64
}

// Status classifies the outcome of a recommendation request.
type Status string

const (
	StatusOK            Status = "ok"
	StatusNoResults     Status = "no_results"
	StatusDegraded      Status = "degraded"
	StatusNotConfigured Status = "not_configured"
)

// Recommendation is the result of one request. Text is always safe to show;
// Err carries the cause when Status is not StatusOK.
type Recommendation struct {
	RequestID string
	Mood      Mood
	Query     string
	Text      string
	Status    Status
	Hits      []SearchResult
	Err       error
}

func (r Recommendation) OK() bool {
	return r.Status == StatusOK
}
