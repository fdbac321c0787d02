// Package catalog loads the content dataset into a cleaned domain.Catalog.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"moodrec/internal/domain"
)

// RequiredColumns must all be present in the dataset header.
var RequiredColumns = []string{"overview", "title", "category", "genre", "year", "rating"}

// ResolvePath expands a doublestar pattern to the lexicographically first
// matching file. Plain paths are returned unchanged if they exist.
func ResolvePath(pattern string) (string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		if _, err := os.Stat(pattern); err != nil {
			return "", fmt.Errorf("dataset file not found at %s: %w", pattern, err)
		}
		return pattern, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return "", fmt.Errorf("invalid dataset pattern %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("dataset file not found at %s: %w", pattern, os.ErrNotExist)
	}
	sort.Strings(matches)
	return matches[0], nil
}

// LoadFile resolves pattern and loads the dataset it points to.
func LoadFile(pattern string) (*domain.Catalog, error) {
	path, err := ResolvePath(pattern)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	cat, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("error loading dataset %s: %w", path, err)
	}
	cat.Source = path
	return cat, nil
}

// Load parses CSV rows, drops rows whose overview is blank and numbers the
// remaining rows from zero in their original order.
func Load(r io.Reader) (*domain.Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range RequiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset missing required columns: %s", strings.Join(missing, ", "))
	}

	field := func(rec []string, name string) string {
		i := cols[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	cat := &domain.Catalog{}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse dataset: %w", err)
		}

		overview := field(rec, "overview")
		if overview == "" {
			continue
		}

		cat.Items = append(cat.Items, domain.CatalogItem{
			ID:       len(cat.Items),
			Title:    field(rec, "title"),
			Category: field(rec, "category"),
			Genre:    field(rec, "genre"),
			Year:     normalizeYear(field(rec, "year")),
			Rating:   field(rec, "rating"),
			Overview: overview,
		})
	}

	return cat, nil
}

// normalizeYear turns "2019.0" style floats into "2019".
func normalizeYear(y string) string {
	if whole, frac, ok := strings.Cut(y, "."); ok && strings.Trim(frac, "0") == "" {
		return whole
	}
	return y
}
