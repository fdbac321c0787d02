package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"moodrec/internal/adapter/embedding"
	"moodrec/internal/adapter/memstore"
	"moodrec/internal/domain"
	"moodrec/internal/port"
)

const testDim = 384

func testCatalog(n int) *domain.Catalog {
	genres := []string{"Comedy", "Drama", "Documentary", "Action", "Romance"}
	items := make([]domain.CatalogItem, n)
	for i := range items {
		g := genres[i%len(genres)]
		items[i] = domain.CatalogItem{
			ID:       i,
			Title:    fmt.Sprintf("Title %02d", i),
			Category: domain.CategoryMovie,
			Genre:    g,
			Year:     "2020",
			Rating:   "PG",
			Overview: fmt.Sprintf("An uplifting %s story number %d about friends and laughter", strings.ToLower(g), i),
		}
	}
	return &domain.Catalog{Items: items}
}

func newMemIndex(t *testing.T, dim int) port.Index {
	t.Helper()
	st, err := memstore.NewMemoryStore("l2")
	require.NoError(t, err)
	idx, err := st.Collection("test", port.ModelInfo{Name: "hash", Dimension: dim})
	require.NoError(t, err)
	return idx
}

// recordingIndex counts Add calls and the ids they carried.
type recordingIndex struct {
	port.Index
	mu      sync.Mutex
	adds    int
	ids     []string
	failAdd int // fail the n-th Add call (1-based), 0 = never
	failQry bool
}

func (r *recordingIndex) Add(ctx context.Context, batch []port.IndexEntry) error {
	r.mu.Lock()
	r.adds++
	n := r.adds
	r.mu.Unlock()
	if r.failAdd > 0 && n == r.failAdd {
		return errors.New("disk full")
	}
	if err := r.Index.Add(ctx, batch); err != nil {
		return err
	}
	r.mu.Lock()
	for _, e := range batch {
		r.ids = append(r.ids, e.ID)
	}
	r.mu.Unlock()
	return nil
}

func (r *recordingIndex) Query(ctx context.Context, v []float32, n int) ([]port.IndexHit, error) {
	if r.failQry {
		return nil, errors.New("index unavailable")
	}
	return r.Index.Query(ctx, v, n)
}

// countingEmbedder wraps the hash embedder and counts calls.
type countingEmbedder struct {
	*embedding.HashEmbedder
	calls int
	fail  error
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	c.calls++
	if c.fail != nil {
		return nil, c.fail
	}
	return c.HashEmbedder.Embed(ctx, texts)
}

func newCountingEmbedder() *countingEmbedder {
	return &countingEmbedder{HashEmbedder: embedding.NewHashEmbedder(testDim)}
}

var titleLine = regexp.MustCompile(`(?m)^Title: (.+)$`)

// pickingLLM answers with the first five titles found in the prompt context.
type pickingLLM struct {
	calls   int
	prompts []string
	err     error
}

func (l *pickingLLM) Generate(ctx context.Context, prompt string) (string, error) {
	l.calls++
	l.prompts = append(l.prompts, prompt)
	if l.err != nil {
		return "", l.err
	}
	var picks []string
	for _, m := range titleLine.FindAllStringSubmatch(prompt, -1) {
		picks = append(picks, m[1])
		if len(picks) == Picks {
			break
		}
	}
	return strings.Join(picks, "\n"), nil
}

func (l *pickingLLM) ModelName() string { return "picker" }
