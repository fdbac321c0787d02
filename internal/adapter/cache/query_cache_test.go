package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls  int
	inputs []string
}

func (e *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.inputs = append(e.inputs, texts...)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

func (e *countingEmbedder) Dimension() int   { return 1 }
func (e *countingEmbedder) ModelName() string { return "count" }

func TestQueryCache_LRUEviction(t *testing.T) {
	c := NewQueryCache(2, time.Minute)
	c.Put("m", "a", []float32{1})
	c.Put("m", "b", []float32{2})

	_, ok := c.Get("m", "a")
	require.True(t, ok)

	c.Put("m", "c", []float32{3})

	_, ok = c.Get("m", "b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("m", "a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestQueryCache_TTL(t *testing.T) {
	c := NewQueryCache(10, time.Millisecond)
	c.Put("m", "a", []float32{1})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("m", "a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestQueryCache_KeyedByModel(t *testing.T) {
	c := NewQueryCache(10, time.Minute)
	c.Put("m1", "a", []float32{1})

	_, ok := c.Get("m2", "a")
	assert.False(t, ok)

	c.Invalidate()
	_, ok = c.Get("m1", "a")
	assert.False(t, ok)
}

func TestCachedEmbedder_OnlyEmbedsMisses(t *testing.T) {
	inner := &countingEmbedder{}
	e := NewCachedEmbedder(inner, NewQueryCache(10, time.Minute))
	ctx := context.Background()

	_, err := e.Embed(ctx, []string{"happy"})
	require.NoError(t, err)

	vecs, err := e.Embed(ctx, []string{"sad!", "happy"})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, []string{"happy", "sad!"}, inner.inputs)
	assert.Equal(t, [][]float32{{4}, {5}}, vecs)

	_, err = e.Embed(ctx, []string{"happy", "sad!"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
