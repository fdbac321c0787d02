package embedding

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"moodrec/internal/adapter/vector"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	ctx := context.Background()

	a, err := e.Embed(ctx, []string{"A funny comedy about friends"})
	require.NoError(t, err)
	b, err := e.Embed(ctx, []string{"A funny comedy about friends"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a[0], 64)
}

func TestHashEmbedder_SharedWordsAreCloser(t *testing.T) {
	e := NewHashEmbedder(256)
	vecs, err := e.Embed(context.Background(), []string{
		"uplifting comedy movies",
		"a hilarious comedy movies night",
		"grim war documentary",
	})
	require.NoError(t, err)

	near := vector.CosineDistance(vecs[0], vecs[1])
	far := vector.CosineDistance(vecs[0], vecs[2])
	assert.Less(t, near, far)
}

func TestHashEmbedder_EmptyText(t *testing.T) {
	e := NewHashEmbedder(8)
	vecs, err := e.Embed(context.Background(), []string{""})
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 8), vecs[0])
}

func TestNewOpenAIEmbedder_MissingKey(t *testing.T) {
	t.Setenv("MOODREC_TEST_EMPTY_KEY", "")
	_, err := NewOpenAIEmbedder("MOODREC_TEST_EMPTY_KEY", "text-embedding-3-small", "", 1536)
	assert.Error(t, err)
}

func TestNewOllamaEmbedder_Defaults(t *testing.T) {
	e := NewOllamaEmbedder("all-minilm", "", 0)
	assert.Equal(t, 384, e.Dimension())
	assert.Equal(t, "all-minilm", e.ModelName())
}

func TestOpenAIEmbedder_OrdersByIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"object":"list","model":"all-minilm",
			"data":[{"object":"embedding","index":1,"embedding":[0,1]},{"object":"embedding","index":0,"embedding":[1,0]}],
			"usage":{"prompt_tokens":2,"total_tokens":2}}`)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("all-minilm", srv.URL+"/v1/", 2)
	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vecs)
}

func TestOpenAIEmbedder_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"object":"list","model":"m","data":[{"object":"embedding","index":0,"embedding":[1,0,0]}],
			"usage":{"prompt_tokens":1,"total_tokens":1}}`)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("m", srv.URL+"/v1/", 2)
	_, err := e.Embed(context.Background(), []string{"only"})
	assert.Error(t, err)
}

func TestHashEmbedder_Stemming(t *testing.T) {
	plain := NewHashEmbedder(128)
	stemmed := NewHashEmbedder(128, WithStemming())
	assert.Equal(t, "hash", plain.ModelName())
	assert.Equal(t, "hash-porter", stemmed.ModelName())

	vecs, err := stemmed.Embed(context.Background(), []string{"running comedies", "run comedy"})
	require.NoError(t, err)
	assert.InDelta(t, 0, vector.CosineDistance(vecs[0], vecs[1]), 1e-6)
}
