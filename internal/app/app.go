// Package app is the composition root: it loads the catalog, opens the
// index, builds the embedder and generative model once, and serves every
// request through the same handles.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"moodrec/config"
	"moodrec/internal/adapter/cache"
	"moodrec/internal/adapter/catalog"
	"moodrec/internal/adapter/embedding"
	"moodrec/internal/adapter/llm"
	"moodrec/internal/adapter/memstore"
	"moodrec/internal/adapter/store"
	"moodrec/internal/domain"
	"moodrec/internal/port"
	"moodrec/internal/usecase"
)

// App holds the state shared by all requests. Setup takes the write lock;
// request methods take the read lock.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	mu        sync.RWMutex
	catalog   *domain.Catalog
	opener    port.IndexOpener
	index     port.Index
	queries   *cache.QueryCache
	retrieve  *usecase.RetrieveUseCase
	recommend *usecase.RecommendUseCase

	embedder port.Embedder // injected, overrides cfg.Embedding
	llm      port.LLM      // injected, overrides cfg.LLM
}

// Option customizes an App.
type Option func(*App)

// WithEmbedder replaces the configured embedding provider.
func WithEmbedder(e port.Embedder) Option {
	return func(a *App) { a.embedder = e }
}

// WithLLM replaces the configured generative model.
func WithLLM(l port.LLM) Option {
	return func(a *App) { a.llm = l }
}

func New(cfg *config.Config, log zerolog.Logger, opts ...Option) *App {
	a := &App{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetupOptions controls one Setup run.
type SetupOptions struct {
	// Rebuild drops the collection before ingestion.
	Rebuild  bool
	Progress usecase.ProgressFunc
}

// SetupResult describes the state after Setup.
type SetupResult struct {
	Catalog domain.Stats
	Index   *usecase.IndexResult
	Ready   bool // a generative model is configured
}

// Setup loads the catalog and makes sure the index is populated. Failures are
// returned as *domain.SetupError. A missing generative model credential is
// not a setup failure: it leaves the recommender not ready.
func (a *App) Setup(ctx context.Context, opts SetupOptions) (*SetupResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.opener != nil {
		if err := a.opener.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close previous index")
		}
		a.opener, a.index, a.retrieve, a.recommend = nil, nil, nil, nil
	}

	cat, err := catalog.LoadFile(a.cfg.Dataset.Path)
	if err != nil {
		return nil, domain.NewSetupError("load", err)
	}
	a.log.Info().Str("source", cat.Source).Int("items", cat.Len()).Msg("catalog loaded")

	emb, err := a.buildEmbedder()
	if err != nil {
		return nil, domain.NewSetupError("embedding", err)
	}

	opener, err := a.openStore()
	if err != nil {
		return nil, domain.NewSetupError("index", err)
	}

	if opts.Rebuild {
		if err := opener.Drop(a.cfg.Index.Collection); err != nil {
			opener.Close()
			return nil, domain.NewSetupError("index", fmt.Errorf("failed to drop collection: %w", err))
		}
		a.log.Info().Str("collection", a.cfg.Index.Collection).Msg("collection dropped for rebuild")
	}

	index, err := opener.Collection(a.cfg.Index.Collection, port.ModelInfo{
		Name:      emb.ModelName(),
		Dimension: emb.Dimension(),
	})
	if err != nil {
		opener.Close()
		return nil, domain.NewSetupError("index", err)
	}

	indexUC := usecase.NewIndexUseCase(index, emb, a.cfg.Index.BatchSize, a.log)
	indexed, err := indexUC.EnsureIndexed(ctx, cat, opts.Progress)
	if err != nil {
		opener.Close()
		return nil, domain.NewSetupError("ingest", err)
	}

	a.queries = cache.NewQueryCache(a.cfg.Embedding.CacheSize, a.cfg.Embedding.CacheTTL)
	queryEmb := cache.NewCachedEmbedder(emb, a.queries)

	gen, err := a.buildLLM()
	if err != nil {
		if !errors.Is(err, domain.ErrNotConfigured) {
			opener.Close()
			return nil, domain.NewSetupError("llm", err)
		}
		a.log.Warn().Str("env", a.cfg.LLM.APIKeyEnv).Msg("generative model credential not found, recommendations disabled")
	}

	a.catalog = cat
	a.opener = opener
	a.index = index
	a.retrieve = usecase.NewRetrieveUseCase(index, queryEmb, a.log)
	a.recommend = usecase.NewRecommendUseCase(a.retrieve, gen, a.cfg.Retrieve.RecommendResults, a.log)

	return &SetupResult{
		Catalog: cat.Stats(),
		Index:   indexed,
		Ready:   gen != nil,
	}, nil
}

func (a *App) buildEmbedder() (port.Embedder, error) {
	if a.embedder != nil {
		return a.embedder, nil
	}

	ec := a.cfg.Embedding
	switch ec.Provider {
	case "openai":
		return embedding.NewOpenAIEmbedder(ec.APIKeyEnv, ec.Model, ec.BaseURL, ec.Dimension)
	case "ollama":
		return embedding.NewOllamaEmbedder(ec.Model, ec.BaseURL, ec.Dimension), nil
	case "hash":
		if ec.Stemming {
			return embedding.NewHashEmbedder(ec.Dimension, embedding.WithStemming()), nil
		}
		return embedding.NewHashEmbedder(ec.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", ec.Provider)
	}
}

func (a *App) openStore() (port.IndexOpener, error) {
	switch a.cfg.Index.Backend {
	case "bolt", "":
		return store.NewBoltStore(a.cfg.Index.Path, a.cfg.Index.Metric)
	case "memory":
		return memstore.NewMemoryStore(a.cfg.Index.Metric)
	default:
		return nil, fmt.Errorf("unsupported index backend: %s", a.cfg.Index.Backend)
	}
}

// buildLLM returns a nil LLM and domain.ErrNotConfigured when no credential is set.
func (a *App) buildLLM() (port.LLM, error) {
	if a.llm != nil {
		return a.llm, nil
	}

	lc := a.cfg.LLM
	baseURL := lc.BaseURL
	switch lc.Provider {
	case "gemini", "":
		if baseURL == "" {
			baseURL = llm.GeminiBaseURL
		}
	case "openai":
		if baseURL == "" {
			baseURL = llm.OpenAIBaseURL
		}
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", lc.Provider)
	}

	gen, err := llm.NewChatLLM(lc.APIKey(), lc.Model, baseURL, lc.Timeout)
	if err != nil {
		return nil, err
	}
	return llm.NewBreakerLLM(gen, lc.BreakerFailures, lc.BreakerCooldown, a.log), nil
}

// Ready reports whether recommendations can be generated.
func (a *App) Ready() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.recommend != nil && a.recommend.Ready()
}

// Stats summarizes the loaded catalog.
func (a *App) Stats() (domain.Stats, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.catalog == nil {
		return domain.Stats{}, domain.ErrNotReady
	}
	return a.catalog.Stats(), nil
}

// IndexCount returns the number of entries in the index.
func (a *App) IndexCount(ctx context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.index == nil {
		return 0, domain.ErrNotReady
	}
	return a.index.Count(ctx)
}

// Recommend generates a recommendation for moodKey. It never fails; see
// domain.Recommendation for how errors are reported.
func (a *App) Recommend(ctx context.Context, moodKey string) domain.Recommendation {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.recommend == nil {
		mood := domain.ResolveMood(moodKey)
		return domain.Recommendation{
			Mood:   mood,
			Query:  mood.QueryPhrase,
			Status: domain.StatusNotConfigured,
			Err:    domain.ErrNotReady,
			Text:   domain.ErrNotReady.Error(),
		}
	}
	return a.recommend.Recommend(ctx, moodKey)
}

// Prompt renders the recommendation prompt for moodKey without calling the
// generative model.
func (a *App) Prompt(ctx context.Context, moodKey string) (string, []domain.SearchResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.recommend == nil {
		return "", nil, domain.ErrNotReady
	}
	return a.recommend.Prompt(ctx, moodKey)
}

// Search returns up to n catalog hits for query. A non-positive n uses
// retrieve.search_results.
func (a *App) Search(ctx context.Context, query string, n int) ([]domain.SearchResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.retrieve == nil {
		return nil, domain.ErrNotReady
	}
	if n <= 0 {
		n = a.cfg.Retrieve.SearchResults
	}
	return a.retrieve.Search(ctx, query, n)
}

// Details returns the catalog entry closest to titleQuery.
func (a *App) Details(ctx context.Context, titleQuery string) (domain.SearchResult, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.retrieve == nil {
		return domain.SearchResult{}, domain.ErrNotReady
	}
	return a.retrieve.Details(ctx, titleQuery)
}

// Close releases the index.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.opener == nil {
		return nil
	}
	err := a.opener.Close()
	a.opener, a.index, a.retrieve, a.recommend = nil, nil, nil, nil
	if a.queries != nil {
		a.queries.Invalidate()
	}
	return err
}
