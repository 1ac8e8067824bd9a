// Package vector fronts the external embedding model and vector index. The
// gateway turns a natural-language query into the set of skills above the
// similarity floor, sorted best first.
package vector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/talentco/skillsearch/pkg/logger"
	"github.com/talentco/skillsearch/pkg/metrics"
)

// Embedder produces a dense vector for a piece of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Index answers nearest-neighbour queries over the skill corpus.
type Index interface {
	Query(ctx context.Context, vec []float32, topK int) ([]Hit, error)
}

// Gateway combines an embedder and an index into one skill search call.
// It performs no retries; callers own the retry policy.
type Gateway struct {
	embedder      Embedder
	index         Index
	cache         *embedCache
	cacheSize     int
	minSimilarity float64
	logger        logger.Logger
}

// NewGateway creates a gateway with configuration options.
func NewGateway(embedder Embedder, index Index, opts ...Option) *Gateway {
	g := &Gateway{
		embedder:      embedder,
		index:         index,
		cacheSize:     10_000,
		minSimilarity: 0.35,
		logger:        logger.Get().Named("vector"),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.cache = newEmbedCache(g.cacheSize)
	return g
}

// Search embeds the query and returns up to topK matches at or above the
// similarity floor, best first. An empty result is not an error; it means
// the corpus holds nothing close enough to the query.
func (g *Gateway) Search(ctx context.Context, query string, topK int) ([]Match, error) {
	vec, err := g.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	hits, err := g.index.Query(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndex, err)
	}
	metrics.RecordVectorQueryLatency(float64(time.Since(start).Milliseconds()))

	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		sim := clamp01(1 - h.Distance)
		if sim < g.minSimilarity {
			continue
		}
		matches = append(matches, Match{SkillID: h.SkillID, Similarity: sim})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].SkillID < matches[j].SkillID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	g.logger.Debug(ctx, "vector search",
		logger.Int("hits", len(hits)),
		logger.Int("matches", len(matches)),
	)
	return matches, nil
}

// embed resolves the query vector through the cache.
func (g *Gateway) embed(ctx context.Context, query string) ([]float32, error) {
	if vec, ok := g.cache.get(query); ok {
		metrics.RecordEmbedCacheHit()
		return vec, nil
	}
	metrics.RecordEmbedCacheMiss()

	start := time.Now()
	vec, err := g.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}
	metrics.RecordEmbeddingLatency(float64(time.Since(start).Milliseconds()))

	g.cache.put(query, vec)
	metrics.UpdateEmbedCacheSize(g.cache.len())
	return vec, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
