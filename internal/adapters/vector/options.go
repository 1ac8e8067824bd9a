package vector

import (
	"github.com/talentco/skillsearch/pkg/logger"
)

// Option applies a configuration option to the Gateway.
type Option func(*Gateway)

// WithMinSimilarity sets the similarity floor below which hits are dropped.
func WithMinSimilarity(min float64) Option {
	return func(g *Gateway) {
		if min >= 0 && min <= 1 {
			g.minSimilarity = min
		}
	}
}

// WithCacheSize bounds the query embedding cache. Zero or negative disables
// the bound.
func WithCacheSize(size int) Option {
	return func(g *Gateway) {
		g.cacheSize = size
	}
}

// WithLogger sets a custom logger for the gateway.
func WithLogger(logger logger.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}
