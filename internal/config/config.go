// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/talentco/skillsearch/internal/domain/model"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// SnapshotPath points at the offline-ingested corpus snapshot JSON.
	SnapshotPath string `koanf:"snapshot_path"`

	// IngestWorkers sets how many goroutines decode user records on load.
	IngestWorkers int `koanf:"ingest_workers"`

	// TopKSkills is the default number of skills fetched from the vector index.
	TopKSkills int `koanf:"top_k_skills"`

	// TopNUsers is the default size of the primary result set.
	TopNUsers int `koanf:"top_n_users"`

	// MinSimilarity drops vector hits below this similarity floor.
	MinSimilarity float64 `koanf:"min_similarity"`

	// SimilarityExponent controls relevancy weighting (similarity^exponent).
	SimilarityExponent float64 `koanf:"similarity_exponent"`

	// RatingMultipliers maps stored rating values ("1".."3") to score
	// multipliers.
	RatingMultipliers map[string]float64 `koanf:"rating_multipliers"`

	// ExcellentMinScore, StrongMinScore and GoodMinScore are the lower
	// bounds of the display-score bands; everything below GoodMinScore
	// lands in the catch-all band.
	ExcellentMinScore float64 `koanf:"excellent_min_score"`
	StrongMinScore    float64 `koanf:"strong_min_score"`
	GoodMinScore      float64 `koanf:"good_min_score"`

	// SearchTimeoutMS bounds one search request end to end.
	SearchTimeoutMS int `koanf:"search_timeout_ms"`

	// SearchMaxRetries bounds retries of the external gateway calls.
	SearchMaxRetries int `koanf:"search_max_retries"`

	// EmbedCacheSize bounds the in-memory query embedding cache.
	EmbedCacheSize int `koanf:"embed_cache_size"`

	// AWS settings for the embedding and vector index clients.
	AWSRegion        string `koanf:"aws_region"`
	AWSProfile       string `koanf:"aws_profile"`
	EmbeddingModelID string `koanf:"embedding_model_id"`
	EmbeddingDim     int    `koanf:"embedding_dim"`
	VectorBucket     string `koanf:"vector_bucket"`
	VectorIndex      string `koanf:"vector_index"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		SnapshotPath:       "data/user_db.json",
		IngestWorkers:      runtime.NumCPU(),
		TopKSkills:         20,
		TopNUsers:          5,
		MinSimilarity:      0.35,
		SimilarityExponent: 2.0,
		RatingMultipliers: map[string]float64{
			"1": 1.0,
			"2": 3.0,
			"3": 6.0,
		},
		ExcellentMinScore: 80,
		StrongMinScore:    60,
		GoodMinScore:      40,
		SearchTimeoutMS:   10_000,
		SearchMaxRetries:  3,
		EmbedCacheSize:    10_000,
		AWSRegion:         "ap-southeast-2",
		AWSProfile:        "",
		EmbeddingModelID:  "amazon.titan-embed-text-v2:0",
		EmbeddingDim:      1024,
		VectorBucket:      "",
		VectorIndex:       "skills-index",
	}
	return c
}

// RatingMultiplierTable converts the string-keyed multiplier map into the
// rating-keyed form used by the scorer. Keys must parse as integers.
func (c *Config) RatingMultiplierTable() (map[model.Rating]float64, error) {
	table := make(map[model.Rating]float64, len(c.RatingMultipliers))
	for key, mult := range c.RatingMultipliers {
		n, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: rating multiplier key %q", ErrInvalidConfig, key)
		}
		if mult <= 0 {
			return nil, fmt.Errorf("%w: rating multiplier for %q must be positive", ErrInvalidConfig, key)
		}
		table[model.Rating(n)] = mult
	}
	return table, nil
}
