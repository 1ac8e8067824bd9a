package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if SKILLSEARCH_CONFIG is set
//  3. env (prefix SKILLSEARCH_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SKILLSEARCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SKILLSEARCH_ADDR, SKILLSEARCH_TOP_K_SKILLS, ...
	// Map env keys like SKILLSEARCH_TOP_K_SKILLS -> top_k_skills (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SKILLSEARCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "skillsearch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.TopKSkills < 1 {
		return nil, fmt.Errorf("%w: top_k_skills must be positive", ErrInvalidConfig)
	}
	if cfg.TopNUsers < 1 {
		return nil, fmt.Errorf("%w: top_n_users must be positive", ErrInvalidConfig)
	}
	if cfg.MinSimilarity < 0 || cfg.MinSimilarity > 1 {
		return nil, fmt.Errorf("%w: min_similarity must be within [0,1]", ErrInvalidConfig)
	}
	if cfg.SimilarityExponent <= 0 {
		return nil, fmt.Errorf("%w: similarity_exponent must be positive", ErrInvalidConfig)
	}
	if cfg.GoodMinScore > cfg.StrongMinScore || cfg.StrongMinScore > cfg.ExcellentMinScore {
		return nil, fmt.Errorf("%w: score band minimums must be ascending", ErrInvalidConfig)
	}
	if _, err := cfg.RatingMultiplierTable(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
