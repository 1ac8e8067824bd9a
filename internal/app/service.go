// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/talentco/skillsearch/internal/adapters/ingest"
	"github.com/talentco/skillsearch/internal/adapters/repository"
	"github.com/talentco/skillsearch/internal/adapters/vector"
	"github.com/talentco/skillsearch/internal/domain/bucket"
	"github.com/talentco/skillsearch/internal/domain/match"
	"github.com/talentco/skillsearch/internal/domain/model"
	"github.com/talentco/skillsearch/internal/domain/rank"
	"github.com/talentco/skillsearch/internal/domain/scoring"
	"github.com/talentco/skillsearch/internal/domain/types"
	"github.com/talentco/skillsearch/pkg/logger"
	"github.com/talentco/skillsearch/pkg/metrics"
)

// Sentinel errors surfaced to the transport layer.
var (
	ErrEmptyQuery = errors.New("query must not be empty")
	ErrNoGateway  = errors.New("no vector gateway configured")
	ErrNotStarted = errors.New("service not started")
)

// Default request parameters.
const (
	defaultTopKSkills    = 20
	defaultTopNUsers     = 5
	defaultSearchTimeout = 10 * time.Second
	defaultMaxRetries    = 3
)

// Gateway answers natural-language skill queries.
type Gateway interface {
	Search(ctx context.Context, query string, topK int) ([]vector.Match, error)
}

// Service wires the search pipeline: gateway, matcher, scorer, ranker and
// bucketizer over an atomically swappable corpus snapshot.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      *repository.SnapshotStore
	gateway    Gateway
	matcher    *match.Matcher
	scorer     *scoring.Scorer
	ranker     *rank.Ranker
	bucketizer *bucket.Bucketizer

	// Configuration
	snapshotPath       string
	ingestWorkers      int
	topKSkills         int
	topNUsers          int
	searchTimeout      time.Duration
	maxRetries         int
	multipliers        map[model.Rating]float64
	similarityExponent float64
	bands              []bucket.Band

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGateway sets the vector search gateway.
func WithGateway(g Gateway) Option {
	return func(s *Service) {
		if g != nil {
			s.gateway = g
		}
	}
}

// WithSnapshotPath sets the corpus snapshot file loaded on Start.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.snapshotPath = path
		}
	}
}

// WithIngestWorkers sets how many goroutines decode the snapshot.
func WithIngestWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.ingestWorkers = n
		}
	}
}

// WithDefaults sets the default top-K skills and top-N users for requests
// that do not specify them.
func WithDefaults(topKSkills, topNUsers int) Option {
	return func(s *Service) {
		if topKSkills > 0 {
			s.topKSkills = topKSkills
		}
		if topNUsers > 0 {
			s.topNUsers = topNUsers
		}
	}
}

// WithSearchTimeout bounds one search request end to end.
func WithSearchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.searchTimeout = d
		}
	}
}

// WithMaxRetries bounds retries of the gateway call.
func WithMaxRetries(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRetries = n
		}
	}
}

// WithMultipliers sets the rating multiplier table for scoring.
func WithMultipliers(multipliers map[model.Rating]float64) Option {
	return func(s *Service) {
		if len(multipliers) > 0 {
			s.multipliers = multipliers
		}
	}
}

// WithSimilarityExponent sets the relevancy-weight exponent for scoring.
func WithSimilarityExponent(exponent float64) Option {
	return func(s *Service) {
		if exponent > 0 {
			s.similarityExponent = exponent
		}
	}
}

// WithBands sets the display-score bands for bucketing.
func WithBands(bands []bucket.Band) Option {
	return func(s *Service) {
		if len(bands) > 0 {
			s.bands = bands
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		snapshotPath:  "data/user_db.json",
		topKSkills:    defaultTopKSkills,
		topNUsers:     defaultTopNUsers,
		searchTimeout: defaultSearchTimeout,
		maxRetries:    defaultMaxRetries,
		logger:        nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the corpus snapshot and builds the pipeline components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.gateway == nil {
		return ErrNoGateway
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting skill search service...")

	s.store = repository.NewSnapshotStore(ctx)

	loaderOpts := []ingest.Option{
		ingest.WithPath(s.snapshotPath),
		ingest.WithLogger(s.logger.Named("ingest")),
	}
	if s.ingestWorkers > 0 {
		loaderOpts = append(loaderOpts, ingest.WithWorkers(s.ingestWorkers))
	}
	snap, err := ingest.New(loaderOpts...).Load(ctx)
	if err != nil {
		return err
	}
	s.store.Swap(snap)

	s.matcher = match.New(s.store, match.WithLogger(s.logger.Named("match")))

	scorerOpts := []scoring.Option{scoring.WithLogger(s.logger.Named("scoring"))}
	if s.multipliers != nil {
		scorerOpts = append(scorerOpts, scoring.WithMultipliers(s.multipliers))
	}
	if s.similarityExponent > 0 {
		scorerOpts = append(scorerOpts, scoring.WithSimilarityExponent(s.similarityExponent))
	}
	s.scorer = scoring.New(scorerOpts...)

	s.ranker = rank.New()

	bucketOpts := []bucket.Option{}
	if s.bands != nil {
		bucketOpts = append(bucketOpts, bucket.WithBands(s.bands))
	}
	s.bucketizer = bucket.New(bucketOpts...)

	s.started = true
	s.logger.Info(ctx, "skill search service started",
		logger.Int("users", s.store.UserCount(ctx)),
		logger.Int("skills", s.store.SkillCount(ctx)),
		logger.Int("topKSkills", s.topKSkills),
		logger.Int("topNUsers", s.topNUsers),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "skill search service stopped")
}

// Reload loads a fresh snapshot from the configured path and swaps it in
// atomically. In-flight searches keep reading the snapshot they started
// with.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return ErrNotStarted
	}
	loaderOpts := []ingest.Option{
		ingest.WithPath(s.snapshotPath),
		ingest.WithLogger(s.logger.Named("ingest")),
	}
	if s.ingestWorkers > 0 {
		loaderOpts = append(loaderOpts, ingest.WithWorkers(s.ingestWorkers))
	}
	loader := ingest.New(loaderOpts...)
	s.mu.RUnlock()

	snap, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	s.store.Swap(snap)
	s.logger.Info(ctx, "snapshot reloaded",
		logger.Int("users", s.store.UserCount(ctx)),
		logger.Int("skills", s.store.SkillCount(ctx)),
	)
	return nil
}

// Search runs the full query-to-ranking pipeline. The pipeline is a pure
// function of (query, snapshot, configuration); concurrent searches need no
// coordination.
func (s *Service) Search(ctx context.Context, query string, topKSkills, topNUsers int) (types.SearchResult, error) {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return types.SearchResult{}, ErrNotStarted
	}
	s.mu.RUnlock()

	query = strings.TrimSpace(query)
	if query == "" {
		return types.SearchResult{}, ErrEmptyQuery
	}
	if topKSkills <= 0 {
		topKSkills = s.topKSkills
	}
	if topNUsers <= 0 {
		topNUsers = s.topNUsers
	}

	ctx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()

	start := time.Now()
	metrics.RecordSearch()
	defer func() {
		metrics.RecordSearchDuration(float64(time.Since(start).Milliseconds()))
	}()

	hits, err := s.searchGateway(ctx, query, topKSkills)
	if err != nil {
		metrics.RecordSearchError(searchErrorStage(err))
		return types.SearchResult{}, err
	}

	queryMatches := make([]match.QueryMatch, len(hits))
	for i, h := range hits {
		queryMatches[i] = match.QueryMatch{SkillID: h.SkillID, Similarity: h.Similarity}
	}

	matched, candidates := s.matcher.Match(ctx, queryMatches)
	for i := range matched {
		matched[i].Strength = vector.StrengthLabel(matched[i].Similarity)
	}
	metrics.RecordMatchedSkills(len(matched))

	scored := s.scorer.ScoreAll(ctx, candidates)
	ranked := s.ranker.Rank(scored)
	metrics.RecordCandidatesRanked(len(ranked))

	top := ranked
	var rest []types.RankedUser
	if len(ranked) > topNUsers {
		top = ranked[:topNUsers]
		rest = ranked[topNUsers:]
	}

	s.logger.Info(ctx, "search completed",
		logger.String("query", query),
		logger.Int("matchedSkills", len(matched)),
		logger.Int("rankedUsers", len(ranked)),
		logger.Duration("elapsed", time.Since(start)),
	)

	if top == nil {
		top = []types.RankedUser{}
	}
	return types.SearchResult{
		MatchedSkills: matched,
		TopUsers:      top,
		Buckets:       s.bucketizer.Assign(rest),
	}, nil
}

// searchGateway calls the gateway with bounded exponential backoff. The
// gateway itself never retries; the policy lives here with the caller.
func (s *Service) searchGateway(ctx context.Context, query string, topK int) ([]vector.Match, error) {
	var matches []vector.Match
	op := func() error {
		var err error
		matches, err = s.gateway.Search(ctx, query, topK)
		if err != nil && !retryableGatewayError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		metrics.RecordGatewayRetry()
		s.logger.Warn(ctx, "gateway call failed, retrying",
			logger.Error(err),
			logger.Duration("backoff", wait),
		)
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(s.maxRetries)),
		ctx,
	)
	if err := backoff.RetryNotify(op, bo, notify); err != nil {
		return nil, err
	}
	return matches, nil
}

// retryableGatewayError reports whether another gateway attempt can succeed.
// Rejected input and cancellation are permanent; only transient transport
// failures are retried.
func retryableGatewayError(err error) bool {
	return !errors.Is(err, vector.ErrBadInput) && !errors.Is(err, context.Canceled)
}

// searchErrorStage buckets a pipeline error for metrics.
func searchErrorStage(err error) string {
	switch {
	case errors.Is(err, vector.ErrEmbedding):
		return "embedding"
	case errors.Is(err, vector.ErrIndex):
		return "index"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "gateway"
	}
}

// UserDetail returns the full, unscored skill profile of one user grouped
// by taxonomy level.
func (s *Service) UserDetail(ctx context.Context, email string) (types.UserProfile, error) {
	s.mu.RLock()
	if !s.started {
		s.mu.RUnlock()
		return types.UserProfile{}, ErrNotStarted
	}
	s.mu.RUnlock()

	u, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return types.UserProfile{}, err
	}

	profile := types.UserProfile{
		Email:       u.Email,
		Name:        u.Name,
		TotalSkills: len(u.Skills),
		L1Skills:    []types.ProfileSkill{},
		L2Skills:    []types.ProfileSkill{},
		L3Skills:    []types.ProfileSkill{},
		L4Skills:    []types.ProfileSkill{},
	}

	for _, us := range u.Skills {
		ps := types.ProfileSkill{
			SkillID:      us.SkillID,
			Rating:       int(us.Rating),
			ParentTitles: s.store.ParentTitles(ctx, us.SkillID),
		}
		level := us.Level
		if sk, ok := s.store.Skill(ctx, us.SkillID); ok {
			ps.Title = sk.Title
			if sk.Level != 0 {
				level = sk.Level
			}
		}
		switch level {
		case 1:
			profile.L1Skills = append(profile.L1Skills, ps)
		case 2:
			profile.L2Skills = append(profile.L2Skills, ps)
		case 3:
			profile.L3Skills = append(profile.L3Skills, ps)
		default:
			profile.L4Skills = append(profile.L4Skills, ps)
		}
	}
	return profile, nil
}

// GetStats returns corpus statistics and the effective scoring configuration.
// total_skills counts skill declarations across users; catalog_skills counts
// taxonomy entries.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"top_k_skills": s.topKSkills,
		"top_n_users":  s.topNUsers,
	}

	if s.started {
		stats["total_users"] = s.store.UserCount(ctx)
		stats["catalog_skills"] = s.store.SkillCount(ctx)
		stats["snapshot_loaded_at"] = s.store.LoadedAt(ctx).UTC().Format(time.RFC3339)

		totalSkills := 0
		byLevel := map[int]int{1: 0, 2: 0, 3: 0, 4: 0}
		byRating := map[int]int{1: 0, 2: 0, 3: 0}
		for _, u := range s.store.AllUsers(ctx) {
			totalSkills += len(u.Skills)
			for _, us := range u.Skills {
				if us.Level >= model.MinSkillLevel && us.Level <= model.MaxSkillLevel {
					byLevel[us.Level]++
				}
				if us.Rating.Valid() {
					byRating[int(us.Rating)]++
				}
			}
		}
		stats["total_skills"] = totalSkills
		stats["skills_by_level"] = byLevel
		stats["skills_by_rating"] = byRating

		multipliers := s.multipliers
		if multipliers == nil {
			multipliers = map[model.Rating]float64{
				model.RatingBeginner:     1.0,
				model.RatingIntermediate: 3.0,
				model.RatingAdvanced:     6.0,
			}
		}
		ratings := make(map[string]float64, len(multipliers))
		for r, m := range multipliers {
			ratings[r.String()] = m
		}
		stats["rating_multipliers"] = ratings
	}
	return stats
}
