// Package match cross-references vector-search results against the user
// snapshot to find, per user, the subset of matched skills they actually
// own. Matching is by exact skill id only; hierarchy enters the picture as
// display metadata, never as a fuzzy match path.
package match

import (
	"context"

	"github.com/talentco/skillsearch/internal/domain/model"
	"github.com/talentco/skillsearch/internal/domain/types"
	"github.com/talentco/skillsearch/pkg/logger"
	"github.com/talentco/skillsearch/pkg/metrics"
)

// QueryMatch is one vector-search result as the matcher consumes it.
type QueryMatch struct {
	SkillID    string
	Similarity float64
}

// Store is the snapshot view the matcher needs.
type Store interface {
	UsersBySkill(ctx context.Context, skillID string) []*model.User
	Skill(ctx context.Context, id string) (model.Skill, bool)
	ParentTitles(ctx context.Context, id string) []string
}

// Candidate is one user together with the matched skills they own. The
// identity fields of each contribution are filled here; the scorer fills
// the weight fields.
type Candidate struct {
	Email         string
	Name          string
	Contributions []types.SkillContribution
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithLogger sets a custom logger for the matcher.
func WithLogger(logger logger.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Matcher builds per-user matched-skill sets from vector-search results.
type Matcher struct {
	store  Store
	logger logger.Logger
}

// New creates a matcher over the given snapshot store.
func New(store Store, opts ...Option) *Matcher {
	m := &Matcher{
		store:  store,
		logger: logger.Get().Named("match"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match enriches the query matches with catalog metadata and gathers the
// users owning each matched skill. Users with no matches are simply absent
// from the candidate list. A skill id the catalog no longer knows is
// dropped and logged; it never aborts the request.
//
// Candidate order is deterministic: users appear in order of their first
// matching skill, then snapshot order, so repeated identical queries build
// identical candidate lists.
func (m *Matcher) Match(ctx context.Context, query []QueryMatch) ([]types.MatchedSkill, []Candidate) {
	matched := make([]types.MatchedSkill, 0, len(query))
	byEmail := make(map[string]int)
	var candidates []Candidate

	for _, qm := range query {
		sk, ok := m.store.Skill(ctx, qm.SkillID)
		if !ok {
			m.logger.Warn(ctx, "dropping stale skill from vector results",
				logger.String("skill_id", qm.SkillID),
			)
			metrics.RecordStaleSkillDrop()
			continue
		}
		parents := m.store.ParentTitles(ctx, qm.SkillID)

		matched = append(matched, types.MatchedSkill{
			SkillID:      qm.SkillID,
			Title:        sk.Title,
			Level:        sk.Level,
			ParentTitles: parents,
			Similarity:   qm.Similarity,
		})

		for _, u := range m.store.UsersBySkill(ctx, qm.SkillID) {
			us, ok := u.Skill(qm.SkillID)
			if !ok {
				continue
			}
			idx, seen := byEmail[u.Email]
			if !seen {
				idx = len(candidates)
				byEmail[u.Email] = idx
				candidates = append(candidates, Candidate{Email: u.Email, Name: u.Name})
			}
			candidates[idx].Contributions = append(candidates[idx].Contributions, types.SkillContribution{
				SkillID:      qm.SkillID,
				Title:        sk.Title,
				Level:        sk.Level,
				ParentTitles: parents,
				Similarity:   qm.Similarity,
				Rating:       int(us.Rating),
			})
		}
	}

	return matched, candidates
}
