// Package rank orders scored users and derives display scores.
//
// Display scores are a ratio against the maximum raw score among all users
// who matched at least one skill, so the best candidate for a query always
// shows exactly 100 no matter how strong the match is in absolute terms.
package rank

import (
	"math"
	"sort"

	"github.com/talentco/skillsearch/internal/domain/scoring"
	"github.com/talentco/skillsearch/internal/domain/types"
)

// Ranker assigns ranks and display scores.
type Ranker struct{}

// New creates a ranker.
func New() *Ranker {
	return &Ranker{}
}

// Rank sorts by raw score descending with ties broken by email ascending,
// assigns 1-based ranks with no gaps, and computes display scores. The
// input slice is not modified.
func (r *Ranker) Rank(scored []scoring.Scored) []types.RankedUser {
	if len(scored) == 0 {
		return nil
	}

	ordered := make([]scoring.Scored, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Breakdown.RawScore != ordered[j].Breakdown.RawScore {
			return ordered[i].Breakdown.RawScore > ordered[j].Breakdown.RawScore
		}
		return ordered[i].Email < ordered[j].Email
	})

	maxRaw := ordered[0].Breakdown.RawScore

	ranked := make([]types.RankedUser, len(ordered))
	for i, s := range ordered {
		if maxRaw > 0 {
			s.Breakdown.DisplayScore = math.Round(s.Breakdown.RawScore/maxRaw*10000) / 100
		}
		ranked[i] = types.RankedUser{
			Rank:  i + 1,
			Email: s.Email,
			Name:  s.Name,
			Score: s.Breakdown,
		}
	}
	return ranked
}
