// Package scoring computes the two-dimensional coverage/expertise score
// from a user's matched skills.
//
// Coverage measures breadth: the sum of similarity^exponent over the user's
// matched skills, so strong matches dominate while weak ones still earn
// partial credit. Expertise measures depth: the contribution-weighted
// average of the rating multipliers. The ranking key is their product.
package scoring

import (
	"context"
	"math"

	"github.com/talentco/skillsearch/internal/domain/match"
	"github.com/talentco/skillsearch/internal/domain/model"
	"github.com/talentco/skillsearch/internal/domain/types"
	"github.com/talentco/skillsearch/pkg/logger"
	"github.com/talentco/skillsearch/pkg/metrics"
)

// Default scoring configuration constants.
const (
	defaultSimilarityExponent = 2.0

	defaultBeginnerMultiplier     = 1.0
	defaultIntermediateMultiplier = 3.0
	defaultAdvancedMultiplier     = 6.0
)

// Expertise label breakpoints on the expertise multiplier.
const (
	expertMin       = 5.0
	advancedMin     = 3.5
	intermediateMin = 2.0
	earlyCareerMin  = 1.3
)

// ExpertiseLabel maps an expertise multiplier to its display label.
func ExpertiseLabel(multiplier float64) string {
	switch {
	case multiplier >= expertMin:
		return "Expert"
	case multiplier >= advancedMin:
		return "Advanced"
	case multiplier >= intermediateMin:
		return "Intermediate"
	case multiplier >= earlyCareerMin:
		return "Early Career"
	default:
		return "Beginner"
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithMultipliers sets the rating multiplier table. The map is copied;
// non-positive multipliers are ignored.
func WithMultipliers(multipliers map[model.Rating]float64) Option {
	return func(s *Scorer) {
		if len(multipliers) == 0 {
			return
		}
		s.multipliers = make(map[model.Rating]float64, len(multipliers))
		for rating, mult := range multipliers {
			if mult > 0 {
				s.multipliers[rating] = mult
			}
		}
	}
}

// WithSimilarityExponent sets the exponent applied to similarities when
// computing relevancy weights.
func WithSimilarityExponent(exponent float64) Option {
	return func(s *Scorer) {
		if exponent > 0 {
			s.exponent = exponent
		}
	}
}

// WithLogger sets a custom logger for the scorer.
func WithLogger(logger logger.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scored is one user's computed score, ready for ranking.
type Scored struct {
	Email     string
	Name      string
	Breakdown types.ScoreBreakdown
}

// Scorer computes score breakdowns from matched-skill candidates.
type Scorer struct {
	multipliers map[model.Rating]float64
	exponent    float64
	logger      logger.Logger
}

// New creates a scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		multipliers: map[model.Rating]float64{
			model.RatingBeginner:     defaultBeginnerMultiplier,
			model.RatingIntermediate: defaultIntermediateMultiplier,
			model.RatingAdvanced:     defaultAdvancedMultiplier,
		},
		exponent: defaultSimilarityExponent,
		logger:   logger.Get().Named("scoring"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoreAll scores every candidate and fills coverage percentages against
// the query-adaptive maximum: the highest coverage observed among users who
// matched at least one skill for this query. Candidates left with no valid
// contributions are excluded from the result entirely.
func (s *Scorer) ScoreAll(ctx context.Context, candidates []match.Candidate) []Scored {
	scored := make([]Scored, 0, len(candidates))
	maxCoverage := 0.0

	for i := range candidates {
		breakdown, ok := s.score(ctx, &candidates[i])
		if !ok {
			continue
		}
		if breakdown.CoverageScore > maxCoverage {
			maxCoverage = breakdown.CoverageScore
		}
		scored = append(scored, Scored{
			Email:     candidates[i].Email,
			Name:      candidates[i].Name,
			Breakdown: breakdown,
		})
	}

	if maxCoverage > 0 {
		for i := range scored {
			scored[i].Breakdown.CoveragePercentage = round2(scored[i].Breakdown.CoverageScore / maxCoverage * 100)
		}
	}
	return scored
}

// score computes one user's breakdown. Contributions carrying a rating
// outside the stored set are a data integrity fault: excluded and logged,
// never coerced. Returns false when no valid contribution remains.
func (s *Scorer) score(ctx context.Context, cand *match.Candidate) (types.ScoreBreakdown, bool) {
	var coverage, weighted float64
	contribs := make([]types.SkillContribution, 0, len(cand.Contributions))

	for _, c := range cand.Contributions {
		rating := model.Rating(c.Rating)
		if !rating.Valid() {
			s.logger.Warn(ctx, "excluding contribution with corrupt rating",
				logger.String("email", cand.Email),
				logger.String("skill_id", c.SkillID),
				logger.Int("rating", c.Rating),
			)
			metrics.RecordCorruptRatingDrop()
			continue
		}

		weight := math.Pow(c.Similarity, s.exponent)
		mult := s.multipliers[rating]

		c.RelevancyWeight = weight
		c.RatingMultiplier = mult
		c.CoverageContribution = weight
		c.ExpertiseContribution = weight * mult

		coverage += weight
		weighted += weight * mult
		contribs = append(contribs, c)
	}

	if len(contribs) == 0 || coverage == 0 {
		return types.ScoreBreakdown{}, false
	}

	expertise := weighted / coverage
	return types.ScoreBreakdown{
		CoverageScore:       coverage,
		ExpertiseMultiplier: expertise,
		ExpertiseLabel:      ExpertiseLabel(expertise),
		RawScore:            coverage * expertise,
		SkillContributions:  contribs,
		TotalMatchedSkills:  len(contribs),
	}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
