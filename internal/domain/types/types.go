// Package types contains common types used across the application
package types

// MatchedSkill is one vector-search hit enriched with catalog data.
// Similarity is 1 - cosine distance, clamped to [0,1].
type MatchedSkill struct {
	SkillID      string   `json:"skill_id"`
	Title        string   `json:"title"`
	Level        int      `json:"level"`
	ParentTitles []string `json:"parent_titles"`
	Similarity   float64  `json:"similarity"`
	Strength     string   `json:"strength"`
}

// SkillContribution is the per-skill part of one user's score: a matched
// skill the user actually owns, with the weights derived from it.
type SkillContribution struct {
	SkillID               string   `json:"skill_id"`
	Title                 string   `json:"title"`
	Level                 int      `json:"level"`
	ParentTitles          []string `json:"parent_titles"`
	Similarity            float64  `json:"similarity"`
	Rating                int      `json:"rating"`
	RelevancyWeight       float64  `json:"relevancy_weight"`
	RatingMultiplier      float64  `json:"rating_multiplier"`
	CoverageContribution  float64  `json:"coverage_contribution"`
	ExpertiseContribution float64  `json:"expertise_contribution"`
}

// ScoreBreakdown is the full two-dimensional score for one user.
type ScoreBreakdown struct {
	CoverageScore       float64             `json:"coverage_score"`
	CoveragePercentage  float64             `json:"coverage_percentage"`
	ExpertiseMultiplier float64             `json:"expertise_multiplier"`
	ExpertiseLabel      string              `json:"expertise_label"`
	RawScore            float64             `json:"raw_score"`
	DisplayScore        float64             `json:"display_score"`
	SkillContributions  []SkillContribution `json:"skill_contributions"`
	TotalMatchedSkills  int                 `json:"total_matched_skills"`
}

// RankedUser is one row of the ranked output. Rank is 1-based with no gaps.
type RankedUser struct {
	Rank  int            `json:"rank"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Score ScoreBreakdown `json:"score_breakdown"`
}

// Bucket groups ranked users beyond the top-N window into a display-score
// band. Empty bands are still reported with Count 0.
type Bucket struct {
	Name     string       `json:"name"`
	MinScore float64      `json:"min_score"`
	MaxScore float64      `json:"max_score"`
	Users    []RankedUser `json:"users"`
	Count    int          `json:"count"`
}

// SearchResult is the outcome of one query-to-ranking pass.
type SearchResult struct {
	MatchedSkills []MatchedSkill `json:"matched_skills"`
	TopUsers      []RankedUser   `json:"top_users"`
	Buckets       []Bucket       `json:"buckets"`
}

// ProfileSkill is one declared skill in a user profile view.
type ProfileSkill struct {
	SkillID      string   `json:"skill_id"`
	Title        string   `json:"title"`
	Rating       int      `json:"rating"`
	ParentTitles []string `json:"parent_titles"`
}

// UserProfile is the full, unscored skill profile of one user, grouped by
// taxonomy level.
type UserProfile struct {
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	TotalSkills int            `json:"total_skills"`
	L1Skills    []ProfileSkill `json:"l1_skills"`
	L2Skills    []ProfileSkill `json:"l2_skills"`
	L3Skills    []ProfileSkill `json:"l3_skills"`
	L4Skills    []ProfileSkill `json:"l4_skills"`
}
