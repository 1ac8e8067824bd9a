// Package model contains domain models passed between layers.
package model

// Rating is a user's self-assessed proficiency for one skill.
type Rating int

// Rating values stored in the user snapshot.
const (
	RatingBeginner     Rating = 1
	RatingIntermediate Rating = 2
	RatingAdvanced     Rating = 3
)

// Valid reports whether r is one of the three stored rating values.
// Anything else is a data integrity fault, not a runtime case.
func (r Rating) Valid() bool {
	return r >= RatingBeginner && r <= RatingAdvanced
}

// String returns the display name for a rating.
func (r Rating) String() string {
	switch r {
	case RatingBeginner:
		return "Beginner"
	case RatingIntermediate:
		return "Intermediate"
	case RatingAdvanced:
		return "Advanced"
	default:
		return "Unknown"
	}
}

// Taxonomy depth bounds. Level 1 is the broadest category, level 4 the
// most specific technology.
const (
	MinSkillLevel = 1
	MaxSkillLevel = 4
)

// Skill is one node of the hierarchical skill taxonomy. Immutable once
// loaded; the ancestor chain is derived by following ParentID.
type Skill struct {
	ID          string
	Level       int
	Title       string
	Description string
	ParentID    string // empty for level-1 skills
}

// UserSkill is a user's self-declared proficiency in one catalog skill.
type UserSkill struct {
	SkillID string
	Level   int
	Rating  Rating
}

// User is one row of the user snapshot, keyed by email. Users are an
// immutable snapshot; no live mutation happens during a search.
type User struct {
	Email  string
	Name   string
	Skills []UserSkill
}

// Skill returns the user's entry for skillID, if declared.
func (u *User) Skill(skillID string) (UserSkill, bool) {
	for _, s := range u.Skills {
		if s.SkillID == skillID {
			return s, true
		}
	}
	return UserSkill{}, false
}
