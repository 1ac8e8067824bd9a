// Package repository holds the read-only corpus snapshot: the skill
// catalog, the user set, and the lookup indexes built over both.
package repository

import (
	"context"
	"time"

	"github.com/talentco/skillsearch/internal/domain/model"
)

// Store provides read access to the loaded snapshot. All reads observe a
// single consistent snapshot; a reload swaps the whole snapshot at once.
type Store interface {
	// UserByEmail returns the user keyed by email.
	// Returns ErrUserNotFound if the email is unknown.
	UserByEmail(ctx context.Context, email string) (*model.User, error)

	// UsersBySkill returns every user who declared the exact skill id.
	UsersBySkill(ctx context.Context, skillID string) []*model.User

	// AllUsers returns every user in the snapshot.
	AllUsers(ctx context.Context) []*model.User

	// Skill looks up one catalog entry by id.
	Skill(ctx context.Context, id string) (model.Skill, bool)

	// ParentTitles returns the ancestor titles for a skill, ordered
	// root to immediate parent, excluding the skill itself.
	ParentTitles(ctx context.Context, id string) []string

	// UserCount returns the number of users in the snapshot.
	UserCount(ctx context.Context) int

	// SkillCount returns the number of catalog entries.
	SkillCount(ctx context.Context) int

	// LoadedAt returns when the current snapshot was built.
	LoadedAt(ctx context.Context) time.Time
}
