package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/talentco/skillsearch/internal/domain/model"
	"github.com/talentco/skillsearch/pkg/metrics"
)

// Snapshot is one immutable view of the corpus. It is built once by the
// ingestion layer and never mutated afterwards; in-flight requests keep
// reading the snapshot they started with even across a reload.
type Snapshot struct {
	users        []model.User
	byEmail      map[string]int
	bySkill      map[string][]int
	catalog      map[string]model.Skill
	parentTitles map[string][]string
	loadedAt     time.Time
}

// NewSnapshot builds a snapshot from catalog entries and users, including
// the email and skill indexes and the precomputed ancestor-title chains.
func NewSnapshot(skills []model.Skill, users []model.User) *Snapshot {
	s := &Snapshot{
		users:        users,
		byEmail:      make(map[string]int, len(users)),
		bySkill:      make(map[string][]int),
		catalog:      make(map[string]model.Skill, len(skills)),
		parentTitles: make(map[string][]string, len(skills)),
		loadedAt:     time.Now(),
	}

	for _, sk := range skills {
		s.catalog[sk.ID] = sk
	}
	for id := range s.catalog {
		s.parentTitles[id] = s.ancestorTitles(id)
	}

	for i := range users {
		u := &users[i]
		s.byEmail[u.Email] = i
		for _, us := range u.Skills {
			s.bySkill[us.SkillID] = append(s.bySkill[us.SkillID], i)
		}
	}

	return s
}

// ancestorTitles walks ParentID links and returns titles ordered root to
// immediate parent. The walk is capped at the taxonomy depth so a corrupt
// parent cycle cannot loop forever.
func (s *Snapshot) ancestorTitles(id string) []string {
	var chain []string
	cur, ok := s.catalog[id]
	if !ok {
		return nil
	}
	for depth := 0; depth < model.MaxSkillLevel && cur.ParentID != ""; depth++ {
		parent, ok := s.catalog[cur.ParentID]
		if !ok {
			break
		}
		chain = append(chain, parent.Title)
		cur = parent
	}
	// The walk collects immediate parent first; reverse to root-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// SnapshotStore implements Store over an atomically swappable Snapshot.
type SnapshotStore struct {
	current atomic.Pointer[Snapshot]
}

// NewSnapshotStore creates a store. A snapshot must be swapped in before
// the store serves data; reads against an empty store return zero values.
func NewSnapshotStore(ctx context.Context) *SnapshotStore {
	return &SnapshotStore{}
}

// Swap atomically replaces the current snapshot.
func (s *SnapshotStore) Swap(snap *Snapshot) {
	s.current.Store(snap)
	if snap != nil {
		metrics.UpdateTotalUsers(len(snap.users))
		metrics.UpdateTotalSkills(len(snap.catalog))
		metrics.UpdateSnapshotLastUnix(snap.loadedAt.Unix())
		metrics.RecordSnapshotSwap()
	}
}

// UserByEmail returns the user keyed by email.
func (s *SnapshotStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	idx, ok := snap.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &snap.users[idx], nil
}

// UsersBySkill returns every user who declared the exact skill id.
func (s *SnapshotStore) UsersBySkill(ctx context.Context, skillID string) []*model.User {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	idxs := snap.bySkill[skillID]
	users := make([]*model.User, 0, len(idxs))
	for _, i := range idxs {
		users = append(users, &snap.users[i])
	}
	return users
}

// AllUsers returns every user in the snapshot.
func (s *SnapshotStore) AllUsers(ctx context.Context) []*model.User {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	users := make([]*model.User, len(snap.users))
	for i := range snap.users {
		users[i] = &snap.users[i]
	}
	return users
}

// Skill looks up one catalog entry by id.
func (s *SnapshotStore) Skill(ctx context.Context, id string) (model.Skill, bool) {
	snap := s.current.Load()
	if snap == nil {
		return model.Skill{}, false
	}
	sk, ok := snap.catalog[id]
	return sk, ok
}

// ParentTitles returns the precomputed ancestor titles for a skill.
func (s *SnapshotStore) ParentTitles(ctx context.Context, id string) []string {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.parentTitles[id]
}

// UserCount returns the number of users in the snapshot.
func (s *SnapshotStore) UserCount(ctx context.Context) int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.users)
}

// SkillCount returns the number of catalog entries.
func (s *SnapshotStore) SkillCount(ctx context.Context) int {
	snap := s.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.catalog)
}

// LoadedAt returns when the current snapshot was built.
func (s *SnapshotStore) LoadedAt(ctx context.Context) time.Time {
	snap := s.current.Load()
	if snap == nil {
		return time.Time{}
	}
	return snap.loadedAt
}
