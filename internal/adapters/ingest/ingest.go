// Package ingest loads the consolidated corpus snapshot produced by the
// offline ingestion pipeline and turns it into an immutable repository
// snapshot.
//
// Two user record layouts exist in the wild: the current processed form
// (email + flat skills with ids, levels, titles and ratings) and the legacy
// raw export (userEmail + selectedSkills with l3/l4 id groups). Both decode
// into the same model.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/talentco/skillsearch/internal/adapters/repository"
	"github.com/talentco/skillsearch/internal/domain/model"
	"github.com/talentco/skillsearch/pkg/logger"
	"github.com/talentco/skillsearch/pkg/metrics"
)

// snapshotFile mirrors the on-disk layout of user_db.json. The file also
// carries prebuilt indexes, but those are rebuilt here so a stale or partial
// index in the file cannot poison lookups.
type snapshotFile struct {
	Metadata     fileMetadata             `json:"metadata"`
	SkillsLookup map[string]catalogRecord `json:"skills_lookup"`
	Users        []json.RawMessage        `json:"users"`
}

type fileMetadata struct {
	IngestedAt   string `json:"ingested_at"`
	SourceBucket string `json:"source_bucket"`
	UserCount    int    `json:"user_count"`
	SkillCount   int    `json:"skill_count"`
}

// catalogRecord accepts both catalog layouts: the processed form keyed by
// skill_id with explicit level and parent_id, and the legacy form keyed by
// id with a type marker and l1/l2/l3 ancestry ids.
type catalogRecord struct {
	SkillID     string `json:"skill_id"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	Type        string `json:"type"`
	ParentID    string `json:"parent_id"`
	L2ID        string `json:"l2Id"`
	L3ID        string `json:"l3Id"`
}

// userRecord accepts both user layouts. Exactly one of Skills or
// SelectedSkills is populated per record.
type userRecord struct {
	Email          string            `json:"email"`
	UserEmail      string            `json:"userEmail"`
	Name           string            `json:"name"`
	Skills         []skillEntry      `json:"skills"`
	SelectedSkills []legacySelection `json:"selectedSkills"`
}

type skillEntry struct {
	SkillID    string `json:"skill_id"`
	SkillLevel int    `json:"skill_level"`
	SkillTitle string `json:"skill_title"`
	Rating     int    `json:"rating"`
}

type legacySelection struct {
	L3ID   string   `json:"l3Id"`
	L4IDs  []string `json:"l4Ids"`
	Rating int      `json:"rating"`
}

// Loader reads a snapshot file and builds a repository.Snapshot.
type Loader struct {
	path    string
	workers int
	logger  logger.Logger
}

// New creates a loader with configuration options.
func New(opts ...Option) *Loader {
	l := &Loader{
		path:    "data/user_db.json",
		workers: runtime.NumCPU(),
		logger:  logger.Get().Named("ingest"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the snapshot file, decodes user records in parallel and returns
// an immutable snapshot ready to be swapped into the store.
func (l *Loader) Load(ctx context.Context) (*repository.Snapshot, error) {
	start := time.Now()

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSnapshot, err)
	}

	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSnapshot, err)
	}
	if len(file.Users) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySnapshot, l.path)
	}

	users, userSkills := l.decodeUsers(ctx, file.Users)
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: no decodable user records in %s", ErrEmptySnapshot, l.path)
	}

	catalog := buildCatalog(file.SkillsLookup, userSkills)
	snap := repository.NewSnapshot(catalog, users)

	elapsed := time.Since(start)
	metrics.RecordSnapshotLoadDuration(float64(elapsed.Milliseconds()))
	l.logger.Info(ctx, "snapshot loaded",
		logger.String("path", l.path),
		logger.Int("users", len(users)),
		logger.Int("skills", len(catalog)),
		logger.String("source_bucket", file.Metadata.SourceBucket),
		logger.String("ingested_at", file.Metadata.IngestedAt),
		logger.Duration("elapsed", elapsed),
	)
	return snap, nil
}

// decodeUsers fans the raw records out over a worker pool. Record order is
// preserved so repeated loads of the same file build identical snapshots.
// Records that fail to decode or carry no email are dropped with a warning.
func (l *Loader) decodeUsers(ctx context.Context, raws []json.RawMessage) ([]model.User, []model.Skill) {
	type slot struct {
		user   model.User
		skills []model.Skill
		ok     bool
	}

	slots := make([]slot, len(raws))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				user, skills, err := decodeUser(raws[i])
				if err != nil {
					l.logger.Warn(ctx, "skipping user record",
						logger.Int("index", i),
						logger.Error(err),
					)
					continue
				}
				slots[i] = slot{user: user, skills: skills, ok: true}
			}
		}()
	}
	for i := range raws {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	users := make([]model.User, 0, len(raws))
	var skills []model.Skill
	for i := range slots {
		if !slots[i].ok {
			continue
		}
		users = append(users, slots[i].user)
		skills = append(skills, slots[i].skills...)
	}
	return users, skills
}

// decodeUser converts one raw record into a user plus the catalog entries
// derivable from it. Legacy selections expand into one level-3 skill and one
// level-4 skill per l4 id, all sharing the selection's rating.
func decodeUser(raw json.RawMessage) (model.User, []model.Skill, error) {
	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.User{}, nil, fmt.Errorf("%w: %w", ErrDecodeSnapshot, err)
	}

	email := rec.Email
	if email == "" {
		email = rec.UserEmail
	}
	if email == "" {
		return model.User{}, nil, fmt.Errorf("%w: user record has no email", ErrDecodeSnapshot)
	}

	name := rec.Name
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	u := model.User{Email: email, Name: name}
	var skills []model.Skill

	for _, s := range rec.Skills {
		if s.SkillID == "" {
			continue
		}
		u.Skills = append(u.Skills, model.UserSkill{
			SkillID: s.SkillID,
			Level:   s.SkillLevel,
			Rating:  ratingOrDefault(s.Rating),
		})
		skills = append(skills, model.Skill{
			ID:    s.SkillID,
			Level: s.SkillLevel,
			Title: s.SkillTitle,
		})
	}

	for _, sel := range rec.SelectedSkills {
		rating := ratingOrDefault(sel.Rating)
		if sel.L3ID != "" {
			u.Skills = append(u.Skills, model.UserSkill{
				SkillID: sel.L3ID,
				Level:   3,
				Rating:  rating,
			})
		}
		for _, l4 := range sel.L4IDs {
			if l4 == "" {
				continue
			}
			u.Skills = append(u.Skills, model.UserSkill{
				SkillID: l4,
				Level:   4,
				Rating:  rating,
			})
		}
	}

	return u, skills, nil
}

// ratingOrDefault maps an absent rating to the lowest one. Out-of-range
// values pass through untouched; the scorer decides what to do with them.
func ratingOrDefault(r int) model.Rating {
	if r == 0 {
		return model.RatingBeginner
	}
	return model.Rating(r)
}

// buildCatalog merges the file's skills lookup with entries recovered from
// user records. The lookup wins on conflicts since it carries ancestry;
// user-derived entries only fill gaps.
func buildCatalog(lookup map[string]catalogRecord, fromUsers []model.Skill) []model.Skill {
	byID := make(map[string]model.Skill, len(lookup)+len(fromUsers))

	for key, rec := range lookup {
		sk := model.Skill{
			ID:          rec.SkillID,
			Title:       rec.Title,
			Description: rec.Description,
			Level:       rec.Level,
			ParentID:    rec.ParentID,
		}
		if sk.ID == "" {
			sk.ID = rec.ID
		}
		if sk.ID == "" {
			sk.ID = key
		}
		if sk.Level == 0 {
			switch rec.Type {
			case "l3":
				sk.Level = 3
			case "l4":
				sk.Level = 4
			}
		}
		if sk.ParentID == "" {
			switch sk.Level {
			case 4:
				sk.ParentID = rec.L3ID
			case 3:
				sk.ParentID = rec.L2ID
			}
		}
		byID[sk.ID] = sk
	}

	for _, sk := range fromUsers {
		existing, ok := byID[sk.ID]
		if !ok {
			byID[sk.ID] = sk
			continue
		}
		if existing.Title == "" && sk.Title != "" {
			existing.Title = sk.Title
			byID[sk.ID] = existing
		}
	}

	catalog := make([]model.Skill, 0, len(byID))
	for _, sk := range byID {
		catalog = append(catalog, sk)
	}
	return catalog
}
