package searchcheck

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talentco/skillsearch/pkg/logger"
)

// SnapshotConfig controls fixture snapshot generation.
type SnapshotConfig struct {
	NumUsers       int    // Number of users to generate
	SkillsPerUser  int    // Maximum skills per user
	OutputFile     string // Destination path for the snapshot
	IncludeCorrupt bool   // Sprinkle in out-of-range ratings
}

// fixtureCatalog is the skill taxonomy fixture users draw from. Each level-4
// skill hangs off a level-3 parent so parent title chains resolve.
var fixtureCatalog = []struct {
	ID       string
	Title    string
	Level    int
	ParentID string
}{
	{"software-engineering", "Software Engineering", 3, ""},
	{"python", "Python", 4, "software-engineering"},
	{"golang", "Go", 4, "software-engineering"},
	{"typescript", "TypeScript", 4, "software-engineering"},
	{"cloud-platforms", "Cloud Platforms", 3, ""},
	{"aws-lambda", "AWS Lambda", 4, "cloud-platforms"},
	{"kubernetes", "Kubernetes", 4, "cloud-platforms"},
	{"terraform", "Terraform", 4, "cloud-platforms"},
	{"data-engineering", "Data Engineering", 3, ""},
	{"spark", "Apache Spark", 4, "data-engineering"},
	{"kafka", "Apache Kafka", 4, "data-engineering"},
	{"postgresql", "PostgreSQL", 4, "data-engineering"},
}

// Rating distribution constants.
const (
	ratingDivisor     = 3
	corruptRatingRate = 20 // one in N skills gets a corrupt rating
	corruptRating     = 9
)

// snapshot wire types matching the layout the service ingests.

type fixtureSnapshot struct {
	Metadata     fixtureMetadata               `json:"metadata"`
	SkillsLookup map[string]fixtureSkillRecord `json:"skills_lookup"`
	Users        []fixtureUser                 `json:"users"`
}

type fixtureMetadata struct {
	IngestedAt   string `json:"ingested_at"`
	SourceBucket string `json:"source_bucket"`
	UserCount    int    `json:"user_count"`
	SkillCount   int    `json:"skill_count"`
}

type fixtureSkillRecord struct {
	SkillID  string `json:"skill_id"`
	Title    string `json:"title"`
	Level    int    `json:"level"`
	ParentID string `json:"parent_id,omitempty"`
}

type fixtureUser struct {
	Email  string             `json:"email"`
	Name   string             `json:"name"`
	Skills []fixtureUserSkill `json:"skills"`
}

type fixtureUserSkill struct {
	SkillID    string `json:"skill_id"`
	SkillLevel int    `json:"skill_level"`
	SkillTitle string `json:"skill_title"`
	Rating     int    `json:"rating"`
}

// GenerateSnapshot writes a fixture user_db.json usable as a service snapshot.
func GenerateSnapshot(ctx context.Context, config *SnapshotConfig) error {
	if config.NumUsers <= 0 {
		return fmt.Errorf("user count must be positive, got %d", config.NumUsers)
	}
	if config.SkillsPerUser <= 0 {
		config.SkillsPerUser = 4
	}

	lookup := make(map[string]fixtureSkillRecord, len(fixtureCatalog))
	for _, sk := range fixtureCatalog {
		lookup[sk.ID] = fixtureSkillRecord{
			SkillID:  sk.ID,
			Title:    sk.Title,
			Level:    sk.Level,
			ParentID: sk.ParentID,
		}
	}

	users := make([]fixtureUser, config.NumUsers)
	for i := range users {
		users[i] = generateFixtureUser(config)
	}

	snapshot := fixtureSnapshot{
		Metadata: fixtureMetadata{
			IngestedAt:   time.Now().UTC().Format(time.RFC3339),
			SourceBucket: "fixture",
			UserCount:    len(users),
			SkillCount:   len(lookup),
		},
		SkillsLookup: lookup,
		Users:        users,
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	logger.Get().Info(ctx, "fixture snapshot written",
		logger.String("path", config.OutputFile),
		logger.Int("users", len(users)),
		logger.Int("skills", len(lookup)))
	return nil
}

// generateFixtureUser builds one user with a random subset of the catalog.
func generateFixtureUser(config *SnapshotConfig) fixtureUser {
	id := uuid.New().String()
	shortID := id[:8]
	email := "user-" + shortID + "@example.com"
	name := "User " + strings.ToUpper(shortID)

	countBig, _ := rand.Int(rand.Reader, big.NewInt(int64(config.SkillsPerUser)))
	count := int(countBig.Int64()) + 1

	picked := make(map[int]bool, count)
	skills := make([]fixtureUserSkill, 0, count)
	for len(skills) < count {
		idxBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(fixtureCatalog))))
		idx := int(idxBig.Int64())
		if picked[idx] {
			continue
		}
		picked[idx] = true

		sk := fixtureCatalog[idx]
		skills = append(skills, fixtureUserSkill{
			SkillID:    sk.ID,
			SkillLevel: sk.Level,
			SkillTitle: sk.Title,
			Rating:     generateRating(config),
		})
	}

	return fixtureUser{Email: email, Name: name, Skills: skills}
}

// generateRating returns a rating in {1,2,3}, optionally corrupted.
func generateRating(config *SnapshotConfig) int {
	if config.IncludeCorrupt {
		n, _ := rand.Int(rand.Reader, big.NewInt(corruptRatingRate))
		if n.Int64() == 0 {
			return corruptRating
		}
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(ratingDivisor))
	return int(n.Int64()) + 1
}
