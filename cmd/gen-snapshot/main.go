package main

import (
	"context"
	"flag"
	"os"

	"github.com/talentco/skillsearch/internal/searchcheck"
	"github.com/talentco/skillsearch/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumUsers      = 200
	defaultSkillsPerUser = 4
)

func main() {
	var (
		numUsers       = flag.Int("users", defaultNumUsers, "Number of users to generate")
		skillsPerUser  = flag.Int("skills", defaultSkillsPerUser, "Maximum skills per user")
		outputFile     = flag.String("output", "data/user_db.json", "Destination path for the snapshot")
		includeCorrupt = flag.Bool("corrupt", false, "Sprinkle in out-of-range ratings")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	config := &searchcheck.SnapshotConfig{
		NumUsers:       *numUsers,
		SkillsPerUser:  *skillsPerUser,
		OutputFile:     *outputFile,
		IncludeCorrupt: *includeCorrupt,
	}

	if err := searchcheck.GenerateSnapshot(context.Background(), config); err != nil {
		os.Stderr.WriteString("Snapshot generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
