package searchcheck

import (
	"fmt"
	"log"

	"github.com/talentco/skillsearch/internal/domain/types"
)

// expectedBucketCount is the number of score bands every response carries.
const expectedBucketCount = 4

// verifyResults checks the ranking invariants of every successful response.
func verifyResults(config *Config, results []QueryResult, stats *Stats) []Violation {
	log.Println("Verifying results...")

	var violations []Violation
	for _, qr := range results {
		if !qr.OK {
			continue
		}
		for _, detail := range checkResult(qr.Result) {
			violations = append(violations, Violation{
				QueryID: qr.Query.QueryID,
				Text:    qr.Query.Text,
				Detail:  detail,
			})
		}
		stats.UsersRanked += len(qr.Result.TopUsers)
		for _, bucket := range qr.Result.Buckets {
			stats.UsersRanked += len(bucket.Users)
		}
	}

	stats.ViolationsFound = len(violations)
	if len(violations) == 0 {
		log.Println("All ranking invariants hold")
	} else {
		log.Printf("Found %d invariant violations", len(violations))
		shown := len(violations)
		if !config.Verbose && shown > 10 {
			shown = 10
		}
		for i := 0; i < shown; i++ {
			log.Printf("   %s (%q): %s", violations[i].QueryID, violations[i].Text, violations[i].Detail)
		}
	}

	return violations
}

// checkResult returns a description of every invariant the result breaks.
func checkResult(result types.SearchResult) []string {
	var problems []string

	// Matched skills arrive sorted by similarity, strongest first.
	for i := 1; i < len(result.MatchedSkills); i++ {
		if result.MatchedSkills[i].Similarity > result.MatchedSkills[i-1].Similarity {
			problems = append(problems, fmt.Sprintf(
				"matched skills out of order at index %d", i))
			break
		}
	}
	for _, skill := range result.MatchedSkills {
		if skill.Similarity < 0 || skill.Similarity > 1 {
			problems = append(problems, fmt.Sprintf(
				"skill %s similarity %.4f outside [0,1]", skill.SkillID, skill.Similarity))
		}
	}

	// The top user always carries the full display score.
	if len(result.TopUsers) > 0 && result.TopUsers[0].Score.DisplayScore != MaxDisplayScore {
		problems = append(problems, fmt.Sprintf(
			"top user display score is %.2f, want %.2f",
			result.TopUsers[0].Score.DisplayScore, MaxDisplayScore))
	}

	// Ranks are 1-based with no gaps, scores never increase down the list.
	prevScore := MaxDisplayScore
	prevRank := 0
	check := func(user types.RankedUser) {
		if user.Rank != prevRank+1 {
			problems = append(problems, fmt.Sprintf(
				"rank gap: %s has rank %d after rank %d", user.Email, user.Rank, prevRank))
		}
		prevRank = user.Rank
		if user.Score.DisplayScore > prevScore {
			problems = append(problems, fmt.Sprintf(
				"score increases at rank %d (%s)", user.Rank, user.Email))
		}
		prevScore = user.Score.DisplayScore
		if user.Score.DisplayScore < 0 || user.Score.DisplayScore > MaxDisplayScore {
			problems = append(problems, fmt.Sprintf(
				"display score %.2f outside [0,%.0f] for %s",
				user.Score.DisplayScore, MaxDisplayScore, user.Email))
		}
		for _, contribution := range user.Score.SkillContributions {
			if contribution.Rating < 1 || contribution.Rating > 3 {
				problems = append(problems, fmt.Sprintf(
					"rating %d outside {1,2,3} for %s skill %s",
					contribution.Rating, user.Email, contribution.SkillID))
			}
		}
	}
	for _, user := range result.TopUsers {
		check(user)
	}

	// Every band is reported, counts match, members stay inside the band.
	if len(result.Buckets) != expectedBucketCount {
		problems = append(problems, fmt.Sprintf(
			"got %d buckets, want %d", len(result.Buckets), expectedBucketCount))
	}
	for _, bucket := range result.Buckets {
		if bucket.Count != len(bucket.Users) {
			problems = append(problems, fmt.Sprintf(
				"bucket %q count %d does not match %d users",
				bucket.Name, bucket.Count, len(bucket.Users)))
		}
		for _, user := range bucket.Users {
			check(user)
			if user.Score.DisplayScore < bucket.MinScore || user.Score.DisplayScore > bucket.MaxScore {
				problems = append(problems, fmt.Sprintf(
					"user %s score %.2f outside bucket %q [%.0f,%.0f]",
					user.Email, user.Score.DisplayScore, bucket.Name, bucket.MinScore, bucket.MaxScore))
			}
		}
	}

	return problems
}
