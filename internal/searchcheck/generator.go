package searchcheck

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/talentco/skillsearch/pkg/logger"
)

// Term banks the query generator draws from. The phrasing mirrors what
// recruiters actually type into the search box.
var (
	roleTerms = []string{
		"backend engineer",
		"frontend developer",
		"data engineer",
		"platform engineer",
		"machine learning engineer",
		"site reliability engineer",
		"full stack developer",
		"devops engineer",
	}
	skillTerms = []string{
		"python",
		"golang",
		"typescript",
		"kubernetes",
		"terraform",
		"react",
		"postgresql",
		"kafka",
		"aws lambda",
		"spark",
		"docker",
		"graphql",
	}
	qualifierTerms = []string{
		"with production experience",
		"for a migration project",
		"senior level",
		"comfortable with on-call",
		"who can mentor juniors",
		"",
	}
)

// Query shape cases.
const (
	caseRoleOnly       = 0
	caseSkillOnly      = 1
	caseRoleWithSkill  = 2
	caseSkillPair      = 3
	caseFullSentence   = 4
	queryShapeDivisor  = 5
	twoSkillSeparation = 2
)

// pick returns a random element of terms using crypto/rand.
func pick(terms []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(terms))))
	return terms[n.Int64()]
}

// generateQueries creates the specified number of search queries.
func generateQueries(ctx context.Context, config *Config, stats *Stats) ([]Query, error) {
	logger.Get().Info(ctx, "generating search queries", logger.Int("numQueries", config.NumQueries))

	queries := make([]Query, config.NumQueries)

	type queryResult struct {
		index int
		query Query
		err   error
	}

	resultChan := make(chan queryResult, config.NumQueries)

	// Use worker pool for query generation
	workerCount := minInt(config.Workers, config.NumQueries)
	queriesPerWorker := config.NumQueries / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * queriesPerWorker
		end := start + queriesPerWorker
		if worker == workerCount-1 {
			end = config.NumQueries // Last worker gets remaining queries
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- queryResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- queryResult{index: i, query: generateSingleQuery()}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumQueries; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during query generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate query %d: %w", result.index, result.err)
			}
			queries[result.index] = result.query
		}
	}

	stats.QueriesGenerated = len(queries)
	logger.Get().Info(ctx, "generated queries successfully", logger.Int("count", len(queries)))

	return queries, nil
}

// generateSingleQuery builds one query with a varied shape.
func generateSingleQuery() Query {
	shape, _ := rand.Int(rand.Reader, big.NewInt(queryShapeDivisor))

	var text string
	switch shape.Int64() {
	case caseRoleOnly:
		text = pick(roleTerms)
	case caseSkillOnly:
		text = pick(skillTerms)
	case caseRoleWithSkill:
		text = pick(roleTerms) + " with " + pick(skillTerms)
	case caseSkillPair:
		first := pick(skillTerms)
		second := pick(skillTerms)
		text = first + " and " + second
	case caseFullSentence:
		text = pick(roleTerms) + " with " + pick(skillTerms) + " " + pick(qualifierTerms)
	default:
		text = pick(skillTerms)
	}

	return Query{
		QueryID: uuid.New().String(),
		Text:    text,
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
