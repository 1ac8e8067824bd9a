package searchcheck

import "time"

// Config holds configuration for the search verification run
type Config struct {
	BaseURL    string        // Base URL of the service
	NumQueries int           // Number of queries to generate
	TopKSkills int           // Matched-skill limit per query
	TopNUsers  int           // Top-ranked window size per query
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for queries and violations
	LogFile    string        // Log file for run output
	Verbose    bool          // Enable verbose logging
}

// Query is one generated search request.
type Query struct {
	QueryID string `json:"query_id"`
	Text    string `json:"text"`
}

// Violation records one broken ranking invariant in a search response.
type Violation struct {
	QueryID string `json:"query_id"`
	Text    string `json:"text"`
	Detail  string `json:"detail"`
}

// Stats holds run statistics
type Stats struct {
	QueriesGenerated  int
	QueriesSubmitted  int
	QueriesSuccessful int
	QueriesFailed     int
	UsersRanked       int
	ViolationsFound   int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
