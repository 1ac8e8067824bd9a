package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/talentco/skillsearch/internal/searchcheck"
)

// Default configuration constants.
const (
	defaultNumQueries = 100
	defaultTopKSkills = 20
	defaultTopNUsers  = 5
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numQueries = flag.Int("queries", defaultNumQueries, "Number of queries to generate and submit")
		topKSkills = flag.Int("topk", defaultTopKSkills, "Matched-skill limit per query")
		topNUsers  = flag.Int("topn", defaultTopNUsers, "Top-ranked window size per query")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for queries and violations (default: search_check_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for run output (default: search_check_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		searchcheck.ShowHelp()
		return
	}

	// Setup logging
	if err := searchcheck.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &searchcheck.Config{
		BaseURL:    *baseURL,
		NumQueries: *numQueries,
		TopKSkills: *topKSkills,
		TopNUsers:  *topNUsers,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the check
	if err := searchcheck.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
