package searchcheck

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/talentco/skillsearch/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "search_check_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the search check tool.
func ShowHelp() {
	os.Stdout.WriteString(`Skill Search Check Tool
=======================

A concurrent tool that fires generated queries at a running skill search
service and verifies the ranking invariants of every response.

Usage:
  go run cmd/search-check/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -queries int
        Number of queries to generate and submit (default 100)
  -topk int
        Matched-skill limit per query (default 20)
  -topn int
        Top-ranked window size per query (default 5)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for queries and violations (default: search_check_TIMESTAMP.json)
  -log string
        Log file for run output (default: search_check_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Check with default settings
  go run cmd/search-check/main.go

  # Check with custom parameters
  go run cmd/search-check/main.go -queries 500 -workers 16 -url http://localhost:8080

  # Check with verbose output
  go run cmd/search-check/main.go -verbose -queries 100
`)
}
