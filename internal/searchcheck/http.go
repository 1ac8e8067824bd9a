package searchcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/talentco/skillsearch/internal/domain/types"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// searchRequest is the wire shape of POST /search.
type searchRequest struct {
	Query      string `json:"query"`
	TopKSkills int    `json:"top_k_skills,omitempty"`
	TopNUsers  int    `json:"top_n_users,omitempty"`
}

// QueryResult pairs a generated query with the response it produced.
type QueryResult struct {
	Query  Query
	Result types.SearchResult
	OK     bool
}

// submitQueries submits queries concurrently using a worker pool.
func submitQueries(ctx context.Context, config *Config, queries []Query, stats *Stats) ([]QueryResult, error) {
	log.Printf("Submitting %d queries with %d workers...", len(queries), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/search"

	results := make([]QueryResult, len(queries))
	var (
		successful int64
		failed     int64
		submitted  int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	queryChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range queryChan {
				select {
				case <-ctx.Done():
					return
				default:
					query := queries[index]
					result, err := submitSingleQuery(ctx, client, url, config, query)

					atomic.AddInt64(&submitted, 1)
					if err != nil {
						atomic.AddInt64(&failed, 1)
						results[index] = QueryResult{Query: query}
						if config.Verbose {
							log.Printf("query %s failed: %v", query.QueryID, err)
						}
					} else {
						atomic.AddInt64(&successful, 1)
						results[index] = QueryResult{Query: query, Result: result, OK: true}
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						fail := atomic.LoadInt64(&failed)
						log.Printf("progress: %d/%d submitted (success: %d, failed: %d)",
							total, len(queries), succ, fail)
					}
				}
			}
		}()
	}

	// Send query indices to workers
	go func() {
		defer close(queryChan)
		for i := range queries {
			select {
			case <-ctx.Done():
				return
			case queryChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Update stats
	stats.QueriesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.QueriesSuccessful = int(atomic.LoadInt64(&successful))
	stats.QueriesFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`Query submission completed:
   Successful: %d
   Failed: %d
`, stats.QueriesSuccessful, stats.QueriesFailed)

	return results, nil
}

// submitSingleQuery submits one query and parses the search result.
func submitSingleQuery(ctx context.Context, client *HTTPClient, url string, config *Config, query Query) (types.SearchResult, error) {
	req := searchRequest{
		Query:      query.Text,
		TopKSkills: config.TopKSkills,
		TopNUsers:  config.TopNUsers,
	}

	resp, err := client.Post(ctx, url, req)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return types.SearchResult{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return types.SearchResult{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var result types.SearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return types.SearchResult{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}
