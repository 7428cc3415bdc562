// ABOUTME: Evaluation runner executing scenarios against a matcher
// ABOUTME: Collects per-scenario scores and latency and exports a JSON summary

package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/harper/lyricmatch/internal/models"
)

// Pipeline is the part of the matcher the runner drives
type Pipeline interface {
	MatchFeatures(ctx context.Context, features models.ImageFeatureRecord, topK int) (string, []models.MatchCandidate, error)
}

// Runner executes evaluation scenarios
type Runner struct {
	matcher Pipeline
	topK    int
	metrics *MetricsCalculator
	verbose bool
}

// NewRunner creates a runner retrieving topK songs per scenario
func NewRunner(matcher Pipeline, topK int, verbose bool) *Runner {
	if topK <= 0 {
		topK = 5
	}
	return &Runner{
		matcher: matcher,
		topK:    topK,
		metrics: NewMetricsCalculator(),
		verbose: verbose,
	}
}

// RunScenario synthesizes, retrieves and scores one scenario. A matcher
// failure is recorded on the result as a FAIL, not returned.
func (r *Runner) RunScenario(ctx context.Context, scenario Scenario) Result {
	start := time.Now()

	tag, candidates, err := r.matcher.MatchFeatures(ctx, scenario.Features, r.topK)
	elapsed := time.Since(start)
	if r.verbose {
		log.Printf("[%s] tag: %q", scenario.ID, tag)
	}
	if err != nil {
		return Result{
			ScenarioID:    scenario.ID,
			ScenarioName:  scenario.Name,
			Tag:           tag,
			LatencyMillis: elapsed.Milliseconds(),
			Status:        "FAIL",
			ErrorMessage:  err.Error(),
		}
	}
	if r.verbose {
		log.Printf("[%s] %d candidates in %v", scenario.ID, len(candidates), elapsed)
	}

	result := r.metrics.EvaluateScenario(scenario, tag, candidates)
	result.LatencyMillis = elapsed.Milliseconds()
	return result
}

// RunAll executes scenarios in order, stopping early if ctx is done
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) ([]Result, error) {
	results := make([]Result, 0, len(scenarios))
	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, r.RunScenario(ctx, scenario))
	}
	return results, nil
}

// Summary is the exported evaluation report
type Summary struct {
	Timestamp   string   `json:"timestamp"`
	TotalTests  int      `json:"total_tests"`
	Passed      int      `json:"passed"`
	Failed      int      `json:"failed"`
	MeanLatency int64    `json:"mean_latency_ms"`
	Results     []Result `json:"results"`
}

// Summarize counts passes and averages latency
func Summarize(results []Result) Summary {
	summary := Summary{
		Timestamp:  time.Now().Format(time.RFC3339),
		TotalTests: len(results),
		Results:    results,
	}

	var total int64
	for _, result := range results {
		if result.Status == "PASS" {
			summary.Passed++
		} else {
			summary.Failed++
		}
		total += result.LatencyMillis
	}
	if len(results) > 0 {
		summary.MeanLatency = total / int64(len(results))
	}
	return summary
}

// ExportResults writes the summary of results to outputPath as JSON
func ExportResults(results []Result, outputPath string) error {
	jsonData, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
