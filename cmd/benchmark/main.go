// ABOUTME: Command-line evaluation runner for the image-to-lyrics matcher
// ABOUTME: Runs built-in or YAML scenarios against the corpus and writes JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harper/lyricmatch/benchmarks/eval"
	"github.com/harper/lyricmatch/internal/app"
	"github.com/harper/lyricmatch/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	scenarioID := flag.String("test", "", "Run one built-in scenario (forest, night-city, portrait). If empty, runs all.")
	scenarioFile := flag.String("scenarios", "", "YAML file of scenarios to run instead of the built-in set")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	topK := flag.Int("top-k", 0, "Songs retrieved per scenario (default LYRICMATCH_TOP_K)")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (continuing anyway): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *topK <= 0 {
		*topK = cfg.TopK
	}

	scenarios, err := selectScenarios(*scenarioID, *scenarioFile)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.Options{LoadIndex: true, RequireEmbedder: true, Verbose: *verbose})
	if err != nil {
		log.Fatalf("Failed to initialize matcher: %v", err)
	}
	defer func() { _ = a.Close() }()

	fmt.Println("========================================")
	fmt.Println("lyricmatch evaluation")
	fmt.Println("========================================")
	fmt.Printf("Corpus: %d songs, %d scenarios, top-k %d\n\n", a.Storage.Index().Len(), len(scenarios), *topK)

	runner := eval.NewRunner(a.Matcher, *topK, *verbose)
	results, err := runner.RunAll(ctx, scenarios)
	if err != nil {
		log.Fatalf("Evaluation interrupted: %v", err)
	}

	summary := eval.Summarize(results)

	fmt.Println("========================================")
	fmt.Println("EVALUATION SUMMARY")
	fmt.Println("========================================")
	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ScenarioID, result.ScenarioName)
		fmt.Printf("  Tag: %s\n", result.Tag)
		if result.ErrorMessage != "" {
			fmt.Printf("  Error: %s\n", result.ErrorMessage)
		} else {
			fmt.Printf("  Tag score: %.2f\n", result.TagScore)
			fmt.Printf("  Retrieval recall: %.2f\n", result.RetrievalRecall)
			fmt.Printf("  Highlight coverage: %.2f\n", result.HighlightCoverage)
		}
		fmt.Printf("  Latency: %dms\n", result.LatencyMillis)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total: %d  Passed: %d  Failed: %d  Mean latency: %dms\n",
		summary.TotalTests, summary.Passed, summary.Failed, summary.MeanLatency)
	fmt.Println("========================================")

	if err := eval.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}
	fmt.Printf("✓ Results exported to: %s\n", *outputPath)

	if summary.Failed > 0 {
		os.Exit(1)
	}
}

func selectScenarios(id, file string) ([]eval.Scenario, error) {
	var scenarios []eval.Scenario
	if file != "" {
		loaded, err := eval.LoadScenarios(file)
		if err != nil {
			return nil, err
		}
		scenarios = loaded
	} else {
		scenarios = eval.GetAllScenarios()
	}

	if id == "" {
		return scenarios, nil
	}
	for _, s := range scenarios {
		if s.ID == id {
			return []eval.Scenario{s}, nil
		}
	}
	return nil, fmt.Errorf("unknown scenario %q", id)
}
