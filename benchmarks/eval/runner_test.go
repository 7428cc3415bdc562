// ABOUTME: Tests for the evaluation runner and built-in scenarios
// ABOUTME: Drives the real synthesizer with a fake retrieval step

package eval

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harper/lyricmatch/internal/core"
	"github.com/harper/lyricmatch/internal/models"
)

type fakePipeline struct {
	synth      *core.Synthesizer
	candidates []models.MatchCandidate
	err        error
	gotTopK    int
}

func (f *fakePipeline) MatchFeatures(ctx context.Context, features models.ImageFeatureRecord, topK int) (string, []models.MatchCandidate, error) {
	f.gotTopK = topK
	return f.synth.Synthesize(ctx, features), f.candidates, f.err
}

func TestBuiltinScenariosPassWithoutExpansion(t *testing.T) {
	runner := NewRunner(&fakePipeline{synth: core.NewSynthesizer(nil)}, 3, false)

	results, err := runner.RunAll(context.Background(), GetAllScenarios())
	if err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for _, r := range results {
		if r.Status != "PASS" {
			t.Errorf("%s: status %s, tag %q, details %v", r.ScenarioID, r.Status, r.Tag, r.Details)
		}
	}
}

func TestRunScenarioRecordsMatcherError(t *testing.T) {
	fake := &fakePipeline{synth: core.NewSynthesizer(nil), err: errors.New("index not loaded")}
	runner := NewRunner(fake, 0, false)

	result := runner.RunScenario(context.Background(), GetForestScenario())
	if result.Status != "FAIL" {
		t.Errorf("Status = %s, want FAIL", result.Status)
	}
	if result.ErrorMessage != "index not loaded" {
		t.Errorf("ErrorMessage = %q", result.ErrorMessage)
	}
	if fake.gotTopK != 5 {
		t.Errorf("default topK = %d, want 5", fake.gotTopK)
	}
}

func TestRunAllStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&fakePipeline{synth: core.NewSynthesizer(nil)}, 3, false)
	results, err := runner.RunAll(ctx, GetAllScenarios())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestExportResults(t *testing.T) {
	results := []Result{
		{ScenarioID: "a", Status: "PASS", LatencyMillis: 10},
		{ScenarioID: "b", Status: "FAIL", LatencyMillis: 30},
	}
	path := filepath.Join(t.TempDir(), "results.json")

	if err := ExportResults(results, path); err != nil {
		t.Fatalf("ExportResults failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var summary Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if summary.TotalTests != 2 || summary.Passed != 1 || summary.Failed != 1 {
		t.Errorf("summary counts = %d/%d/%d, want 2/1/1", summary.TotalTests, summary.Passed, summary.Failed)
	}
	if summary.MeanLatency != 20 {
		t.Errorf("MeanLatency = %d, want 20", summary.MeanLatency)
	}
}

func TestParseScenarios(t *testing.T) {
	data := []byte(`
scenarios:
  - id: beach
    name: Beach at noon
    features:
      brightness: 200
      contrast: 150
      blur_score: 100
      classified_scene_label: beach
      aspect_ratio: 1.8
      dominant_colors:
        - rgb: [30, 60, 200]
          percentage: 60
    ground_truth:
      expected_tag_words: [beach, sky]
      expected_titles: ["Song A"]
`)

	scenarios, err := ParseScenarios(data)
	if err != nil {
		t.Fatalf("ParseScenarios failed: %v", err)
	}
	if len(scenarios) != 1 {
		t.Fatalf("len = %d, want 1", len(scenarios))
	}

	s := scenarios[0]
	if s.Features.ClassifiedSceneLabel != "beach" || s.Features.Composition.AspectRatio != 1.8 {
		t.Errorf("features not decoded: %+v", s.Features)
	}
	if len(s.Features.DominantColors) != 1 || s.Features.DominantColors[0].RGB != [3]uint8{30, 60, 200} {
		t.Errorf("colors not decoded: %+v", s.Features.DominantColors)
	}
	if len(s.GroundTruth.ExpectedTitles) != 1 {
		t.Errorf("ExpectedTitles = %v", s.GroundTruth.ExpectedTitles)
	}

	tag := core.NewSynthesizer(nil).Synthesize(context.Background(), s.Features)
	score, detail := NewMetricsCalculator().CalculateTagScore(tag, s.GroundTruth.ExpectedTagWords, nil)
	if score != 1.0 {
		t.Errorf("tag %q scored %.2f: %s", tag, score, detail)
	}
}

func TestParseScenariosRequiresID(t *testing.T) {
	if _, err := ParseScenarios([]byte("scenarios:\n  - name: nameless\n")); err == nil {
		t.Error("expected error for scenario without id")
	}
}
