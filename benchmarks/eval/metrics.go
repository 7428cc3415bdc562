// ABOUTME: Deterministic metrics for matcher evaluation
// ABOUTME: Scores tag vocabulary, retrieval recall and highlight coverage against ground truth

package eval

import (
	"fmt"
	"strings"

	"github.com/harper/lyricmatch/internal/models"
)

// PassThreshold is the minimum tag score and retrieval recall for a PASS
const PassThreshold = 0.9

// MetricsCalculator computes evaluation scores for scenarios
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateTagScore checks the tag's words against expected and forbidden
// words. Matching is by whole word, case-insensitive.
func (m *MetricsCalculator) CalculateTagScore(tag string, expected, forbidden []string) (float64, string) {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(tag)) {
		words[w] = true
	}

	var missing []string
	for _, e := range expected {
		if !words[strings.ToLower(e)] {
			missing = append(missing, e)
		}
	}

	var found []string
	for _, f := range forbidden {
		if words[strings.ToLower(f)] {
			found = append(found, f)
		}
	}

	switch {
	case len(missing) == 0 && len(found) == 0:
		return 1.0, "Tag contains every expected word and no forbidden word"
	case len(missing) > 0 && len(found) > 0:
		return 0.0, fmt.Sprintf("Tag missing %v and contains forbidden %v", missing, found)
	case len(missing) > 0:
		return 0.5, fmt.Sprintf("Tag missing expected words: %v", missing)
	default:
		return 0.5, fmt.Sprintf("Tag contains forbidden words: %v", found)
	}
}

// CalculateRetrievalRecall is the fraction of expected titles present among
// the candidates. Titles compare case-insensitively.
func (m *MetricsCalculator) CalculateRetrievalRecall(candidates []models.MatchCandidate, expectedTitles []string) (float64, string) {
	if len(expectedTitles) == 0 {
		return 1.0, "No retrieval ground truth"
	}

	retrieved := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		retrieved[strings.ToLower(strings.TrimSpace(c.Song.Title))] = true
	}

	var missing []string
	for _, t := range expectedTitles {
		if !retrieved[strings.ToLower(strings.TrimSpace(t))] {
			missing = append(missing, t)
		}
	}

	recall := float64(len(expectedTitles)-len(missing)) / float64(len(expectedTitles))
	if len(missing) == 0 {
		return recall, "All expected songs retrieved"
	}
	return recall, fmt.Sprintf("Recall %.2f - missing songs: %v", recall, missing)
}

// CalculateHighlightCoverage is the fraction of candidates with at least one
// medium or strong phrase match.
func (m *MetricsCalculator) CalculateHighlightCoverage(candidates []models.MatchCandidate) float64 {
	if len(candidates) == 0 {
		return 0
	}

	covered := 0
	for _, c := range candidates {
		if hasConfidentMatch(c) {
			covered++
		}
	}
	return float64(covered) / float64(len(candidates))
}

func hasConfidentMatch(c models.MatchCandidate) bool {
	for _, line := range c.AnnotatedLines {
		for _, match := range line.Matches {
			if match.Strength == models.StrengthStrong || match.Strength == models.StrengthMedium {
				return true
			}
		}
	}
	return false
}

// EvaluateScenario scores one run. Highlight coverage is reported but does
// not affect the status.
func (m *MetricsCalculator) EvaluateScenario(scenario Scenario, tag string, candidates []models.MatchCandidate) Result {
	tagScore, tagDetail := m.CalculateTagScore(tag, scenario.GroundTruth.ExpectedTagWords, scenario.GroundTruth.ForbiddenTagWords)
	recall, recallDetail := m.CalculateRetrievalRecall(candidates, scenario.GroundTruth.ExpectedTitles)
	coverage := m.CalculateHighlightCoverage(candidates)

	status := "FAIL"
	if tagScore >= PassThreshold && recall >= PassThreshold {
		status = "PASS"
	}

	titles := make([]string, 0, len(candidates))
	for _, c := range candidates {
		titles = append(titles, c.Song.Title)
	}

	return Result{
		ScenarioID:        scenario.ID,
		ScenarioName:      scenario.Name,
		Tag:               tag,
		TagScore:          tagScore,
		RetrievalRecall:   recall,
		HighlightCoverage: coverage,
		OverallScore:      (tagScore + recall) / 2.0,
		Status:            status,
		Details: map[string]interface{}{
			"tag_detail":       tagDetail,
			"recall_detail":    recallDetail,
			"retrieved_titles": titles,
		},
	}
}
