// ABOUTME: Scenario data structures for matcher evaluation
// ABOUTME: Built-in image scenarios plus YAML loading for corpus-specific ground truth

package eval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harper/lyricmatch/internal/models"
)

// Scenario is one image to evaluate with its expected outcome
type Scenario struct {
	ID          string                    `yaml:"id" json:"id"`
	Name        string                    `yaml:"name" json:"name"`
	Description string                    `yaml:"description,omitempty" json:"description,omitempty"`
	Features    models.ImageFeatureRecord `yaml:"features" json:"features"`
	GroundTruth GroundTruth               `yaml:"ground_truth" json:"ground_truth"`
}

// GroundTruth defines expected outcomes for one scenario
type GroundTruth struct {
	// Words that MUST appear in the tag
	ExpectedTagWords []string `yaml:"expected_tag_words,omitempty" json:"expected_tag_words,omitempty"`
	// Words that MUST NOT appear in the tag
	ForbiddenTagWords []string `yaml:"forbidden_tag_words,omitempty" json:"forbidden_tag_words,omitempty"`
	// Song titles expected among the top-k candidates
	ExpectedTitles []string `yaml:"expected_titles,omitempty" json:"expected_titles,omitempty"`
}

// Result is the outcome of one scenario
type Result struct {
	ScenarioID        string                 `json:"scenario_id"`
	ScenarioName      string                 `json:"scenario_name"`
	Tag               string                 `json:"tag"`
	TagScore          float64                `json:"tag_score"`
	RetrievalRecall   float64                `json:"retrieval_recall"`
	HighlightCoverage float64                `json:"highlight_coverage"`
	OverallScore      float64                `json:"overall_score"`
	LatencyMillis     int64                  `json:"latency_ms"`
	Status            string                 `json:"status"` // "PASS" or "FAIL"
	Details           map[string]interface{} `json:"details,omitempty"`
	ErrorMessage      string                 `json:"error,omitempty"`
}

// scenarioFile is the YAML layout accepted by LoadScenarios
type scenarioFile struct {
	Scenarios []yamlScenario `yaml:"scenarios"`
}

// yamlScenario mirrors Scenario with YAML-friendly feature fields
type yamlScenario struct {
	ID          string       `yaml:"id"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Features    yamlFeatures `yaml:"features"`
	GroundTruth GroundTruth  `yaml:"ground_truth"`
}

type yamlFeatures struct {
	Brightness     float64     `yaml:"brightness"`
	Contrast       float64     `yaml:"contrast"`
	BlurScore      float64     `yaml:"blur_score"`
	SceneLabel     string      `yaml:"classified_scene_label"`
	DominantColors []yamlColor `yaml:"dominant_colors"`
	AspectRatio    float64     `yaml:"aspect_ratio"`
	RuleOfThirds   float64     `yaml:"rule_of_thirds_score"`
	SymmetryScore  float64     `yaml:"symmetry_score"`
}

type yamlColor struct {
	RGB        [3]uint8 `yaml:"rgb"`
	Name       string   `yaml:"name"`
	Percentage float64  `yaml:"percentage"`
}

func (f yamlFeatures) record() models.ImageFeatureRecord {
	rec := models.ImageFeatureRecord{
		Brightness:           f.Brightness,
		Contrast:             f.Contrast,
		BlurScore:            f.BlurScore,
		ClassifiedSceneLabel: f.SceneLabel,
		Composition: models.Composition{
			AspectRatio:       f.AspectRatio,
			RuleOfThirdsScore: f.RuleOfThirds,
			SymmetryScore:     f.SymmetryScore,
		},
	}
	for _, c := range f.DominantColors {
		rec.DominantColors = append(rec.DominantColors, models.DominantColor{
			RGB:        c.RGB,
			Name:       c.Name,
			Percentage: c.Percentage,
		})
	}
	return rec
}

// LoadScenarios reads scenarios from a YAML file
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes scenarios from YAML. Composition fields sit
// directly under features.
func ParseScenarios(data []byte) ([]Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}

	scenarios := make([]Scenario, 0, len(file.Scenarios))
	for i, s := range file.Scenarios {
		if s.ID == "" {
			return nil, fmt.Errorf("scenario %d has no id", i+1)
		}
		scenarios = append(scenarios, Scenario{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Features:    s.Features.record(),
			GroundTruth: s.GroundTruth,
		})
	}
	return scenarios, nil
}

// GetForestScenario returns a bright, sharp woodland photo
func GetForestScenario() Scenario {
	return Scenario{
		ID:          "forest",
		Name:        "Sunlit forest path",
		Description: "Bright, sharp woodland shot with green and brown dominant colors",
		Features: models.ImageFeatureRecord{
			Brightness: 180,
			Contrast:   100,
			BlurScore:  150,
			DominantColors: []models.DominantColor{
				{RGB: [3]uint8{34, 139, 34}, Name: "green", Percentage: 45},
				{RGB: [3]uint8{139, 69, 19}, Name: "brown", Percentage: 30},
			},
			Composition:          models.Composition{AspectRatio: 1.5, RuleOfThirdsScore: 0.85, SymmetryScore: 0.75},
			ClassifiedSceneLabel: "forest",
		},
		GroundTruth: GroundTruth{
			ExpectedTagWords:  []string{"forest", "bright", "green", "artistic"},
			ForbiddenTagWords: []string{"dark", "night"},
		},
	}
}

// GetNightCityScenario returns a dark, blurry widescreen street photo
func GetNightCityScenario() Scenario {
	return Scenario{
		ID:          "night-city",
		Name:        "Night street",
		Description: "Dark, soft-focus widescreen street scene dominated by near-black",
		Features: models.ImageFeatureRecord{
			Brightness: 30,
			Contrast:   40,
			BlurScore:  20,
			DominantColors: []models.DominantColor{
				{RGB: [3]uint8{10, 10, 30}, Percentage: 70},
			},
			Composition:          models.Composition{AspectRatio: 1.78},
			ClassifiedSceneLabel: "street/city",
		},
		GroundTruth: GroundTruth{
			ExpectedTagWords:  []string{"street", "city", "dark", "cinematic"},
			ForbiddenTagWords: []string{"bright"},
		},
	}
}

// GetPortraitScenario returns a square, symmetric portrait
func GetPortraitScenario() Scenario {
	return Scenario{
		ID:          "portrait",
		Name:        "Square portrait",
		Description: "Evenly lit square portrait with strong symmetry",
		Features: models.ImageFeatureRecord{
			Brightness:           120,
			Contrast:             60,
			BlurScore:            80,
			Composition:          models.Composition{AspectRatio: 1.0, SymmetryScore: 0.9},
			ClassifiedSceneLabel: "portrait",
		},
		GroundTruth: GroundTruth{
			ExpectedTagWords:  []string{"portrait", "intimate", "symmetrical"},
			ForbiddenTagWords: []string{"cinematic"},
		},
	}
}

// GetAllScenarios returns every built-in scenario
func GetAllScenarios() []Scenario {
	return []Scenario{
		GetForestScenario(),
		GetNightCityScenario(),
		GetPortraitScenario(),
	}
}
