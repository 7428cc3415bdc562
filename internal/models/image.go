// ABOUTME: Image feature record consumed by the descriptor synthesizer
// ABOUTME: Decoding is lenient: absent or mistyped fields fall back to zero values
package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ImageFeatureRecord is the structured visual profile of one image.
// Missing fields decode to their zero value and are treated as such.
type ImageFeatureRecord struct {
	Brightness           float64         `json:"brightness"`
	Contrast             float64         `json:"contrast"`
	BlurScore            float64         `json:"blur_score"`
	DominantColors       []DominantColor `json:"dominant_colors,omitempty"`
	Composition          Composition     `json:"composition"`
	ClassifiedSceneLabel string          `json:"classified_scene_label"`
}

// DominantColor is one cluster from color analysis
type DominantColor struct {
	RGB        [3]uint8 `json:"rgb"`
	Name       string   `json:"name"`
	Percentage float64  `json:"percentage"`
}

// Composition holds framing metrics
type Composition struct {
	AspectRatio       float64 `json:"aspect_ratio"`
	RuleOfThirdsScore float64 `json:"rule_of_thirds_score"`
	SymmetryScore     float64 `json:"symmetry_score"`
}

// UnmarshalJSON requires a JSON object but never fails on its fields.
// Numbers given as strings ("180") are accepted.
func (r *ImageFeatureRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = ImageFeatureRecord{
		Brightness:           lenientFloat(fields["brightness"]),
		Contrast:             lenientFloat(fields["contrast"]),
		BlurScore:            lenientFloat(fields["blur_score"]),
		ClassifiedSceneLabel: lenientString(fields["classified_scene_label"]),
	}

	var colors []json.RawMessage
	if raw, ok := fields["dominant_colors"]; ok && json.Unmarshal(raw, &colors) == nil {
		for _, c := range colors {
			var color DominantColor
			if json.Unmarshal(c, &color) == nil {
				r.DominantColors = append(r.DominantColors, color)
			}
		}
	}

	if raw, ok := fields["composition"]; ok {
		var comp Composition
		if json.Unmarshal(raw, &comp) == nil {
			r.Composition = comp
		}
	}
	return nil
}

// UnmarshalJSON decodes a color leniently; an unusable rgb is left black
func (c *DominantColor) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*c = DominantColor{
		Name:       lenientString(fields["name"]),
		Percentage: lenientFloat(fields["percentage"]),
	}
	var rgb [3]uint8
	if raw, ok := fields["rgb"]; ok && json.Unmarshal(raw, &rgb) == nil {
		c.RGB = rgb
	}
	return nil
}

// UnmarshalJSON decodes composition metrics leniently
func (c *Composition) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*c = Composition{
		AspectRatio:       lenientFloat(fields["aspect_ratio"]),
		RuleOfThirdsScore: lenientFloat(fields["rule_of_thirds_score"]),
		SymmetryScore:     lenientFloat(fields["symmetry_score"]),
	}
	return nil
}

func lenientFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

func lenientString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}
