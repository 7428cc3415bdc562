// ABOUTME: Descriptor synthesizer turning image features into a tag string
// ABOUTME: Applies an ordered rule table, expands words lexically, dedupes and truncates
package core

import (
	"context"
	"sort"
	"strings"

	"github.com/harper/lyricmatch/internal/lexicon"
	"github.com/harper/lyricmatch/internal/models"
)

const (
	// DefaultMaxTokens bounds the number of words in a tag
	DefaultMaxTokens = 10
	// DefaultSceneExpansions is how many related words each scene word adds
	DefaultSceneExpansions = 3

	moodExpansions  = 2
	colorExpansions = 1
	topColors       = 2
)

// SynthesizerOption configures a Synthesizer
type SynthesizerOption func(*Synthesizer)

// WithMaxTokens caps the tag length in words
func WithMaxTokens(n int) SynthesizerOption {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithSceneExpansions sets how many related words each scene word adds
func WithSceneExpansions(n int) SynthesizerOption {
	return func(s *Synthesizer) {
		if n >= 0 {
			s.sceneExpansions = n
		}
	}
}

// Synthesizer builds a tag from an ImageFeatureRecord. It never fails:
// missing fields behave as zero values and lexical failures add nothing.
type Synthesizer struct {
	expander        *lexicon.Expander
	maxTokens       int
	sceneExpansions int
	rules           []rule
}

// rule contributes descriptors when its predicate holds. Rules run in
// table order, which is relevance order.
type rule struct {
	name    string
	applies func(f *models.ImageFeatureRecord) bool
	tokens  func(ctx context.Context, s *Synthesizer, f *models.ImageFeatureRecord) []string
}

// NewSynthesizer creates a Synthesizer. A nil expander disables expansion.
func NewSynthesizer(expander *lexicon.Expander, opts ...SynthesizerOption) *Synthesizer {
	if expander == nil {
		expander = lexicon.NewExpander(nil)
	}
	s := &Synthesizer{
		expander:        expander,
		maxTokens:       DefaultMaxTokens,
		sceneExpansions: DefaultSceneExpansions,
		rules:           descriptorRules(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns the tag for f: its descriptors joined by single spaces
func (s *Synthesizer) Synthesize(ctx context.Context, f models.ImageFeatureRecord) string {
	return strings.Join(s.Descriptors(ctx, f), " ")
}

// Descriptors returns the ordered, deduplicated, truncated descriptor list
func (s *Synthesizer) Descriptors(ctx context.Context, f models.ImageFeatureRecord) []string {
	var raw []string
	for _, r := range s.rules {
		if r.applies(&f) {
			raw = append(raw, r.tokens(ctx, s, &f)...)
		}
	}
	return dedupeDescriptors(raw, s.maxTokens)
}

func (s *Synthesizer) expand(ctx context.Context, word string, n int) []string {
	return s.expander.Expand(ctx, word, n)
}

func descriptorRules() []rule {
	always := func(*models.ImageFeatureRecord) bool { return true }

	return []rule{
		{
			name:    "scene",
			applies: func(f *models.ImageFeatureRecord) bool { return strings.TrimSpace(f.ClassifiedSceneLabel) != "" },
			tokens: func(ctx context.Context, s *Synthesizer, f *models.ImageFeatureRecord) []string {
				words := SplitSceneLabel(f.ClassifiedSceneLabel)
				out := append([]string(nil), words...)
				for _, w := range words {
					out = append(out, s.expand(ctx, w, s.sceneExpansions)...)
				}
				return out
			},
		},
		{
			name:    "mood",
			applies: always,
			tokens: func(ctx context.Context, s *Synthesizer, f *models.ImageFeatureRecord) []string {
				mood := MoodDescriptor(f.Brightness, f.Contrast)
				return append([]string{mood}, s.expand(ctx, mood, moodExpansions)...)
			},
		},
		{
			name:    "texture",
			applies: always,
			tokens: func(_ context.Context, _ *Synthesizer, f *models.ImageFeatureRecord) []string {
				return TextureDescriptors(f.BlurScore)
			},
		},
		{
			name:    "bright",
			applies: func(f *models.ImageFeatureRecord) bool { return f.Brightness > 100 },
			tokens:  constant("bright"),
		},
		{
			name:    "dark",
			applies: func(f *models.ImageFeatureRecord) bool { return f.Brightness < 50 },
			tokens:  constant("dark"),
		},
		{
			name:    "colors",
			applies: func(f *models.ImageFeatureRecord) bool { return len(f.DominantColors) > 0 },
			tokens: func(ctx context.Context, s *Synthesizer, f *models.ImageFeatureRecord) []string {
				var out []string
				for _, name := range topColorNames(f.DominantColors, topColors) {
					out = append(out, name)
					out = append(out, s.expand(ctx, name, colorExpansions)...)
				}
				return out
			},
		},
		{
			name:    "cinematic",
			applies: func(f *models.ImageFeatureRecord) bool { return f.Composition.AspectRatio > 1.6 },
			tokens:  constant("cinematic"),
		},
		{
			// A zero aspect ratio means composition was not measured
			name: "intimate",
			applies: func(f *models.ImageFeatureRecord) bool {
				return f.Composition.AspectRatio > 0 && f.Composition.AspectRatio < 1.1
			},
			tokens: constant("intimate"),
		},
		{
			name:    "artistic",
			applies: func(f *models.ImageFeatureRecord) bool { return f.Composition.RuleOfThirdsScore > 0.8 },
			tokens:  constant("artistic"),
		},
		{
			name:    "symmetrical",
			applies: func(f *models.ImageFeatureRecord) bool { return f.Composition.SymmetryScore > 0.7 },
			tokens:  constant("symmetrical"),
		},
	}
}

func constant(tokens ...string) func(context.Context, *Synthesizer, *models.ImageFeatureRecord) []string {
	return func(context.Context, *Synthesizer, *models.ImageFeatureRecord) []string {
		return tokens
	}
}

// SplitSceneLabel turns a classifier label like "forest_path" or
// "forest/broadleaf" into lowercase words.
func SplitSceneLabel(label string) []string {
	return strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		switch r {
		case '_', '/', ',', ';', '|', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}

// MoodDescriptor maps brightness and contrast to a mood word. Values above 1
// are taken to be on the 0-255 scale.
func MoodDescriptor(brightness, contrast float64) string {
	b := normalizeUnit(brightness)
	c := normalizeUnit(contrast)

	switch {
	case b > 0.7:
		if c > 0.5 {
			return "vibrant"
		}
		return "airy"
	case b > 0.4:
		if c > 0.6 {
			return "energetic"
		}
		return "relaxed"
	default:
		if c > 0.5 {
			return "intense"
		}
		return "moody"
	}
}

func normalizeUnit(v float64) float64 {
	if v > 1 {
		return v / 255
	}
	return v
}

// TextureDescriptors maps a blur score (variance of the Laplacian) to
// texture words.
func TextureDescriptors(blurScore float64) []string {
	switch {
	case blurScore > 400:
		return []string{"soft"}
	case blurScore < 200:
		return []string{"sharp", "realistic"}
	default:
		return []string{"subtle"}
	}
}

// ColorTerm derives an evocative word from an RGB value for colors that
// came without a name.
func ColorTerm(rgb [3]uint8) string {
	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])

	switch {
	case max(r, g, b) < 50:
		return "night"
	case r > g && r > b:
		if r > 150 {
			return "passion"
		}
		return "warmth"
	case g > r && g > b:
		if g > 150 {
			return "nature"
		}
		return "forest"
	case b > r && b > g:
		if b > 150 {
			return "sky"
		}
		return "ocean"
	case r > 200 && g > 200 && b > 200:
		return "clarity"
	}
	return ""
}

func topColorNames(colors []models.DominantColor, n int) []string {
	sorted := append([]models.DominantColor(nil), colors...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Percentage > sorted[j].Percentage
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	names := make([]string, 0, len(sorted))
	for _, c := range sorted {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			name = ColorTerm(c.RGB)
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// dedupeDescriptors splits multi-word descriptors into words, drops empties
// and repeats keeping first occurrence, and keeps at most maxTokens.
func dedupeDescriptors(raw []string, maxTokens int) []string {
	out := make([]string, 0, maxTokens)
	seen := make(map[string]bool, len(raw))
	for _, d := range raw {
		for _, word := range strings.Fields(strings.ToLower(d)) {
			if seen[word] {
				continue
			}
			seen[word] = true
			out = append(out, word)
			if len(out) == maxTokens {
				return out
			}
		}
	}
	return out
}
