// ABOUTME: Match results returned by the pipeline
// ABOUTME: Candidates carry per-line phrase highlights ordered by similarity
package models

// Strength is the discretized similarity tier of a phrase match
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// Similarity thresholds (exclusive lower bounds)
const (
	StrongThreshold = 0.6
	MediumThreshold = 0.4
	WeakThreshold   = 0.2
)

// ClassifyStrength returns the tier for a similarity, or false if it is too
// weak to keep.
func ClassifyStrength(similarity float64) (Strength, bool) {
	switch {
	case similarity > StrongThreshold:
		return StrengthStrong, true
	case similarity > MediumThreshold:
		return StrengthMedium, true
	case similarity > WeakThreshold:
		return StrengthWeak, true
	default:
		return "", false
	}
}

// PhraseMatch is a highlighted span of one lyrics line. Token indices are
// inclusive on both ends.
type PhraseMatch struct {
	Phrase        string   `json:"phrase"`
	StartTokenIdx int      `json:"start_idx"`
	EndTokenIdx   int      `json:"end_idx"`
	Similarity    float64  `json:"similarity"`
	Strength      Strength `json:"strength"`
}

// Overlaps reports whether two matches share any token index
func (m PhraseMatch) Overlaps(other PhraseMatch) bool {
	return m.StartTokenIdx <= other.EndTokenIdx && other.StartTokenIdx <= m.EndTokenIdx
}

// LineAnnotation is one non-blank lyrics line and its accepted matches,
// in acceptance (similarity-descending) order.
type LineAnnotation struct {
	Text    string        `json:"text"`
	Matches []PhraseMatch `json:"words"`
}

// MatchCandidate is a retrieved song. Distance follows the vector index
// convention: squared L2, lower is better.
type MatchCandidate struct {
	Song           SongRecord       `json:"song"`
	Distance       float64          `json:"distance"`
	AnnotatedLines []LineAnnotation `json:"lyrics,omitempty"`
}
