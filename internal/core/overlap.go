// ABOUTME: Greedy overlap resolution for phrase matches within one line
// ABOUTME: Highest similarity wins; accepted spans never share a token
package core

import (
	"sort"

	"github.com/harper/lyricmatch/internal/models"
)

// ResolveOverlaps orders matches by similarity (ties: earlier start, then
// shorter span) and greedily keeps each one that shares no token with an
// already kept match. The result is in acceptance order. This is the greedy
// heuristic, not an optimal interval schedule.
func ResolveOverlaps(matches []models.PhraseMatch) []models.PhraseMatch {
	sorted := append([]models.PhraseMatch(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.StartTokenIdx != b.StartTokenIdx {
			return a.StartTokenIdx < b.StartTokenIdx
		}
		return a.EndTokenIdx-a.StartTokenIdx < b.EndTokenIdx-b.StartTokenIdx
	})

	accepted := make([]models.PhraseMatch, 0, len(sorted))
	for _, m := range sorted {
		if m.StartTokenIdx > m.EndTokenIdx {
			continue
		}
		overlaps := false
		for _, kept := range accepted {
			if m.Overlaps(kept) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, m)
		}
	}
	return accepted
}
