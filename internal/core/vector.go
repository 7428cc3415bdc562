// ABOUTME: Vector math shared by retrieval and highlighting
// ABOUTME: Cosine similarity with explicit handling of zero-norm vectors
package core

import "math"

// CosineSimilarity returns the cosine of the angle between a and b.
// ok is false when the vectors differ in length or either has zero norm.
func CosineSimilarity(a, b []float64) (similarity float64, ok bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
