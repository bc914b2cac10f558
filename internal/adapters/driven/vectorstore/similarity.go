// Package vectorstore holds helpers shared by the vector store backends.
package vectorstore

import "math"

// CosineSimilarity computes the cosine similarity of two vectors, clamped
// to [0,1]. Negative similarities carry no useful ranking signal for
// retrieval and collapse to zero; a zero vector scores zero against
// everything.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
