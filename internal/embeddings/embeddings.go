package embeddings

import "math"

// Vector is an embedding at the provider's full float64 precision.
type Vector []float64

// Float32 narrows v for storage backends that keep single precision.
func (v Vector) Float32() []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different length, empty vectors and zero vectors score 0.
func CosineSimilarity(a, b Vector) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
