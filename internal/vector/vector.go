// Package vector implements the small set of fixed-length vector operations
// needed for embedding similarity: dot product, L2 norm, elementwise mean.
package vector

import "math"

// Zeros returns a zero vector of the given dimension.
func Zeros(dim int) []float64 {
	return make([]float64, dim)
}

// Dot returns the dot product of a and b. Vectors of mismatched length
// produce 0 since they cannot be meaningfully compared.
func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}

// Norm returns the L2 (euclidean) norm of v.
func Norm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}

	return math.Sqrt(sum)
}

// Mean returns the elementwise mean of the given vectors. Vectors whose
// length differs from the first one are skipped. Returns nil for no input.
func Mean(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	out := make([]float64, dim)
	count := 0

	for _, v := range vectors {
		if len(v) != dim {
			continue
		}
		for i := range v {
			out[i] += v[i]
		}
		count++
	}

	if count == 0 {
		return nil
	}

	for i := range out {
		out[i] /= float64(count)
	}

	return out
}

// IsZero reports whether every element of v is exactly zero.
func IsZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}

	return true
}

// Finite reports whether v is free of NaN and Inf values.
func Finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}

// Scale multiplies v in place by s and returns it.
func Scale(v []float64, s float64) []float64 {
	for i := range v {
		v[i] *= s
	}

	return v
}
