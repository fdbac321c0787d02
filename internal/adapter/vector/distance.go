// Package vector holds the distance functions and ranking shared by the
// index implementations.
package vector

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Metric names accepted in configuration.
const (
	MetricL2     = "l2"
	MetricCosine = "cosine"
)

// DistanceFunc returns a non-negative distance; smaller is closer.
type DistanceFunc func(a, b []float32) float64

// ParseMetric returns the distance function for name. Empty means l2.
func ParseMetric(name string) (DistanceFunc, error) {
	switch name {
	case "", MetricL2:
		return SquaredL2, nil
	case MetricCosine:
		return CosineDistance, nil
	default:
		return nil, fmt.Errorf("unsupported distance metric: %s", name)
	}
}

// SquaredL2 is the squared euclidean distance.
func SquaredL2(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// CosineDistance is 1 - cosine similarity. Zero vectors are at distance 1.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}

// Candidate is an id with its computed distance.
type Candidate struct {
	ID       string
	Distance float64
}

// TopN sorts candidates by ascending distance, breaking ties by id
// ascending (numerically when both ids are integers), and keeps the first n.
func TopN(cands []Candidate, n int) []Candidate {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].Distance != cands[j].Distance {
			return cands[i].Distance < cands[j].Distance
		}
		return lessID(cands[i].ID, cands[j].ID)
	})
	if n < len(cands) {
		cands = cands[:n]
	}
	return cands
}

func lessID(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}
