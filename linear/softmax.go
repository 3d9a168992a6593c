package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Softmax normalizes scores into a probability distribution.
//
// The maximum score is subtracted before exponentiating so that large
// scores do not overflow; the common factor exp(-max) cancels out. An empty
// input yields an empty output.
func Softmax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	m := floats.Max(scores)
	for i, s := range scores {
		out[i] = math.Exp(s - m)
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}
