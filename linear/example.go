package linear

import (
	"github.com/YuminosukeSato/arithmath/core/vector"
)

// LabeledExample is a training sample paired with its class index.
type LabeledExample struct {
	Value vector.Vector
	Label int
}

// Labels returns the class index of every example, in order.
func Labels(examples []LabeledExample) []int {
	labels := make([]int, len(examples))
	for i, ex := range examples {
		labels[i] = ex.Label
	}
	return labels
}
