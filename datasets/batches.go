package datasets

import (
	"math/rand/v2"

	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// Shuffle returns a Fisher-Yates permutation of examples. The input slice
// is not modified.
func Shuffle(src rand.Source, examples []linear.LabeledExample) []linear.LabeledExample {
	out := append([]linear.LabeledExample(nil), examples...)
	rand.New(src).Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Minibatches splits examples into consecutive, non-overlapping batches of
// size elements. The last batch holds the remainder and may be smaller.
func Minibatches(examples []linear.LabeledExample, size int) ([][]linear.LabeledExample, error) {
	if size <= 0 {
		return nil, errors.NewValidationError("batch_size", "must be positive", size)
	}
	batches := make([][]linear.LabeledExample, 0, (len(examples)+size-1)/size)
	for start := 0; start < len(examples); start += size {
		end := start + size
		if end > len(examples) {
			end = len(examples)
		}
		batches = append(batches, examples[start:end:end])
	}
	return batches, nil
}
