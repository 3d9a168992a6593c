package linear

// Option is a function that configures MultiClassClassifier
type Option func(*MultiClassClassifier)

// WithParallelThreshold sets the number of rows above which the matrix
// methods (PredictProba, PredictMatrix, Score) split work across CPU cores.
func WithParallelThreshold(rows int) Option {
	return func(m *MultiClassClassifier) {
		if rows >= 0 {
			m.parallelThreshold = rows
		}
	}
}
