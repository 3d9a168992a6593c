// Package model provides the interfaces shared by the classifiers together
// with their training state bookkeeping and weight serialization.
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the mean accuracy on X against the class indices in y.
	Score(X mat.Matrix, y mat.Matrix) (float64, error)
}

// BatchPredictor is the interface for models that predict row-wise over a
// sample matrix.
type BatchPredictor interface {
	// PredictMatrix returns an n×1 matrix of predicted class indices.
	PredictMatrix(X mat.Matrix) (mat.Matrix, error)
}

// Classifier combines the batch interfaces of a probabilistic classifier.
type Classifier interface {
	BatchPredictor
	Scorer

	// PredictProba returns an n×k matrix of class probabilities.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// NClasses returns the number of classes k.
	NClasses() int
}

// WeightPortable is the interface for models whose parameters can be
// exported, imported and fingerprinted.
type WeightPortable interface {
	ExportWeights() (*ModelWeights, error)
	ImportWeights(weights *ModelWeights) error

	// GetWeightHash returns a hex SHA-256 of the current parameters.
	GetWeightHash() string
}
