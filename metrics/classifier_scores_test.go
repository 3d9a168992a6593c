package metrics_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arithmath/datasets"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/metrics"
	"github.com/YuminosukeSato/arithmath/training"
)

func twoClusters(t *testing.T, seed uint64, perClass int) []linear.LabeledExample {
	t.Helper()
	clusters, err := datasets.DefaultCenters(2)
	require.NoError(t, err)
	examples, err := datasets.Generate(rand.NewPCG(seed, 1), clusters, perClass)
	require.NoError(t, err)
	return examples
}

func TestAUCOnClassifierProbabilities(t *testing.T) {
	train := twoClusters(t, 3, 200)
	test := twoClusters(t, 4, 50)

	clf, err := linear.New(2, 2)
	require.NoError(t, err)
	trainer := training.NewTrainer(training.WithEpochs(20), training.WithShuffle(rand.NewPCG(3, 2)))
	_, err = trainer.Fit(context.Background(), clf, train)
	require.NoError(t, err)

	X := mat.NewDense(len(test), 2, nil)
	y := mat.NewVecDense(len(test), nil)
	for i, ex := range test {
		X.SetRow(i, ex.Value.Values())
		y.SetVec(i, float64(ex.Label))
	}
	proba, err := clf.PredictProba(X)
	require.NoError(t, err)

	auc, err := metrics.AUC(y, mat.NewVecDense(len(test), mat.Col(nil, 1, proba)))
	require.NoError(t, err)
	assert.Greater(t, auc, 0.95)

	// Scoring with class 0 flips the ranking.
	flipped, err := metrics.AUC(y, mat.NewVecDense(len(test), mat.Col(nil, 0, proba)))
	require.NoError(t, err)
	assert.InDelta(t, 1-auc, flipped, 1e-9)
}

func TestAUCOnPerceptronDecision(t *testing.T) {
	train := twoClusters(t, 5, 200)
	test := twoClusters(t, 6, 50)

	p, err := linear.NewPerceptron(2)
	require.NoError(t, err)
	_, err = training.NewTrainer(training.WithEpochs(50), training.WithLearningRate(1)).
		FitPerceptron(context.Background(), p, train)
	require.NoError(t, err)

	labels := mat.NewVecDense(len(test), nil)
	scores := mat.NewVecDense(len(test), nil)
	for i, ex := range test {
		score, err := p.Decision(ex.Value)
		require.NoError(t, err)
		labels.SetVec(i, float64(ex.Label))
		scores.SetVec(i, score)
	}

	auc, err := metrics.AUC(labels, scores)
	require.NoError(t, err)
	assert.Greater(t, auc, 0.95)
}
