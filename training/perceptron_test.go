package training

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/datasets"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

func TestFitPerceptronSeparable(t *testing.T) {
	// (-2,2) and (2,-2) with a tight spread are separable through the origin
	examples, err := datasets.Generate(rand.NewPCG(4, 4), []datasets.Cluster{
		{Center: []float64{-2, 2}, StdDev: 0.3, Label: 0},
		{Center: []float64{2, -2}, StdDev: 0.3, Label: 1},
	}, 200)
	require.NoError(t, err)

	p, err := linear.NewPerceptron(2)
	require.NoError(t, err)

	result, err := NewTrainer(WithEpochs(100), WithLearningRate(1), WithLogger(quietLogger())).
		FitPerceptron(context.Background(), p, examples)
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Greater(t, result.Updates, 0)
	assert.Equal(t, result.Updates, p.Updates())

	for _, ex := range examples {
		class, err := p.Predict(ex.Value)
		require.NoError(t, err)
		assert.Equal(t, ex.Label, class.Label())
	}
}

func TestFitPerceptronNotSeparable(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	defer errors.SetWarningHandler(func(error) {})

	examples := []linear.LabeledExample{
		{Value: vector.Of(1, 1), Label: 1},
		{Value: vector.Of(1, 1), Label: 0},
	}
	p, _ := linear.NewPerceptron(2)
	result, err := NewTrainer(WithEpochs(5), WithLogger(quietLogger())).
		FitPerceptron(context.Background(), p, examples)
	require.NoError(t, err)
	assert.False(t, result.Converged)
	assert.Equal(t, 5, result.Epochs)
	assert.Len(t, warnings, 1)
}

func TestFitPerceptronRejectsLabels(t *testing.T) {
	p, _ := linear.NewPerceptron(1)
	_, err := NewTrainer(WithLogger(quietLogger())).FitPerceptron(context.Background(), p,
		[]linear.LabeledExample{{Value: vector.Of(1), Label: 2}})
	var labelErr *errors.LabelError
	assert.True(t, errors.As(err, &labelErr))
}
