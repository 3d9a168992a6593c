package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

func examples(rows ...[]float64) []linear.LabeledExample {
	out := make([]linear.LabeledExample, len(rows))
	for i, r := range rows {
		out[i] = linear.LabeledExample{Value: vector.Of(r...), Label: i % 2}
	}
	return out
}

func TestStandardScaler(t *testing.T) {
	data := examples(
		[]float64{1, 10},
		[]float64{2, 10},
		[]float64{3, 10},
	)

	scaler := NewStandardScaler()
	assert.False(t, scaler.IsFitted())

	scaled, err := scaler.FitTransform(data)
	require.NoError(t, err)
	require.True(t, scaler.IsFitted())
	assert.Equal(t, 2, scaler.NFeatures())

	assert.InDeltaSlice(t, []float64{2, 10}, scaler.Mean, 1e-12)
	assert.InDelta(t, 0.816496580927726, scaler.Scale[0], 1e-12)
	assert.Equal(t, 1.0, scaler.Scale[1], "constant feature keeps unit scale")

	assert.InDelta(t, -1.224744871391589, scaled[0].Value.At(0), 1e-12)
	assert.Equal(t, 0.0, scaled[1].Value.At(0))
	assert.Equal(t, 0.0, scaled[2].Value.At(1))
	for i := range data {
		assert.Equal(t, data[i].Label, scaled[i].Label)
	}

	back, err := scaler.InverseTransform(scaled[2].Value)
	require.NoError(t, err)
	assert.True(t, back.EqualApprox(data[2].Value, 1e-12))

	X := mat.NewDense(1, 2, []float64{3, 10})
	m, err := scaler.TransformMatrix(X)
	require.NoError(t, err)
	assert.InDelta(t, scaled[2].Value.At(0), m.At(0, 0), 1e-12)
}

func TestStandardScalerErrors(t *testing.T) {
	scaler := NewStandardScaler()

	_, err := scaler.Transform(vector.Of(1, 2))
	assert.True(t, errors.Is(err, errors.ErrNotFitted))

	err = scaler.Fit(nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	err = scaler.Fit(examples([]float64{1, 2}, []float64{1}))
	var dimErr *errors.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, 2, dimErr.Expected)

	require.NoError(t, scaler.Fit(examples([]float64{1, 2}, []float64{3, 4})))
	_, err = scaler.Transform(vector.Of(1, 2, 3))
	assert.True(t, errors.As(err, &dimErr))
	_, err = scaler.TransformMatrix(mat.NewDense(1, 3, nil))
	assert.True(t, errors.As(err, &dimErr))
}
