package vector

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

func TestArithmetic(t *testing.T) {
	a := Of(1, 2, 3)
	b := Of(4, -5, 0.5)

	sum, err := Plus(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, -3, 3.5}, sum.Values())

	diff, err := Minus(a, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, 7, 2.5}, diff.Values())

	assert.Equal(t, []float64{2, 4, 6}, Scale(a, 2).Values())

	dot, err := Dot(a, b)
	require.NoError(t, err)
	assert.Equal(t, 4.0-10.0+1.5, dot)

	// inputs are untouched
	assert.Equal(t, []float64{1, 2, 3}, a.Values())
	assert.Equal(t, []float64{4, -5, 0.5}, b.Values())
}

func TestDotAccumulates(t *testing.T) {
	dot, err := Of(1, 1, 1, 1).Dot(Of(1, 2, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 10.0, dot)
}

func TestDimensionMismatch(t *testing.T) {
	a := Of(1, 2)
	b := Of(1, 2, 3)

	tests := []struct {
		name string
		call func() error
	}{
		{"Plus", func() error { _, err := Plus(a, b); return err }},
		{"Minus", func() error { _, err := Minus(a, b); return err }},
		{"Dot", func() error { _, err := Dot(a, b); return err }},
		{"AddScaledInPlace", func() error { return a.AddScaledInPlace(1, b) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var dimErr *errors.DimensionError
			require.True(t, errors.As(err, &dimErr))
			assert.Equal(t, 2, dimErr.Expected)
			assert.Equal(t, 3, dimErr.Got)
		})
	}
	assert.Equal(t, []float64{1, 2}, a.Values())
}

func TestVectorSpaceLaws(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	random := func() Vector {
		v := make([]float64, 5)
		for i := range v {
			v[i] = rng.NormFloat64()
		}
		return New(v)
	}

	for i := 0; i < 20; i++ {
		a, b, c := random(), random(), random()

		ab, _ := Plus(a, b)
		ba, _ := Plus(b, a)
		assert.True(t, ab.Equal(ba), "commutative")

		abc1, _ := Plus(ab, c)
		bc, _ := Plus(b, c)
		abc2, _ := Plus(a, bc)
		assert.True(t, abc1.EqualApprox(abc2, 1e-12), "associative")

		assert.True(t, Scale(a, 1).Equal(a))
		assert.True(t, Scale(a, 0).Equal(Zero(a.Dimension())))

		diff, _ := Minus(a, b)
		viaScale, _ := Plus(a, Scale(b, -1))
		assert.True(t, diff.EqualApprox(viaScale, 1e-12))
	}
}

func TestAddScaledInPlace(t *testing.T) {
	w := Zero(2)
	require.NoError(t, w.AddScaledInPlace(0.5, Of(2, -4)))
	assert.Equal(t, []float64{1, -2}, w.Values())

	snapshot := New(w.Values())
	require.NoError(t, w.AddScaledInPlace(1, Of(1, 1)))
	assert.Equal(t, []float64{1, -2}, snapshot.Values())
	assert.Equal(t, []float64{2, -1}, w.Values())
}

func TestConstructorsCopy(t *testing.T) {
	raw := []float64{1, 2}
	v := New(raw)
	raw[0] = 99
	assert.Equal(t, 1.0, v.At(0))

	vals := v.Values()
	vals[1] = 99
	assert.Equal(t, 2.0, v.At(1))

	dense := v.VecDense()
	dense.SetVec(0, 42)
	assert.Equal(t, 1.0, v.At(0))
	assert.True(t, FromVecDense(dense).Equal(Of(42, 2)))

	assert.Equal(t, 0, Zero(-1).Dimension())
	assert.Equal(t, "(1, 2)", v.String())
}
