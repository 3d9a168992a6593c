package linear

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/floats"
)

func TestSoftmax(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []float64
	}{
		{name: "empty", scores: []float64{}, want: []float64{}},
		{name: "single", scores: []float64{3.5}, want: []float64{1}},
		{name: "uniform", scores: []float64{0, 0, 0, 0}, want: []float64{0.25, 0.25, 0.25, 0.25}},
		{name: "two", scores: []float64{0, math.Log(3)}, want: []float64{0.25, 0.75}},
		{name: "large inputs do not overflow", scores: []float64{1000, 1000 + math.Log(3)}, want: []float64{0.25, 0.75}},
		{name: "very negative", scores: []float64{-1e6, 0}, want: []float64{0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Softmax(tt.scores)
			assert.Len(t, got, len(tt.want))
			assert.True(t, floats.EqualApprox(tt.want, got, 1e-12), "got %v", got)
		})
	}
}

func TestSoftmaxProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 12))
	for i := 0; i < 100; i++ {
		scores := make([]float64, 1+rng.IntN(8))
		for j := range scores {
			scores[j] = rng.NormFloat64() * 50
		}
		got := Softmax(scores)

		assert.InDelta(t, 1.0, floats.Sum(got), 1e-9)
		for _, p := range got {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}

		shifted := make([]float64, len(scores))
		floats.AddConst(rng.NormFloat64()*100, floats.AddTo(shifted, shifted, scores))
		assert.True(t, floats.EqualApprox(got, Softmax(shifted), 1e-9), "shift invariance")
	}
}

func TestSoftmaxDoesNotModifyInput(t *testing.T) {
	scores := []float64{1, 2, 3}
	Softmax(scores)
	assert.Equal(t, []float64{1, 2, 3}, scores)
}
