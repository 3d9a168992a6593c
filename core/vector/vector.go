// Package vector provides the dense float64 vector shared by the classifiers.
//
// Arithmetic is functional: Plus, Minus, Scale and Dot never modify their
// operands and always allocate a fresh result. The only mutating operation is
// AddScaledInPlace, which is named as such.
package vector

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// Vector is a fixed-dimension dense vector of float64 values.
// The zero value is a zero-dimensional vector.
type Vector struct {
	data []float64
}

// New returns a vector holding a copy of values.
func New(values []float64) Vector {
	data := make([]float64, len(values))
	copy(data, values)
	return Vector{data: data}
}

// Of returns a vector of the given components.
//
//	v := vector.Of(1, 2)
func Of(values ...float64) Vector {
	return New(values)
}

// Zero returns the zero vector of the given dimension.
func Zero(dimension int) Vector {
	if dimension < 0 {
		dimension = 0
	}
	return Vector{data: make([]float64, dimension)}
}

// FromVecDense copies a gonum vector.
func FromVecDense(v mat.Vector) Vector {
	data := make([]float64, v.Len())
	for i := range data {
		data[i] = v.AtVec(i)
	}
	return Vector{data: data}
}

// Dimension returns the number of components.
func (v Vector) Dimension() int {
	return len(v.data)
}

// At returns the i-th component. It panics if i is out of range.
func (v Vector) At(i int) float64 {
	return v.data[i]
}

// Values returns a copy of the components.
func (v Vector) Values() []float64 {
	out := make([]float64, len(v.data))
	copy(out, v.data)
	return out
}

// VecDense returns the vector as a gonum *mat.VecDense backed by a copy.
func (v Vector) VecDense() *mat.VecDense {
	if len(v.data) == 0 {
		return &mat.VecDense{}
	}
	return mat.NewVecDense(len(v.data), v.Values())
}

// Equal reports whether v and other have the same dimension and components.
func (v Vector) Equal(other Vector) bool {
	return len(v.data) == len(other.data) && floats.Equal(v.data, other.data)
}

// EqualApprox is Equal with an absolute/relative tolerance per component.
func (v Vector) EqualApprox(other Vector, tol float64) bool {
	return len(v.data) == len(other.data) && floats.EqualApprox(v.data, other.data, tol)
}

func (v Vector) String() string {
	parts := make([]string, len(v.data))
	for i, x := range v.data {
		parts[i] = fmt.Sprintf("%g", x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func checkSameDimension(op string, a, b Vector) error {
	if len(a.data) != len(b.data) {
		return errors.NewDimensionError(op, len(a.data), len(b.data), 1)
	}
	return nil
}

// Plus returns a + b.
func Plus(a, b Vector) (Vector, error) {
	if err := checkSameDimension("Vector.Plus", a, b); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(a.data))
	floats.AddTo(out, a.data, b.data)
	return Vector{data: out}, nil
}

// Minus returns a - b.
func Minus(a, b Vector) (Vector, error) {
	if err := checkSameDimension("Vector.Minus", a, b); err != nil {
		return Vector{}, err
	}
	out := make([]float64, len(a.data))
	floats.SubTo(out, a.data, b.data)
	return Vector{data: out}, nil
}

// Scale returns k * v.
func Scale(v Vector, k float64) Vector {
	out := make([]float64, len(v.data))
	floats.ScaleTo(out, k, v.data)
	return Vector{data: out}
}

// Dot returns the inner product of a and b.
func Dot(a, b Vector) (float64, error) {
	if err := checkSameDimension("Vector.Dot", a, b); err != nil {
		return 0, err
	}
	return floats.Dot(a.data, b.data), nil
}

// Plus is the method form of Plus.
func (v Vector) Plus(other Vector) (Vector, error) { return Plus(v, other) }

// Minus is the method form of Minus.
func (v Vector) Minus(other Vector) (Vector, error) { return Minus(v, other) }

// Scale is the method form of Scale.
func (v Vector) Scale(k float64) Vector { return Scale(v, k) }

// Dot is the method form of Dot.
func (v Vector) Dot(other Vector) (float64, error) { return Dot(v, other) }

// AddScaledInPlace performs v += alpha * s, overwriting v's storage.
//
// This is the only mutating operation on Vector. Copies of v made by
// assignment share storage and observe the change; values returned by New,
// Values and the arithmetic functions do not.
func (v Vector) AddScaledInPlace(alpha float64, s Vector) error {
	if err := checkSameDimension("Vector.AddScaledInPlace", v, s); err != nil {
		return err
	}
	floats.AddScaled(v.data, alpha, s.data)
	return nil
}
