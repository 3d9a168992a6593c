package linear

import (
	"fmt"
	"math"
	"sync"

	"github.com/YuminosukeSato/arithmath/core/model"
	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// PerceptronClass is the output of a Perceptron: +1 or -1.
type PerceptronClass int

const (
	ClassNegative PerceptronClass = -1
	ClassPositive PerceptronClass = 1
)

func (c PerceptronClass) String() string {
	switch c {
	case ClassPositive:
		return "+1"
	case ClassNegative:
		return "-1"
	default:
		return fmt.Sprintf("PerceptronClass(%d)", int(c))
	}
}

// Perceptron is a binary linear classifier without bias. Its weight vector
// starts at zero and is updated in place by Train.
type Perceptron struct {
	mu      sync.RWMutex
	weights vector.Vector
	state   *model.StateManager
}

// NewPerceptron creates a perceptron over dimension-dimensional inputs.
func NewPerceptron(dimension int) (*Perceptron, error) {
	if dimension <= 0 {
		return nil, errors.NewValidationError("dimension", "must be positive", dimension)
	}
	return &Perceptron{
		weights: vector.Zero(dimension),
		state:   model.NewStateManager(dimension, 2),
	}, nil
}

// Dimension returns the input dimension.
func (p *Perceptron) Dimension() int { return p.weights.Dimension() }

// Weights returns a copy of the weight vector.
func (p *Perceptron) Weights() vector.Vector {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return vector.New(p.weights.Values())
}

// Updates returns how many Train calls changed the weights.
func (p *Perceptron) Updates() int {
	return p.state.Iterations()
}

// Predict returns ClassPositive when w·x >= 0 and ClassNegative otherwise.
func (p *Perceptron) Predict(x vector.Vector) (PerceptronClass, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.predict("Perceptron.Predict", x)
}

// Decision returns the preactivation w·x. Its sign is the predicted class and
// its magnitude ranks samples by confidence.
func (p *Perceptron) Decision(x vector.Vector) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.decision("Perceptron.Decision", x)
}

func (p *Perceptron) decision(op string, x vector.Vector) (float64, error) {
	if x.Dimension() != p.weights.Dimension() {
		return 0, errors.NewDimensionError(op, p.weights.Dimension(), x.Dimension(), 1)
	}
	return vector.Dot(p.weights, x)
}

func (p *Perceptron) predict(op string, x vector.Vector) (PerceptronClass, error) {
	preactivation, err := p.decision(op, x)
	if err != nil {
		return 0, err
	}
	if preactivation >= 0 {
		return ClassPositive, nil
	}
	return ClassNegative, nil
}

// Train applies the perceptron rule w += learningRate*class*x when x is
// misclassified. It reports whether the weights changed.
func (p *Perceptron) Train(x vector.Vector, class PerceptronClass, learningRate float64) (bool, error) {
	const op = "Perceptron.Train"

	if class != ClassPositive && class != ClassNegative {
		return false, errors.NewValidationError("class", "must be +1 or -1", int(class))
	}
	if learningRate <= 0 || math.IsNaN(learningRate) || math.IsInf(learningRate, 0) {
		return false, errors.NewValidationError("learning_rate", "must be positive and finite", learningRate)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	predicted, err := p.predict(op, x)
	if err != nil {
		return false, err
	}
	if predicted == class {
		return false, nil
	}
	if err := p.weights.AddScaledInPlace(learningRate*float64(class), x); err != nil {
		return false, err
	}
	p.state.RecordStep(1)
	return true, nil
}

// BinaryClass maps class index 0 to ClassNegative and 1 to ClassPositive.
func BinaryClass(label int) (PerceptronClass, error) {
	switch label {
	case 0:
		return ClassNegative, nil
	case 1:
		return ClassPositive, nil
	default:
		return 0, errors.NewLabelError("linear.BinaryClass", label, 2)
	}
}

// Label is the inverse of BinaryClass.
func (c PerceptronClass) Label() int {
	if c == ClassPositive {
		return 1
	}
	return 0
}
