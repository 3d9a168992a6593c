// Package preprocessing は学習前に特徴量を変換する変換器を提供します。
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// minScale 未満の標準偏差は 1 として扱う（定数特徴量でゼロ除算しない）。
const minScale = 1e-8

// StandardScaler は特徴量を平均0、標準偏差1に変換する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler()
//	if err := scaler.Fit(train); err != nil { ... }
//	scaledTrain, err := scaler.TransformExamples(train)
type StandardScaler struct {
	// Mean は各特徴量の平均値
	Mean []float64

	// Scale は各特徴量の標準偏差（母標準偏差）
	Scale []float64

	fitted bool
}

// NewStandardScaler は未学習の StandardScaler を作成する
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// IsFitted は Fit 済みかどうかを返す
func (s *StandardScaler) IsFitted() bool { return s.fitted }

// NFeatures は学習した特徴量の数を返す
func (s *StandardScaler) NFeatures() int { return len(s.Mean) }

// Fit は学習例の特徴量から平均と標準偏差を計算する
//
// 全ての例は同じ次元でなければならない。
func (s *StandardScaler) Fit(examples []linear.LabeledExample) error {
	if len(examples) == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	d := examples[0].Value.Dimension()
	if d == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	column := make([][]float64, d)
	for j := range column {
		column[j] = make([]float64, len(examples))
	}
	for i, ex := range examples {
		if ex.Value.Dimension() != d {
			return errors.NewDimensionError("StandardScaler.Fit", d, ex.Value.Dimension(), 1)
		}
		for j := 0; j < d; j++ {
			column[j][i] = ex.Value.At(j)
		}
	}

	s.Mean = make([]float64, d)
	s.Scale = make([]float64, d)
	for j, values := range column {
		mean := stat.Mean(values, nil)
		sd := math.Sqrt(stat.MomentAbout(2, values, mean, nil))
		if sd < minScale {
			sd = 1
		}
		s.Mean[j] = mean
		s.Scale[j] = sd
	}
	s.fitted = true
	return nil
}

func (s *StandardScaler) check(op string, d int) error {
	if !s.fitted {
		return errors.NewModelError(op, "scaler not fitted", errors.ErrNotFitted)
	}
	if d != len(s.Mean) {
		return errors.NewDimensionError(op, len(s.Mean), d, 1)
	}
	return nil
}

// Transform は1つのベクトルを標準化する
func (s *StandardScaler) Transform(x vector.Vector) (vector.Vector, error) {
	if err := s.check("StandardScaler.Transform", x.Dimension()); err != nil {
		return vector.Vector{}, err
	}
	out := x.Values()
	floats.Sub(out, s.Mean)
	floats.Div(out, s.Scale)
	return vector.Of(out...), nil
}

// InverseTransform は標準化されたベクトルを元のスケールに戻す
func (s *StandardScaler) InverseTransform(x vector.Vector) (vector.Vector, error) {
	if err := s.check("StandardScaler.InverseTransform", x.Dimension()); err != nil {
		return vector.Vector{}, err
	}
	out := x.Values()
	floats.Mul(out, s.Scale)
	floats.Add(out, s.Mean)
	return vector.Of(out...), nil
}

// TransformExamples は各例の特徴量を標準化した新しいスライスを返す。ラベルはそのまま。
func (s *StandardScaler) TransformExamples(examples []linear.LabeledExample) ([]linear.LabeledExample, error) {
	out := make([]linear.LabeledExample, len(examples))
	for i, ex := range examples {
		v, err := s.Transform(ex.Value)
		if err != nil {
			return nil, err
		}
		out[i] = linear.LabeledExample{Value: v, Label: ex.Label}
	}
	return out, nil
}

// TransformMatrix は n×d 行列の各行を標準化する
func (s *StandardScaler) TransformMatrix(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if err := s.check("StandardScaler.TransformMatrix", c); err != nil {
		return nil, err
	}
	result := mat.NewDense(r, c, nil)
	result.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return result, nil
}

// FitTransform は Fit と TransformExamples をまとめて行う
func (s *StandardScaler) FitTransform(examples []linear.LabeledExample) ([]linear.LabeledExample, error) {
	if err := s.Fit(examples); err != nil {
		return nil, err
	}
	return s.TransformExamples(examples)
}

func (s *StandardScaler) String() string {
	if !s.fitted {
		return "StandardScaler()"
	}
	return fmt.Sprintf("StandardScaler(mean=%v, scale=%v)", s.Mean, s.Scale)
}
