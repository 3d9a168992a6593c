package linear

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arithmath/core/model"
	"github.com/YuminosukeSato/arithmath/core/parallel"
	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/metrics"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

const (
	multiClassModelType = "MultiClassClassifier"
	weightsVersion      = "1.0.0"

	defaultParallelThreshold = 1000
)

// MultiClassClassifier は多クラスロジスティック回帰（softmax 回帰）モデル
//
// クラス c ごとに重みベクトル w_c とバイアス b_c を持ち、入力 x に対する
// 確率を softmax(w_c·x + b_c) で計算する。重みとバイアスはゼロで初期化され、
// Train のみが更新する。
//
// 並行性: Train は書き込みロックを保持したまま勾配計算から重みの置き換えまでを
// 一つのクリティカルセクションとして実行する。問い合わせ系メソッドは読み込み
// ロックの下で一貫したスナップショットを参照する。
type MultiClassClassifier struct {
	mu sync.RWMutex

	dimension  int
	classCount int
	weights    []vector.Vector
	biases     []float64

	state             *model.StateManager
	parallelThreshold int
}

// New は dimension 次元の入力を classCount クラスに分類するモデルを作成する
//
// dimension と classCount はどちらも正でなければならない。
func New(dimension, classCount int, opts ...Option) (*MultiClassClassifier, error) {
	if dimension <= 0 {
		return nil, errors.NewValidationError("dimension", "must be positive", dimension)
	}
	if classCount <= 0 {
		return nil, errors.NewValidationError("class_count", "must be positive", classCount)
	}

	m := &MultiClassClassifier{
		dimension:         dimension,
		classCount:        classCount,
		weights:           make([]vector.Vector, classCount),
		biases:            make([]float64, classCount),
		state:             model.NewStateManager(dimension, classCount),
		parallelThreshold: defaultParallelThreshold,
	}
	for c := range m.weights {
		m.weights[c] = vector.Zero(dimension)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Dimension returns the input dimension.
func (m *MultiClassClassifier) Dimension() int { return m.dimension }

// NClasses returns the number of classes.
func (m *MultiClassClassifier) NClasses() int { return m.classCount }

// Weights returns a copy of the per-class weight vectors.
func (m *MultiClassClassifier) Weights() []vector.Vector {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]vector.Vector, len(m.weights))
	for c, w := range m.weights {
		out[c] = vector.New(w.Values())
	}
	return out
}

// Biases returns a copy of the per-class biases.
func (m *MultiClassClassifier) Biases() []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]float64(nil), m.biases...)
}

// NIterations returns the number of successful Train calls.
func (m *MultiClassClassifier) NIterations() int {
	if m.state == nil {
		return 0
	}
	return m.state.Iterations()
}

// Output returns the class probabilities for input.
func (m *MultiClassClassifier) Output(input vector.Vector) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.output("MultiClassClassifier.Output", input)
}

// output computes softmax(w_c·x + b_c). Callers hold at least the read lock.
func (m *MultiClassClassifier) output(op string, input vector.Vector) ([]float64, error) {
	if m.classCount == 0 {
		return nil, errors.NewModelError(op, "degenerate model", errors.ErrDegenerateModel)
	}
	if input.Dimension() != m.dimension {
		return nil, errors.NewDimensionError(op, m.dimension, input.Dimension(), 1)
	}
	scores := make([]float64, m.classCount)
	for c := range scores {
		dot, err := vector.Dot(m.weights[c], input)
		if err != nil {
			return nil, err
		}
		scores[c] = dot + m.biases[c]
	}
	return Softmax(scores), nil
}

// Predict returns the index of the most probable class. Ties go to the
// lowest index.
func (m *MultiClassClassifier) Predict(input vector.Vector) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.predict("MultiClassClassifier.Predict", input)
}

func (m *MultiClassClassifier) predict(op string, input vector.Vector) (int, error) {
	y, err := m.output(op, input)
	if err != nil {
		return 0, err
	}
	return floats.MaxIdx(y), nil
}

// validateBatch checks every example before any state is touched.
func (m *MultiClassClassifier) validateBatch(op string, examples []LabeledExample) error {
	if len(examples) == 0 {
		return errors.NewModelError(op, "invalid batch", errors.ErrEmptyBatch)
	}
	for _, ex := range examples {
		if ex.Value.Dimension() != m.dimension {
			return errors.NewDimensionError(op, m.dimension, ex.Value.Dimension(), 1)
		}
		if ex.Label < 0 || ex.Label >= m.classCount {
			return errors.NewLabelError(op, ex.Label, m.classCount)
		}
	}
	return nil
}

// Train は examples 全体で勾配降下法を 1 ステップ実行する
//
// 各例について残差 dy[c] = y[c] - t[c]（予測確率 − one-hot 目標）を計算し、
// 勾配 Σ dy[c]·x と Σ dy[c] を累積した後、
//
//	w_c ← w_c - (learningRate/N)·gradW_c
//	b_c ← b_c - (learningRate/N)·gradB_c
//
// で更新する。戻り値は入力順の例ごとの残差ベクトル。
//
// 空のバッチ、次元の異なる入力、範囲外のラベルはいずれも状態を変更する前に
// エラーとなる。
func (m *MultiClassClassifier) Train(examples []LabeledExample, learningRate float64) ([][]float64, error) {
	const op = "MultiClassClassifier.Train"

	if learningRate <= 0 || math.IsNaN(learningRate) || math.IsInf(learningRate, 0) {
		return nil, errors.NewValidationError("learning_rate", "must be positive and finite", learningRate)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.validateBatch(op, examples); err != nil {
		return nil, err
	}

	gradW := make([]vector.Vector, m.classCount)
	for c := range gradW {
		gradW[c] = vector.Zero(m.dimension)
	}
	gradB := make([]float64, m.classCount)
	residuals := make([][]float64, len(examples))

	for n, ex := range examples {
		y, err := m.output(op, ex.Value)
		if err != nil {
			return nil, err
		}
		dy := make([]float64, m.classCount)
		for c := range dy {
			target := 0.0
			if c == ex.Label {
				target = 1.0
			}
			dy[c] = y[c] - target
			if err := gradW[c].AddScaledInPlace(dy[c], ex.Value); err != nil {
				return nil, err
			}
			gradB[c] += dy[c]
		}
		residuals[n] = dy
	}

	step := learningRate / float64(len(examples))
	newWeights := make([]vector.Vector, m.classCount)
	newBiases := make([]float64, m.classCount)
	for c := range newWeights {
		w, err := vector.Minus(m.weights[c], vector.Scale(gradW[c], step))
		if err != nil {
			return nil, err
		}
		newWeights[c] = w
		newBiases[c] = m.biases[c] - step*gradB[c]
	}

	m.weights = newWeights
	m.biases = newBiases
	m.state.RecordStep(len(examples))

	return residuals, nil
}

// Loss は examples に対する平均交差エントロピー -1/N Σ log y_n,label を返す
func (m *MultiClassClassifier) Loss(examples []LabeledExample) (float64, error) {
	const op = "MultiClassClassifier.Loss"

	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.validateBatch(op, examples); err != nil {
		return 0, err
	}
	total := 0.0
	for _, ex := range examples {
		y, err := m.output(op, ex.Value)
		if err != nil {
			return 0, err
		}
		total -= errors.StabilizeLog(y[ex.Label])
	}
	return total / float64(len(examples)), nil
}

// checkMatrix validates the shape of a sample matrix.
func (m *MultiClassClassifier) checkMatrix(op string, X mat.Matrix) (int, error) {
	if m.classCount == 0 {
		return 0, errors.NewModelError(op, "degenerate model", errors.ErrDegenerateModel)
	}
	rows, cols := X.Dims()
	if rows == 0 {
		return 0, errors.NewModelError(op, "empty input", errors.ErrEmptyData)
	}
	if cols != m.dimension {
		return 0, errors.NewDimensionError(op, m.dimension, cols, 1)
	}
	return rows, nil
}

// rowVector copies row i of X, using the row view when X provides one.
func rowVector(X mat.Matrix, i int) vector.Vector {
	if rv, ok := X.(mat.RowViewer); ok {
		return vector.FromVecDense(rv.RowView(i))
	}
	return vector.New(mat.Row(nil, i, X))
}

// PredictProba returns an n×k matrix whose i-th row is Output of the i-th
// row of X.
func (m *MultiClassClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	const op = "MultiClassClassifier.PredictProba"

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.checkMatrix(op, X)
	if err != nil {
		return nil, err
	}

	probas := mat.NewDense(rows, m.classCount, nil)
	err = parallel.ParallelizeWithThresholdErr(rows, m.parallelThreshold, func(start, end int) error {
		for i := start; i < end; i++ {
			y, err := m.output(op, rowVector(X, i))
			if err != nil {
				return err
			}
			probas.SetRow(i, y)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return probas, nil
}

// PredictMatrix returns an n×1 matrix of predicted class indices.
func (m *MultiClassClassifier) PredictMatrix(X mat.Matrix) (mat.Matrix, error) {
	const op = "MultiClassClassifier.PredictMatrix"

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, err := m.checkMatrix(op, X)
	if err != nil {
		return nil, err
	}

	predictions := mat.NewDense(rows, 1, nil)
	err = parallel.ParallelizeWithThresholdErr(rows, m.parallelThreshold, func(start, end int) error {
		for i := start; i < end; i++ {
			class, err := m.predict(op, rowVector(X, i))
			if err != nil {
				return err
			}
			predictions.Set(i, 0, float64(class))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// Score returns the accuracy of PredictMatrix(X) against the class indices
// in the first column of y.
func (m *MultiClassClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := m.PredictMatrix(X)
	if err != nil {
		return 0, err
	}
	rows, _ := X.Dims()
	yRows, _ := y.Dims()
	if yRows != rows {
		return 0, errors.NewDimensionError("MultiClassClassifier.Score", rows, yRows, 0)
	}
	return metrics.Accuracy(
		mat.NewVecDense(rows, mat.Col(nil, 0, y)),
		mat.NewVecDense(rows, mat.Col(nil, 0, predictions)),
	)
}

// ExportWeights はモデルの重みをエクスポート（完全な再現性を保証）
func (m *MultiClassClassifier) ExportWeights() (*model.ModelWeights, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.classCount == 0 {
		return nil, errors.NewModelError("MultiClassClassifier.ExportWeights", "degenerate model", errors.ErrDegenerateModel)
	}

	weights := &model.ModelWeights{
		ModelType:    multiClassModelType,
		Version:      weightsVersion,
		Coefficients: make([][]float64, m.classCount),
		Intercepts:   append([]float64(nil), m.biases...),
		State:        m.state.GetState(),
		Hyperparameters: map[string]interface{}{
			"dimension": m.dimension,
			"n_classes": m.classCount,
		},
		Metadata: map[string]interface{}{},
	}
	for c, w := range m.weights {
		weights.Coefficients[c] = w.Values()
	}
	weights.Metadata["checksum"] = weights.Hash()
	return weights, nil
}

// ImportWeights はエクスポートされた重みを読み込む
//
// 重みの形状はこのモデルの (dimension, classCount) と一致しなければならない。
func (m *MultiClassClassifier) ImportWeights(weights *model.ModelWeights) error {
	const op = "MultiClassClassifier.ImportWeights"

	if weights == nil {
		return errors.NewValidationError("weights", "cannot be nil", nil)
	}
	// 検証後に呼び出し側が変更しても影響しないようにコピーを使う
	weights = weights.Clone()
	if weights.ModelType != multiClassModelType {
		return errors.NewValueError(op, fmt.Sprintf("model type mismatch: expected %s, got %s", multiClassModelType, weights.ModelType))
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	if weights.State.NClasses != m.classCount {
		return errors.NewDimensionError(op, m.classCount, weights.State.NClasses, 0)
	}
	if weights.State.NFeatures != m.dimension {
		return errors.NewDimensionError(op, m.dimension, weights.State.NFeatures, 1)
	}

	newWeights := make([]vector.Vector, m.classCount)
	for c, row := range weights.Coefficients {
		newWeights[c] = vector.New(row)
	}
	newBiases := make([]float64, m.classCount)
	copy(newBiases, weights.Intercepts)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights = newWeights
	m.biases = newBiases
	if m.state == nil {
		m.state = model.NewStateManager(m.dimension, m.classCount)
	}
	m.state.SetState(weights.State)
	return nil
}

// IsFitted reports whether the parameters came from at least one training
// step, either here or in the model they were imported from.
func (m *MultiClassClassifier) IsFitted() bool {
	return m.state != nil && m.state.IsFitted()
}

// GetWeightHash は重みのハッシュ値を計算する（検証用）
func (m *MultiClassClassifier) GetWeightHash() string {
	weights, err := m.ExportWeights()
	if err != nil {
		return ""
	}
	return weights.Hash()
}

// String returns the string representation of the model
func (m *MultiClassClassifier) String() string {
	return fmt.Sprintf("MultiClassClassifier(dimension=%d, n_classes=%d, n_iterations=%d)",
		m.dimension, m.classCount, m.NIterations())
}
