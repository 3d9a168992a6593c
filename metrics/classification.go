// Package metrics は分類器の評価指標を提供する
//
// ラベルとクラスインデックスは float64 の *mat.VecDense で受け取る。
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// checkPair validates that two label vectors are non-empty and equally long.
func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil || yTrue.IsEmpty() || yPred.IsEmpty() {
		return 0, errors.NewModelError(op, "empty vector", errors.ErrEmptyData)
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func checkBinary(op string, y *mat.VecDense) error {
	for i := 0; i < y.Len(); i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
	}
	return nil
}

// Accuracy は正解率を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AUC はROC曲線下面積を計算する
//
// yTrue は 0/1 のクラスインデックス、yScore はクラス 1 らしさのスコア
// （PredictProba の列 1 やパーセプトロンの w·x）。同じスコアの組は 0.5 として数える。片方のクラスしか含まれない場合は
// 定義できないため 0.5 を返す。
func AUC(yTrue, yScore *mat.VecDense) (float64, error) {
	n, err := checkPair("AUC", yTrue, yScore)
	if err != nil {
		return 0, err
	}
	if err := checkBinary("AUC", yTrue); err != nil {
		return 0, err
	}

	type scored struct {
		score    float64
		positive bool
	}
	samples := make([]scored, n)
	nPos := 0
	for i := range samples {
		samples[i] = scored{score: yScore.AtVec(i), positive: yTrue.AtVec(i) == 1}
		if samples[i].positive {
			nPos++
		}
	}
	if nPos == 0 || nPos == n {
		return 0.5, nil
	}

	// stat.ROC は昇順のスコアを要求する
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].score < samples[j].score })
	scores := make([]float64, n)
	classes := make([]bool, n)
	for i, s := range samples {
		scores[i] = s.score
		classes[i] = s.positive
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// CrossEntropy は多クラスの交差エントロピー -1/N Σ log p_n,label を計算する
//
// yTrue はクラスインデックス、proba は n×k の確率行列（PredictProba の出力）。
func CrossEntropy(yTrue *mat.VecDense, proba mat.Matrix) (float64, error) {
	if yTrue == nil || yTrue.IsEmpty() || proba == nil {
		return 0, errors.NewModelError("CrossEntropy", "empty input", errors.ErrEmptyData)
	}
	n := yTrue.Len()
	rows, k := proba.Dims()
	if rows != n {
		return 0, errors.NewDimensionError("CrossEntropy", n, rows, 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		label := int(yTrue.AtVec(i))
		if float64(label) != yTrue.AtVec(i) || label < 0 || label >= k {
			return 0, errors.NewLabelError("CrossEntropy", label, k)
		}
		sum -= errors.StabilizeLog(proba.At(i, label))
	}
	loss := sum / float64(n)
	if err := errors.CheckScalar("CrossEntropy", loss, 0); err != nil {
		return 0, err
	}
	return loss, nil
}

// ConfusionMatrix は nClasses×nClasses の混同行列を返す
//
// 要素 (i, j) は正解がクラス i で予測がクラス j だったサンプル数。
func ConfusionMatrix(yTrue, yPred *mat.VecDense, nClasses int) (*mat.Dense, error) {
	if nClasses <= 0 {
		return nil, errors.NewValidationError("n_classes", "must be positive", nClasses)
	}
	n, err := checkPair("ConfusionMatrix", yTrue, yPred)
	if err != nil {
		return nil, err
	}

	cm := mat.NewDense(nClasses, nClasses, nil)
	for i := 0; i < n; i++ {
		t, p := int(yTrue.AtVec(i)), int(yPred.AtVec(i))
		if t < 0 || t >= nClasses {
			return nil, errors.NewLabelError("ConfusionMatrix", t, nClasses)
		}
		if p < 0 || p >= nClasses {
			return nil, errors.NewLabelError("ConfusionMatrix", p, nClasses)
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// PerClassAccuracy は混同行列からクラスごとの正解率（再現率）を計算する
//
// サンプルのないクラスは NaN になる。
func PerClassAccuracy(cm *mat.Dense) []float64 {
	k, _ := cm.Dims()
	out := make([]float64, k)
	for i := range out {
		row := mat.Row(nil, i, cm)
		total := 0.0
		for _, v := range row {
			total += v
		}
		if total == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = cm.At(i, i) / total
	}
	return out
}
