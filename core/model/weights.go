package model

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"math"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// ModelWeights はモデルの重みを表す構造体（シリアライゼーション用）
type ModelWeights struct {
	// ModelType はモデルの種類（MultiClassClassifier, Perceptron）
	ModelType string `json:"model_type"`

	// Version はフォーマットのバージョン（互換性チェック用）
	Version string `json:"version"`

	// Coefficients はクラスごとの重みベクトル（NClasses × Dimension）
	Coefficients [][]float64 `json:"coefficients"`

	// Intercepts はクラスごとのバイアス。バイアスを持たないモデルでは空
	Intercepts []float64 `json:"intercepts,omitempty"`

	// State は学習の進捗
	State ModelState `json:"state"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters,omitempty"`

	// Metadata は追加のメタデータ（チェックサム等）
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(mw, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal model weights")
	}
	return data, nil
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "unmarshal model weights")
	}
	return nil
}

// Validate はModelWeightsの形状を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}
	if len(mw.Coefficients) != mw.State.NClasses {
		return errors.NewDimensionError("ModelWeights.Validate", mw.State.NClasses, len(mw.Coefficients), 0)
	}
	if len(mw.Intercepts) != 0 && len(mw.Intercepts) != mw.State.NClasses {
		return errors.NewDimensionError("ModelWeights.Validate", mw.State.NClasses, len(mw.Intercepts), 0)
	}
	for _, row := range mw.Coefficients {
		if len(row) != mw.State.NFeatures {
			return errors.NewDimensionError("ModelWeights.Validate", mw.State.NFeatures, len(row), 1)
		}
		if err := errors.CheckNumericalStability("ModelWeights.Validate", row, mw.State.NIterations); err != nil {
			return err
		}
	}
	if err := errors.CheckNumericalStability("ModelWeights.Validate", mw.Intercepts, mw.State.NIterations); err != nil {
		return err
	}
	if checksum, ok := mw.Metadata["checksum"].(string); ok && checksum != mw.Hash() {
		return errors.NewValueError("ModelWeights.Validate", "checksum mismatch: weights may be corrupted")
	}
	return nil
}

// Hash はCoefficientsとInterceptsのビット列に対するSHA-256を返す。
// 同じ重みからは常に同じ値が得られる。
func (mw *ModelWeights) Hash() string {
	h := sha256.New()
	var buf [8]byte
	write := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	for _, row := range mw.Coefficients {
		for _, v := range row {
			write(v)
		}
	}
	for _, v := range mw.Intercepts {
		write(v)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Coefficients:    make([][]float64, len(mw.Coefficients)),
		State:           mw.State,
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}
	for i, row := range mw.Coefficients {
		clone.Coefficients[i] = append([]float64(nil), row...)
	}
	if mw.Intercepts != nil {
		clone.Intercepts = append([]float64(nil), mw.Intercepts...)
	}
	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
