package model

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// SaveModel はモデルをファイルに保存する
//
// 拡張子が .json の場合は ModelWeights.ToJSON の形式、それ以外は gob で保存する。
//
// 使用例:
//
//	weights, _ := clf.ExportWeights()
//	err := model.SaveModel(weights, "weights.gob")
func SaveModel(weights *ModelWeights, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", filename)
	}
	defer file.Close()

	if filepath.Ext(filename) == ".json" {
		data, err := weights.ToJSON()
		if err != nil {
			return err
		}
		if _, err := file.Write(data); err != nil {
			return errors.Wrapf(err, "failed to write %s", filename)
		}
		return nil
	}
	return SaveModelToWriter(weights, file)
}

// LoadModel はファイルからモデルを読み込み、形状を検証する
func LoadModel(filename string) (*ModelWeights, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", filename)
	}
	defer file.Close()

	if filepath.Ext(filename) == ".json" {
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", filename)
		}
		weights := &ModelWeights{}
		if err := weights.FromJSON(data); err != nil {
			return nil, err
		}
		return weights, weights.Validate()
	}
	return LoadModelFromReader(file)
}

// SaveModelToWriter はモデルをgobでio.Writerに保存する
func SaveModelToWriter(weights *ModelWeights, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(weights); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// LoadModelFromReader はio.Readerからgobでモデルを読み込む
func LoadModelFromReader(r io.Reader) (*ModelWeights, error) {
	weights := &ModelWeights{}
	if err := gob.NewDecoder(r).Decode(weights); err != nil {
		return nil, errors.Wrap(err, "failed to decode model")
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}
