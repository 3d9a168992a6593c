package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/arithmath/core/model"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		errors.SetZerologWarnFunc(nil)
		errors.SetWarningHandler(func(error) {})
	})

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestPerceptronCommand(t *testing.T) {
	out, err := execute(t, "perceptron",
		"--log-level", "error",
		"--samples-per-class", "200",
		"--test-per-class", "50",
		"--seed", "7",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "converged: ")
	assert.Contains(t, out, "weights: (")
	assert.Contains(t, out, "class 0 (-2, 2)")
	assert.Contains(t, out, "class 1 (2, -2)")
	assert.Contains(t, out, "held-out AUC: ")
}

func TestLogisticCommand(t *testing.T) {
	dir := t.TempDir()
	weightsPath := filepath.Join(dir, "model.json")
	plotPath := filepath.Join(dir, "clusters.png")

	out, err := execute(t, "logistic",
		"--log-level", "error",
		"--classes", "3",
		"--epochs", "20",
		"--train-per-class", "100",
		"--test-per-class", "30",
		"--output", weightsPath,
		"--plot", plotPath,
		"--standardize",
	)
	require.NoError(t, err)

	for _, want := range []string{"class 0: weights", "class 2: weights", "final training loss", "class 2 held-out accuracy", "held-out accuracy"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "AUC", "AUC is only reported for two classes")

	weights, err := model.LoadModel(weightsPath)
	require.NoError(t, err)
	assert.Equal(t, "MultiClassClassifier", weights.ModelType)
	assert.Len(t, weights.Coefficients, 3)
	assert.Contains(t, weights.Metadata, "scaler_mean")

	assert.FileExists(t, plotPath)
	assert.FileExists(t, filepath.Join(dir, "clusters-loss.png"))
}

func TestLogisticCommandDeterministic(t *testing.T) {
	args := []string{"logistic", "--log-level", "error", "--classes", "2", "--epochs", "5", "--seed", "11",
		"--train-per-class", "40", "--test-per-class", "10"}

	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "held-out AUC: ")
}

// heldOutLines keeps the evaluation part of the logistic output.
func heldOutLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "held-out") || strings.Contains(line, ": weights") {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestLogisticWeightsRoundTrip(t *testing.T) {
	common := []string{"logistic", "--log-level", "error", "--classes", "2", "--seed", "5",
		"--train-per-class", "60", "--test-per-class", "25"}

	for _, ext := range []string{".json", ".gob"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "weights"+ext)

			trained, err := execute(t, append(common, "--epochs", "8", "--output", path)...)
			require.NoError(t, err)

			evaluated, err := execute(t, append(common, "--weights", path)...)
			require.NoError(t, err)

			assert.NotContains(t, evaluated, "final training loss")
			assert.Equal(t, heldOutLines(trained), heldOutLines(evaluated))
			assert.NotEmpty(t, heldOutLines(evaluated))
		})
	}

	t.Run("class count must match", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "weights.json")
		_, err := execute(t, append(common, "--epochs", "2", "--output", path)...)
		require.NoError(t, err)

		_, err = execute(t, "logistic", "--log-level", "error", "--classes", "3", "--weights", path)
		var dimErr *errors.DimensionError
		require.True(t, errors.As(err, &dimErr))
		assert.Equal(t, 3, dimErr.Expected)
		assert.Equal(t, 2, dimErr.Got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, append(common, "--weights", filepath.Join(t.TempDir(), "absent.json"))...)
		assert.Error(t, err)
	})
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "experiment.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: error\nlogistic:\n  classes: 2\n  epochs: 3\n  train_per_class: 20\n  test_per_class: 5\n"), 0o600))

	out, err := execute(t, "logistic", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "class 1: weights")
	assert.NotContains(t, out, "class 2: weights")
}

func TestInvalidSettings(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		param string
	}{
		{"too many classes", []string{"logistic", "--classes", "5"}, "logistic.classes"},
		{"bad log level", []string{"perceptron", "--log-level", "loud"}, "log_level"},
		{"negative learning rate", []string{"perceptron", "--learning-rate", "-1"}, "perceptron.learning_rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)

			var valErr *errors.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.param, valErr.ParamName)
		})
	}
}
