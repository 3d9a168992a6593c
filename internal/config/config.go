// Package config loads experiment settings for the arithmath command.
package config

import (
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
	"github.com/YuminosukeSato/arithmath/pkg/log"
)

// Experiment is the top-level configuration document.
type Experiment struct {
	Seed       uint64     `yaml:"seed"`
	LogLevel   string     `yaml:"log_level"`
	LogFormat  string     `yaml:"log_format"`
	Perceptron Perceptron `yaml:"perceptron"`
	Logistic   Logistic   `yaml:"logistic"`
	Plot       string     `yaml:"plot"`
	Output     string     `yaml:"output"`
}

// Perceptron configures the binary perceptron experiment.
type Perceptron struct {
	LearningRate    float64 `yaml:"learning_rate"`
	MaxEpochs       int     `yaml:"max_epochs"`
	SamplesPerClass int     `yaml:"samples_per_class"`
	TestPerClass    int     `yaml:"test_per_class"`
}

// Logistic configures the multinomial logistic regression experiment.
type Logistic struct {
	Classes       int     `yaml:"classes"`
	LearningRate  float64 `yaml:"learning_rate"`
	Decay         float64 `yaml:"decay"`
	Epochs        int     `yaml:"epochs"`
	BatchSize     int     `yaml:"batch_size"`
	TrainPerClass int     `yaml:"train_per_class"`
	TestPerClass  int     `yaml:"test_per_class"`
	Tol           float64 `yaml:"tol"`
	Standardize   bool    `yaml:"standardize"`
}

// Default returns the settings used when no file or override is given.
func Default() *Experiment {
	return &Experiment{
		Seed:      42,
		LogLevel:  "info",
		LogFormat: "console",
		Perceptron: Perceptron{
			LearningRate:    1.0,
			MaxEpochs:       1000,
			SamplesPerClass: 1000,
			TestPerClass:    100,
		},
		Logistic: Logistic{
			Classes:       3,
			LearningRate:  0.2,
			Decay:         0.95,
			Epochs:        200,
			BatchSize:     50,
			TrainPerClass: 400,
			TestPerClass:  60,
		},
	}
}

// Load reads a YAML file over Default, applies environment overrides and
// validates the result. An empty path yields the defaults.
func Load(path string) (*Experiment, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides reads ARITHMATH_SEED and ARITHMATH_LOG_LEVEL.
func applyEnvOverrides(cfg *Experiment) error {
	if seed := os.Getenv("ARITHMATH_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return errors.NewValidationError("ARITHMATH_SEED", "must be an unsigned integer", seed)
		}
		cfg.Seed = v
	}
	if level := os.Getenv("ARITHMATH_LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	return nil
}

func positive(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.NewValidationError(name, "must be positive", v)
	}
	return nil
}

// Validate checks every field and returns the first ValidationError.
func (e *Experiment) Validate() error {
	if _, ok := log.ParseLevel(e.LogLevel); !ok {
		return errors.NewValidationError("log_level", "must be one of debug, info, warn, error", e.LogLevel)
	}
	if e.LogFormat != "console" && e.LogFormat != "json" {
		return errors.NewValidationError("log_format", "must be console or json", e.LogFormat)
	}

	p := e.Perceptron
	for _, check := range []error{
		positive("perceptron.learning_rate", p.LearningRate),
		positive("perceptron.max_epochs", float64(p.MaxEpochs)),
		positive("perceptron.samples_per_class", float64(p.SamplesPerClass)),
		positive("perceptron.test_per_class", float64(p.TestPerClass)),
	} {
		if check != nil {
			return check
		}
	}

	l := e.Logistic
	if l.Classes < 2 || l.Classes > 4 {
		return errors.NewValidationError("logistic.classes", "must be between 2 and 4", l.Classes)
	}
	if l.Decay <= 0 || l.Decay > 1 {
		return errors.NewValidationError("logistic.decay", "must be in (0, 1]", l.Decay)
	}
	if l.Tol < 0 {
		return errors.NewValidationError("logistic.tol", "must be non-negative", l.Tol)
	}
	for _, check := range []error{
		positive("logistic.learning_rate", l.LearningRate),
		positive("logistic.epochs", float64(l.Epochs)),
		positive("logistic.batch_size", float64(l.BatchSize)),
		positive("logistic.train_per_class", float64(l.TrainPerClass)),
		positive("logistic.test_per_class", float64(l.TestPerClass)),
	} {
		if check != nil {
			return check
		}
	}
	return nil
}

// Marshal renders the configuration as YAML.
func (e *Experiment) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, "marshal config")
	}
	return data, nil
}
