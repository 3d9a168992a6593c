// Package training drives classifiers over many epochs of shuffled
// minibatches with a decaying learning rate.
package training

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/datasets"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/metrics"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
	"github.com/YuminosukeSato/arithmath/pkg/log"
)

// Model is a classifier trainable by minibatch gradient descent.
// *linear.MultiClassClassifier implements it.
type Model interface {
	Train(examples []linear.LabeledExample, learningRate float64) ([][]float64, error)
	Loss(examples []linear.LabeledExample) (float64, error)
	Predict(x vector.Vector) (int, error)
}

// History records per-epoch training statistics.
type History struct {
	Loss         []float64
	Accuracy     []float64
	LearningRate []float64
}

// Epochs returns the number of completed epochs.
func (h *History) Epochs() int { return len(h.Loss) }

// Trainer は学習ループの設定を保持する
type Trainer struct {
	epochs       int
	batchSize    int
	learningRate float64
	decay        float64
	tol          float64
	src          rand.Source
	logger       log.Logger
	metrics      *Metrics
}

// Option configures a Trainer.
type Option func(*Trainer)

// WithEpochs sets the number of passes over the training set.
func WithEpochs(n int) Option {
	return func(t *Trainer) { t.epochs = n }
}

// WithBatchSize sets the minibatch size.
func WithBatchSize(n int) Option {
	return func(t *Trainer) { t.batchSize = n }
}

// WithLearningRate sets the learning rate of the first epoch.
func WithLearningRate(rate float64) Option {
	return func(t *Trainer) { t.learningRate = rate }
}

// WithDecay sets the factor the learning rate is multiplied by after each
// epoch.
func WithDecay(decay float64) Option {
	return func(t *Trainer) { t.decay = decay }
}

// WithShuffle reshuffles the training set from src before every epoch.
// Without it batches are taken in input order.
func WithShuffle(src rand.Source) Option {
	return func(t *Trainer) { t.src = src }
}

// WithLogger sets the logger. The default is log.GetLoggerWithName("training").
func WithLogger(logger log.Logger) Option {
	return func(t *Trainer) { t.logger = logger }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(t *Trainer) { t.metrics = m }
}

// WithTol sets the loss change above which the final epoch is reported as
// not converged. Zero disables the check.
func WithTol(tol float64) Option {
	return func(t *Trainer) { t.tol = tol }
}

// NewTrainer returns a Trainer with the defaults of the logistic demo:
// 200 epochs, batches of 50, learning rate 0.2 decayed by 0.95.
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		epochs:       200,
		batchSize:    50,
		learningRate: 0.2,
		decay:        0.95,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = log.GetLoggerWithName("training")
	}
	return t
}

func (t *Trainer) validate() error {
	if t.epochs <= 0 {
		return errors.NewValidationError("epochs", "must be positive", t.epochs)
	}
	if t.batchSize <= 0 {
		return errors.NewValidationError("batch_size", "must be positive", t.batchSize)
	}
	if t.learningRate <= 0 || math.IsInf(t.learningRate, 0) || math.IsNaN(t.learningRate) {
		return errors.NewValidationError("learning_rate", "must be positive and finite", t.learningRate)
	}
	if t.decay <= 0 || t.decay > 1 {
		return errors.NewValidationError("decay", "must be in (0, 1]", t.decay)
	}
	if t.tol < 0 {
		return errors.NewValidationError("tol", "must be non-negative", t.tol)
	}
	return nil
}

// Fit は examples でモデルを学習させる
//
// 各エポックで（WithShuffle が指定されていれば）データをシャッフルし、
// 連続したミニバッチごとに clf.Train を呼んだ後、学習率に decay を掛ける。
// エポックの終わりに訓練データ全体の損失と正解率を History に記録する。
// ctx はエポックの合間に確認され、キャンセル時はそれまでの History と
// ctx.Err() をラップしたエラーを返す。
func (t *Trainer) Fit(ctx context.Context, clf Model, examples []linear.LabeledExample) (*History, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if len(examples) == 0 {
		return nil, errors.NewModelError("Trainer.Fit", "no training data", errors.ErrEmptyBatch)
	}

	logger := t.logger.With(log.OperationKey, log.OperationFit, log.PhaseKey, log.PhaseTraining)
	logger.Info("Training started",
		log.SamplesKey, len(examples),
		log.BatchSizeKey, t.batchSize,
		log.LearningRateKey, t.learningRate,
		log.DecayKey, t.decay,
	)
	start := time.Now()

	history := &History{}
	rate := t.learningRate
	for epoch := 0; epoch < t.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return history, errors.Wrapf(err, "fit cancelled after %d epochs", epoch)
		}

		data := examples
		if t.src != nil {
			data = datasets.Shuffle(t.src, examples)
		}
		batches, err := datasets.Minibatches(data, t.batchSize)
		if err != nil {
			return history, err
		}
		for _, batch := range batches {
			stepStart := time.Now()
			if _, err := clf.Train(batch, rate); err != nil {
				logger.Error("Training step failed", err, log.EpochKey, epoch)
				return history, err
			}
			t.metrics.observeStep(time.Since(stepStart).Seconds())
		}

		loss, err := clf.Loss(examples)
		if err != nil {
			return history, err
		}
		if err := errors.CheckScalar("epoch_loss", loss, epoch); err != nil {
			logger.Error("Loss diverged", err, log.EpochKey, epoch, log.ErrorCodeKey, log.ErrorNumerical)
			return history, err
		}
		acc, err := Accuracy(clf, examples)
		if err != nil {
			return history, err
		}

		history.Loss = append(history.Loss, loss)
		history.Accuracy = append(history.Accuracy, acc)
		history.LearningRate = append(history.LearningRate, rate)
		t.metrics.observeEpoch(loss, acc, rate)

		if logger.Enabled(ctx, log.LevelDebug) {
			logger.Debug("Epoch finished",
				log.EpochKey, epoch,
				log.BatchesKey, len(batches),
				log.LossKey, loss,
				log.AccuracyKey, acc,
				log.LearningRateKey, rate,
			)
		}
		rate *= t.decay
	}

	converged := true
	if n := len(history.Loss); t.tol > 0 && n >= 2 {
		if delta := math.Abs(history.Loss[n-1] - history.Loss[n-2]); delta > t.tol {
			converged = false
			errors.Warn(errors.NewConvergenceWarning("Trainer.Fit", t.epochs,
				fmt.Sprintf("last loss change %.3g exceeds tol %.3g", delta, t.tol)))
		}
	}

	n := len(history.Loss)
	logger.Info("Training finished",
		log.EpochKey, n,
		log.LossKey, history.Loss[n-1],
		log.AccuracyKey, history.Accuracy[n-1],
		log.ConvergedKey, converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return history, nil
}

// Accuracy returns the fraction of examples clf predicts correctly.
func Accuracy(clf Model, examples []linear.LabeledExample) (float64, error) {
	if len(examples) == 0 {
		return 0, errors.NewModelError("training.Accuracy", "no examples", errors.ErrEmptyData)
	}
	yTrue := mat.NewVecDense(len(examples), nil)
	yPred := mat.NewVecDense(len(examples), nil)
	for i, ex := range examples {
		class, err := clf.Predict(ex.Value)
		if err != nil {
			return 0, err
		}
		yTrue.SetVec(i, float64(ex.Label))
		yPred.SetVec(i, float64(class))
	}
	return metrics.Accuracy(yTrue, yPred)
}
