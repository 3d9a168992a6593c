package training

import (
	"context"
	"time"

	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/pkg/errors"
	"github.com/YuminosukeSato/arithmath/pkg/log"
)

// PerceptronResult summarizes a FitPerceptron run.
type PerceptronResult struct {
	Epochs    int
	Updates   int
	Converged bool
}

// FitPerceptron sweeps examples with the perceptron rule until an epoch makes
// no update or the trainer's epoch limit is reached. Labels 0 and 1 map to
// ClassNegative and ClassPositive. The learning rate is the trainer's and is
// not decayed; batch size and shuffling do not apply.
func (t *Trainer) FitPerceptron(ctx context.Context, p *linear.Perceptron, examples []linear.LabeledExample) (PerceptronResult, error) {
	if err := t.validate(); err != nil {
		return PerceptronResult{}, err
	}
	if len(examples) == 0 {
		return PerceptronResult{}, errors.NewModelError("Trainer.FitPerceptron", "no training data", errors.ErrEmptyBatch)
	}

	classes := make([]linear.PerceptronClass, len(examples))
	for i, ex := range examples {
		c, err := linear.BinaryClass(ex.Label)
		if err != nil {
			return PerceptronResult{}, err
		}
		classes[i] = c
	}

	logger := t.logger.With(log.ModelNameKey, "Perceptron", log.OperationKey, log.OperationFit)
	start := time.Now()

	var result PerceptronResult
	for result.Epochs < t.epochs {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrapf(err, "perceptron fit cancelled after %d epochs", result.Epochs)
		}
		updates := 0
		for i, ex := range examples {
			updated, err := p.Train(ex.Value, classes[i], t.learningRate)
			if err != nil {
				return result, err
			}
			if updated {
				updates++
			}
		}
		result.Epochs++
		result.Updates += updates
		t.metrics.observeSweep(1-float64(updates)/float64(len(examples)), t.learningRate)

		logger.Debug("Epoch finished", log.EpochKey, result.Epochs, log.UpdatesKey, updates)
		if updates == 0 {
			result.Converged = true
			break
		}
	}

	if !result.Converged {
		errors.Warn(errors.NewConvergenceWarning("Perceptron", result.Epochs, "data may not be linearly separable"))
	}
	logger.Info("Training finished",
		log.EpochKey, result.Epochs,
		log.UpdatesKey, result.Updates,
		log.ConvergedKey, result.Converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return result, nil
}
