package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arithmath/core/vector"
	"github.com/YuminosukeSato/arithmath/datasets"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/metrics"
	"github.com/YuminosukeSato/arithmath/training"
)

// PCG stream ids, so data, shuffling and held-out samples never share a
// sequence.
const (
	streamTrain uint64 = iota + 1
	streamShuffle
	streamTest
)

func newPerceptronCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perceptron",
		Short: "Train a binary perceptron on two Gaussian clusters",
		Long: `Samples two unit-variance clusters centered at (-2,2) and (2,-2),
trains a perceptron without bias until an epoch makes no update, and reports
the accuracy on freshly drawn samples of each cluster.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPerceptron(cmd, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Float64("learning-rate", 0, "Perceptron learning rate")
	cmd.Flags().Int("max-epochs", 0, "Maximum number of sweeps over the training set")
	cmd.Flags().Int("samples-per-class", 0, "Training samples per cluster")
	cmd.Flags().Int("test-per-class", 0, "Held-out samples per cluster")
	return cmd
}

func (a *app) runPerceptron(cmd *cobra.Command, out io.Writer) error {
	cfg := &a.cfg.Perceptron
	flags := cmd.Flags()
	if flags.Changed("learning-rate") {
		cfg.LearningRate, _ = flags.GetFloat64("learning-rate")
	}
	if flags.Changed("max-epochs") {
		cfg.MaxEpochs, _ = flags.GetInt("max-epochs")
	}
	if flags.Changed("samples-per-class") {
		cfg.SamplesPerClass, _ = flags.GetInt("samples-per-class")
	}
	if flags.Changed("test-per-class") {
		cfg.TestPerClass, _ = flags.GetInt("test-per-class")
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	clusters, err := datasets.DefaultCenters(2)
	if err != nil {
		return err
	}
	train, err := datasets.Generate(rand.NewPCG(a.cfg.Seed, streamTrain), clusters, cfg.SamplesPerClass)
	if err != nil {
		return err
	}
	train = datasets.Shuffle(rand.NewPCG(a.cfg.Seed, streamShuffle), train)

	p, err := linear.NewPerceptron(2)
	if err != nil {
		return err
	}
	trainer := training.NewTrainer(
		training.WithEpochs(cfg.MaxEpochs),
		training.WithLearningRate(cfg.LearningRate),
		training.WithLogger(a.logger),
	)
	result, err := trainer.FitPerceptron(cmd.Context(), p, train)
	if err != nil {
		a.logger.Error("Perceptron training failed", err)
		return err
	}

	fmt.Fprintf(out, "epochs: %d  updates: %d  converged: %t\n", result.Epochs, result.Updates, result.Converged)
	fmt.Fprintf(out, "weights: %v\n", p.Weights())

	test := rand.NewPCG(a.cfg.Seed, streamTest)
	var labels, scores []float64
	for _, c := range clusters {
		points, err := datasets.Vectors(test, c, cfg.TestPerClass)
		if err != nil {
			return err
		}
		correct := 0
		for _, x := range points {
			score, err := p.Decision(x)
			if err != nil {
				return err
			}
			class, err := p.Predict(x)
			if err != nil {
				return err
			}
			if class.Label() == c.Label {
				correct++
			}
			labels = append(labels, float64(c.Label))
			scores = append(scores, score)
		}
		fmt.Fprintf(out, "class %d %v: %d/%d correct (%.1f%%)\n",
			c.Label, vector.Of(c.Center...), correct, len(points), 100*float64(correct)/float64(len(points)))
	}

	auc, err := metrics.AUC(mat.NewVecDense(len(labels), labels), mat.NewVecDense(len(scores), scores))
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "held-out AUC: %.4f\n", auc)
	return nil
}
