package main

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/arithmath/core/model"
	"github.com/YuminosukeSato/arithmath/datasets"
	"github.com/YuminosukeSato/arithmath/linear"
	"github.com/YuminosukeSato/arithmath/metrics"
	"github.com/YuminosukeSato/arithmath/pkg/log"
	"github.com/YuminosukeSato/arithmath/preprocessing"
	"github.com/YuminosukeSato/arithmath/training"
	"github.com/YuminosukeSato/arithmath/visualize"
)

func newLogisticCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logistic",
		Short: "Train a multinomial logistic regression on 2 to 4 Gaussian clusters",
		Long: `Samples unit-variance clusters centered at (-2,2), (2,-2), (0,0) and (2,2),
trains a MultiClassClassifier with shuffled minibatches and a decaying
learning rate, then prints the weights and the held-out accuracy per class.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLogistic(cmd, cmd.OutOrStdout())
		},
	}
	cmd.Flags().Int("classes", 0, "Number of clusters/classes (2-4)")
	cmd.Flags().Int("epochs", 0, "Number of epochs")
	cmd.Flags().Int("batch-size", 0, "Minibatch size")
	cmd.Flags().Float64("learning-rate", 0, "Initial learning rate")
	cmd.Flags().Float64("decay", 0, "Learning rate decay per epoch")
	cmd.Flags().Int("train-per-class", 0, "Training samples per class")
	cmd.Flags().Int("test-per-class", 0, "Held-out samples per class")
	cmd.Flags().Bool("standardize", false, "Scale features to zero mean and unit variance using training statistics")
	cmd.Flags().String("plot", "", "Write a scatter plot of the held-out predictions (.png/.svg); a loss curve is written next to it")
	cmd.Flags().String("output", "", "Save the trained weights (.json or .gob)")
	cmd.Flags().String("weights", "", "Evaluate weights saved by --output instead of training")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while training, e.g. :9090")
	return cmd
}

func (a *app) applyLogisticFlags(cmd *cobra.Command) error {
	cfg := &a.cfg.Logistic
	flags := cmd.Flags()
	intFlags := map[string]*int{
		"classes":         &cfg.Classes,
		"epochs":          &cfg.Epochs,
		"batch-size":      &cfg.BatchSize,
		"train-per-class": &cfg.TrainPerClass,
		"test-per-class":  &cfg.TestPerClass,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	if flags.Changed("learning-rate") {
		cfg.LearningRate, _ = flags.GetFloat64("learning-rate")
	}
	if flags.Changed("decay") {
		cfg.Decay, _ = flags.GetFloat64("decay")
	}
	if flags.Changed("standardize") {
		cfg.Standardize, _ = flags.GetBool("standardize")
	}
	if flags.Changed("plot") {
		a.cfg.Plot, _ = flags.GetString("plot")
	}
	if flags.Changed("output") {
		a.cfg.Output, _ = flags.GetString("output")
	}
	return a.cfg.Validate()
}

func (a *app) runLogistic(cmd *cobra.Command, out io.Writer) error {
	if err := a.applyLogisticFlags(cmd); err != nil {
		return err
	}
	cfg := a.cfg.Logistic

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	trainingMetrics, err := training.NewMetrics(reg)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		shutdown := a.serveMetrics(addr, reg)
		defer shutdown()
	}

	clusters, err := datasets.DefaultCenters(cfg.Classes)
	if err != nil {
		return err
	}
	train, err := datasets.Generate(rand.NewPCG(a.cfg.Seed, streamTrain), clusters, cfg.TrainPerClass)
	if err != nil {
		return err
	}
	raw, err := datasets.Generate(rand.NewPCG(a.cfg.Seed, streamTest), clusters, cfg.TestPerClass)
	if err != nil {
		return err
	}
	test := raw

	var scaler *preprocessing.StandardScaler
	if cfg.Standardize {
		scaler = preprocessing.NewStandardScaler()
		if train, err = scaler.FitTransform(train); err != nil {
			return err
		}
		if test, err = scaler.TransformExamples(raw); err != nil {
			return err
		}
		a.logger.Debug("Features standardized", "scaler", scaler.String())
	}

	clf, err := linear.New(2, cfg.Classes)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("weights"); path != "" {
		if err := a.importWeights(clf, path); err != nil {
			return err
		}
		return a.evaluate(out, clf, raw, test, nil, scaler)
	}

	trainer := training.NewTrainer(
		training.WithEpochs(cfg.Epochs),
		training.WithBatchSize(cfg.BatchSize),
		training.WithLearningRate(cfg.LearningRate),
		training.WithDecay(cfg.Decay),
		training.WithTol(cfg.Tol),
		training.WithShuffle(rand.NewPCG(a.cfg.Seed, streamShuffle)),
		training.WithLogger(a.logger.With(log.ModelNameKey, "MultiClassClassifier", log.ClassesKey, cfg.Classes)),
		training.WithMetrics(trainingMetrics),
	)
	history, err := trainer.Fit(ctx, clf, train)
	if err != nil {
		a.logger.Error("Training failed", err)
		return err
	}

	fmt.Fprintf(out, "final training loss: %.6g\n", history.Loss[len(history.Loss)-1])

	return a.evaluate(out, clf, raw, test, history, scaler)
}

// importWeights loads a weights file into clf.
func (a *app) importWeights(clf *linear.MultiClassClassifier, path string) error {
	weights, err := model.LoadModel(path)
	if err != nil {
		return err
	}
	if err := clf.ImportWeights(weights); err != nil {
		return err
	}
	if !clf.IsFitted() {
		a.logger.Warn("Imported weights were never trained", "path", path)
	}
	a.logger.Info("Weights loaded", "path", path, "hash", clf.GetWeightHash())
	return nil
}

// evaluate reports held-out metrics, then writes the optional plots and
// weights file. history is nil when the weights were imported.
func (a *app) evaluate(out io.Writer, clf *linear.MultiClassClassifier, raw, test []linear.LabeledExample, history *training.History, scaler *preprocessing.StandardScaler) error {
	weights := clf.Weights()
	biases := clf.Biases()
	for c := range weights {
		fmt.Fprintf(out, "class %d: weights %v bias %.6g\n", c, weights[c], biases[c])
	}

	if err := report(out, clf, test); err != nil {
		return err
	}

	if a.cfg.Plot != "" {
		if err := a.writePlots(clf, raw, test, history, a.cfg.Plot); err != nil {
			return err
		}
	}
	if a.cfg.Output != "" {
		exported, err := clf.ExportWeights()
		if err != nil {
			return err
		}
		if scaler != nil {
			exported.Metadata["scaler_mean"] = scaler.Mean
			exported.Metadata["scaler_scale"] = scaler.Scale
		}
		if err := model.SaveModel(exported, a.cfg.Output); err != nil {
			return err
		}
		a.logger.Info("Weights saved", "path", a.cfg.Output, "hash", exported.Hash())
	}
	return nil
}

// asMatrix stacks examples into an n×d sample matrix and an n-vector of
// labels.
func asMatrix(examples []linear.LabeledExample) (*mat.Dense, *mat.VecDense) {
	d := examples[0].Value.Dimension()
	X := mat.NewDense(len(examples), d, nil)
	y := mat.NewVecDense(len(examples), nil)
	for i, ex := range examples {
		X.SetRow(i, ex.Value.Values())
		y.SetVec(i, float64(ex.Label))
	}
	return X, y
}

func report(out io.Writer, clf *linear.MultiClassClassifier, test []linear.LabeledExample) error {
	X, y := asMatrix(test)

	predictions, err := clf.PredictMatrix(X)
	if err != nil {
		return err
	}
	yPred := mat.NewVecDense(len(test), mat.Col(nil, 0, predictions))
	cm, err := metrics.ConfusionMatrix(y, yPred, clf.NClasses())
	if err != nil {
		return err
	}
	for c, acc := range metrics.PerClassAccuracy(cm) {
		fmt.Fprintf(out, "class %d held-out accuracy: %.1f%%\n", c, 100*acc)
	}

	proba, err := clf.PredictProba(X)
	if err != nil {
		return err
	}
	loss, err := metrics.CrossEntropy(y, proba)
	if err != nil {
		return err
	}
	score, err := clf.Score(X, y)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "held-out accuracy: %.1f%%  cross-entropy: %.4f\n", 100*score, loss)

	if clf.NClasses() == 2 {
		auc, err := metrics.AUC(y, mat.NewVecDense(len(test), mat.Col(nil, 1, proba)))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "held-out AUC: %.4f\n", auc)
	}
	return nil
}

// writePlots draws the held-out points at their raw coordinates, colored by
// the class predicted from the (possibly scaled) features. The loss curve is
// skipped when there is no training history.
func (a *app) writePlots(clf *linear.MultiClassClassifier, raw, features []linear.LabeledExample, history *training.History, path string) error {
	predicted := make([]linear.LabeledExample, len(raw))
	for i, ex := range features {
		class, err := clf.Predict(ex.Value)
		if err != nil {
			return err
		}
		predicted[i] = linear.LabeledExample{Value: raw[i].Value, Label: class}
	}
	scatter, err := visualize.Scatter(predicted, "held-out predictions")
	if err != nil {
		return err
	}
	if err := visualize.Save(scatter, path); err != nil {
		return err
	}
	if history == nil {
		a.logger.Info("Plot written", "scatter", path)
		return nil
	}

	curve, err := visualize.Curve("training loss", "cross-entropy", history.Loss)
	if err != nil {
		return err
	}
	ext := filepath.Ext(path)
	lossPath := strings.TrimSuffix(path, ext) + "-loss" + ext
	if err := visualize.Save(curve, lossPath); err != nil {
		return err
	}
	a.logger.Info("Plots written", "scatter", path, "loss", lossPath)
	return nil
}

// serveMetrics exposes reg over HTTP until the returned function is called.
func (a *app) serveMetrics(addr string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Metrics server stopped", err, "addr", addr)
		}
	}()
	a.logger.Info("Serving metrics", "addr", addr)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
