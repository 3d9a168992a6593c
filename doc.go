// Package arithmath trains small linear classifiers from scratch on synthetic
// Gaussian data.
//
// The library is split into a few packages:
//
//   - core/vector: immutable real vectors with checked arithmetic
//   - linear: the multinomial logistic regression classifier (softmax over
//     per-class linear scores) and a bias-free binary perceptron
//   - datasets: Gaussian cluster sampling, shuffling and minibatching
//   - training: the epoch loop with learning-rate decay, history and
//     Prometheus metrics
//   - metrics: accuracy, cross-entropy, confusion matrices and AUC
//   - preprocessing: feature standardization
//   - visualize: scatter plots and loss curves via gonum/plot
//
// # Quick Start
//
//	clf, _ := linear.New(2, 3)
//	data, _ := datasets.Generate(rand.NewPCG(42, 1), clusters, 400)
//
//	trainer := training.NewTrainer(
//	    training.WithEpochs(200),
//	    training.WithBatchSize(50),
//	    training.WithLearningRate(0.2),
//	    training.WithDecay(0.95),
//	)
//	history, err := trainer.Fit(ctx, clf, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	class, _ := clf.Predict(vector.Of(-2, 2))
//
// # Error Handling
//
// Errors are typed values from pkg/errors carrying stack traces:
// DimensionError for vectors of the wrong length, LabelError for labels
// outside [0, classes) and ModelError wrapping sentinels such as
// ErrEmptyBatch. A training step that fails leaves the classifier unchanged.
//
// # Concurrency
//
// A MultiClassClassifier may be shared between goroutines. Predictions take a
// read lock; a training step holds the write lock for the whole step, so
// readers see either the old or the new parameters.
//
// The arithmath command in cmd/arithmath runs both experiments end to end.
package arithmath
