package training

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// Metrics holds the Prometheus collectors updated by Trainer.
type Metrics struct {
	Epochs       prometheus.Counter
	Batches      prometheus.Counter
	Loss         prometheus.Gauge
	Accuracy     prometheus.Gauge
	LearningRate prometheus.Gauge
	StepDuration prometheus.Histogram
}

// NewMetrics creates the training collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arithmath_training_epochs_total",
			Help: "Total number of completed training epochs",
		}),
		Batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arithmath_training_batches_total",
			Help: "Total number of minibatch gradient steps",
		}),
		Loss: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arithmath_training_loss",
			Help: "Mean cross-entropy on the training set after the last epoch",
		}),
		Accuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arithmath_training_accuracy",
			Help: "Accuracy on the training set after the last epoch (0.0 to 1.0)",
		}),
		LearningRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arithmath_training_learning_rate",
			Help: "Learning rate used in the last epoch",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arithmath_training_step_duration_seconds",
			Help:    "Duration of a single minibatch gradient step in seconds",
			Buckets: []float64{1e-6, 1e-5, 1e-4, 0.001, 0.01, 0.1, 1.0},
		}),
	}

	for _, c := range []prometheus.Collector{m.Epochs, m.Batches, m.Loss, m.Accuracy, m.LearningRate, m.StepDuration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "register training metrics")
		}
	}
	return m, nil
}

func (m *Metrics) observeEpoch(loss, accuracy, rate float64) {
	if m == nil {
		return
	}
	m.Epochs.Inc()
	m.Loss.Set(loss)
	m.Accuracy.Set(accuracy)
	m.LearningRate.Set(rate)
}

// observeSweep records a perceptron epoch, which has no loss.
func (m *Metrics) observeSweep(accuracy, rate float64) {
	if m == nil {
		return
	}
	m.Epochs.Inc()
	m.Accuracy.Set(accuracy)
	m.LearningRate.Set(rate)
}

func (m *Metrics) observeStep(seconds float64) {
	if m == nil {
		return
	}
	m.Batches.Inc()
	m.StepDuration.Observe(seconds)
}
