package log

// Model and operation context.
const (
	// ModelNameKey identifies the classifier type, e.g. "MultiClassClassifier".
	ModelNameKey = "model.name"

	// OperationKey is the operation being performed: "fit", "train_step", "predict", "score".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package doing the work, e.g. "training".
	ComponentKey = "ml.component"

	// PhaseKey is the lifecycle phase: "training", "testing".
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey   = "data.samples"
	FeaturesKey  = "data.features"
	ClassesKey   = "data.classes"
	BatchSizeKey = "data.batch_size"
	BatchesKey   = "data.batches"
)

// Training progress and metrics.
const (
	DurationMsKey   = "perf.duration_ms"
	AccuracyKey     = "metrics.accuracy"
	LossKey         = "metrics.loss"
	EpochKey        = "training.epoch"
	UpdatesKey      = "training.updates"
	ConvergedKey    = "training.converged"
	LearningRateKey = "hyperparams.learning_rate"
	DecayKey        = "hyperparams.decay"
	RandomSeedKey   = "config.random_seed"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationTrainStep = "train_step"
	OperationPredict   = "predict"
	OperationScore     = "score"

	PhaseTraining = "training"
	PhaseTesting  = "testing"

	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidLabel      = "INVALID_LABEL"
	ErrorEmptyBatch        = "EMPTY_BATCH"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorNumerical         = "NUMERICAL_INSTABILITY"
)
