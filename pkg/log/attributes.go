package log

// Standard attribute keys used across the experiment pipeline. Keeping
// the keys hierarchical (model.name, data.samples, ...) keeps the JSON
// logs filterable.
const (
	// ModelNameKey identifies the model family or transformer type.
	// Examples: "LinearRegression", "RandomForestRegressor".
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed.
	// Standard values: "fit", "predict", "transform", "score".
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "preprocessing", "experiment", "ensemble".
	ComponentKey = "ml.component"

	// RunIDKey carries the experiment run identifier.
	RunIDKey = "run.id"
)

// Data shape attributes.
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// DatasetKey is the dataset file path.
	DatasetKey = "data.path"
)

// Performance attributes.
const (
	// DurationMsKey records operation time in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
