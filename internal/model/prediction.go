package model

// PredictionResult is a single category suggestion for a transaction note.
type PredictionResult struct {
	CategoryID   string
	CategoryName string
	CategoryIcon string
	Confidence   float64
}

// RankedCategory is one entry in a ranked prediction, with confidence
// expressed as an integer percentage.
type RankedCategory struct {
	CategoryID   string
	CategoryName string
	CategoryIcon string
	Confidence   int
}

// RankedPrediction holds the best suggestion plus up to two runners-up.
// When nothing clears the confidence floor, Primary has an empty
// CategoryID and zero confidence.
type RankedPrediction struct {
	Primary      RankedCategory
	Alternatives []RankedCategory
}

// TrainingResult reports the outcome of a classifier retrain. Failures are
// carried in Message rather than an error so callers never have to handle
// a training panic.
type TrainingResult struct {
	Message  string
	Accuracy float64
	Samples  int
	Success  bool
}

// ModelStatus describes the classifier's current state.
type ModelStatus struct {
	IsReady        bool
	IsTraining     bool
	VocabularySize int
	NumCategories  int
}
