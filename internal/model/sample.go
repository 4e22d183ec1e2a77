package model

// SampleSource identifies where a training sample came from.
type SampleSource string

const (
	// SourceCorrection marks samples from the user-corrections log.
	SourceCorrection SampleSource = "correction"
	// SourceTransaction marks samples derived from transaction notes.
	SourceTransaction SampleSource = "transaction"
)

// Weight returns the centroid weight for this source. Corrections carry
// three times the weight of ordinary transactions.
func (s SampleSource) Weight() float64 {
	if s == SourceCorrection {
		return 3.0
	}
	return 1.0
}

// TrainingSample is one labeled text used to build category profiles.
type TrainingSample struct {
	Text       string
	CategoryID string
	Source     SampleSource
}

// Key returns the deduplication key for a sample. Two samples with the
// same key describe the same (text, category) pair regardless of source.
func (s TrainingSample) Key() string {
	return s.Text + "\x00" + s.CategoryID
}
