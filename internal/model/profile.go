package model

// CategoryProfile is the learned representation of one category: a
// unit-length centroid over the current vocabulary, computed as the
// weighted average of all sample vectors for that category.
type CategoryProfile struct {
	CategoryID   string    `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CategoryIcon string    `json:"category_icon,omitempty"`
	Centroid     []float64 `json:"centroid"`
	SampleCount  int       `json:"sample_count"`
}
