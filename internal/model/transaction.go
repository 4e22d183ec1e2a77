package model

import "time"

// Transaction is a single spending or income record. Only the free-text
// note participates in classification; amounts are kept for the CLI views.
type Transaction struct {
	Date       time.Time
	CreatedAt  time.Time
	ID         string
	Note       string
	CategoryID string
	Amount     float64
}

// Correction records a user override of a suggested category. Corrections
// outweigh plain transactions during retraining.
type Correction struct {
	CreatedAt  time.Time
	ID         string
	Text       string
	CategoryID string
}
