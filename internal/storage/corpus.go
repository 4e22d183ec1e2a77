package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vimoney/vimoney/internal/model"
)

// Corpus bounds. Keeping the window small caps retraining cost on old
// devices and lets recent behavior dominate the profiles.
const (
	maxCorrectionSamples  = 500
	maxTransactionSamples = 1000
)

// TrainingSamples assembles the classifier corpus: the most recent
// corrections first, then the most recent categorized transactions with
// non-empty notes. The classifier deduplicates; this method only bounds
// and orders.
func (s *SQLiteStorage) TrainingSamples(ctx context.Context) ([]model.TrainingSample, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	corrections, err := s.GetCorrections(ctx, maxCorrectionSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to load corrections: %w", err)
	}

	samples := make([]model.TrainingSample, 0, len(corrections))
	for _, c := range corrections {
		samples = append(samples, model.TrainingSample{
			Text:       c.Text,
			CategoryID: c.CategoryID,
			Source:     model.SourceCorrection,
		})
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT note, category_id
		FROM transactions
		WHERE category_id IS NOT NULL AND TRIM(note) != ''
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, maxTransactionSamples)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction samples: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	for rows.Next() {
		var sample model.TrainingSample
		if err := rows.Scan(&sample.Text, &sample.CategoryID); err != nil {
			return nil, fmt.Errorf("failed to scan transaction sample: %w", err)
		}
		sample.Source = model.SourceTransaction
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction samples: %w", err)
	}

	slog.Debug("assembled training corpus",
		"corrections", len(corrections),
		"transactions", len(samples)-len(corrections))
	return samples, nil
}

// Categories returns all active categories ordered by name.
func (s *SQLiteStorage) Categories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, icon, is_active, created_at
		FROM categories
		WHERE is_active = 1
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.IsActive, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}
