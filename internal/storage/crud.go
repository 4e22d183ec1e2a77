package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vimoney/vimoney/internal/common"
	"github.com/vimoney/vimoney/internal/model"
)

// CreateCategory inserts a new active category and returns it.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name, icon string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	cat := &model.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Icon:      icon,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)`,
		cat.ID, cat.Name, cat.Icon, cat.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Debug("created category", "id", cat.ID, "name", cat.Name)
	return cat, nil
}

// GetCategoryByID fetches one category. Returns common.ErrNotFound when
// the id does not exist.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, icon, is_active, created_at
		FROM categories WHERE id = ?`, id).
		Scan(&cat.ID, &cat.Name, &cat.Icon, &cat.IsActive, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

// DeleteCategory marks a category inactive. Transactions and corrections
// that reference it stay in place; the classifier skips samples whose
// category is no longer active.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE categories SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	slog.Debug("deactivated category", "id", id)
	return nil
}

// AddTransaction stores a transaction. A missing ID is assigned; a
// missing date defaults to now.
func (s *SQLiteStorage) AddTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if txn == nil {
		return fmt.Errorf("transaction cannot be nil")
	}

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.Date.IsZero() {
		txn.Date = time.Now()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	var categoryID any
	if txn.CategoryID != "" {
		categoryID = txn.CategoryID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, note, amount, category_id, occurred_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.Note, txn.Amount, categoryID, txn.Date, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}
	return nil
}

// GetTransactions returns the most recent transactions, newest first.
// A limit of 0 or less returns all rows.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, note, amount, COALESCE(category_id, ''), occurred_at, created_at
		FROM transactions
		ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		if err := rows.Scan(&txn.ID, &txn.Note, &txn.Amount, &txn.CategoryID, &txn.Date, &txn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// AddCorrection appends to the corrections log.
func (s *SQLiteStorage) AddCorrection(ctx context.Context, c *model.Correction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("correction cannot be nil")
	}
	if err := validateString(c.Text, "text"); err != nil {
		return err
	}
	if err := validateString(c.CategoryID, "categoryID"); err != nil {
		return err
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO corrections (id, text, category_id, created_at)
		VALUES (?, ?, ?, ?)`,
		c.ID, c.Text, c.CategoryID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add correction: %w", err)
	}
	return nil
}

// GetCorrections returns the most recent corrections, newest first.
// A limit of 0 or less returns all rows.
func (s *SQLiteStorage) GetCorrections(ctx context.Context, limit int) ([]model.Correction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, text, category_id, created_at
		FROM corrections
		ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", "error", closeErr)
		}
	}()

	var corrections []model.Correction
	for rows.Next() {
		var c model.Correction
		if err := rows.Scan(&c.ID, &c.Text, &c.CategoryID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corrections: %w", err)
	}
	return corrections, nil
}
