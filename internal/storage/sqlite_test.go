package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimoney/vimoney/internal/common"
	"github.com/vimoney/vimoney/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() {
		assert.NoError(t, s.Close())
	})
	return s
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestCategoryCRUD(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, "Ăn uống", "🍜")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ID)
	assert.True(t, cat.IsActive)

	t.Run("get by id", func(t *testing.T) {
		got, getErr := s.GetCategoryByID(ctx, cat.ID)
		require.NoError(t, getErr)
		assert.Equal(t, "Ăn uống", got.Name)
		assert.Equal(t, "🍜", got.Icon)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, getErr := s.GetCategoryByID(ctx, "missing")
		assert.ErrorIs(t, getErr, common.ErrNotFound)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, dupErr := s.CreateCategory(ctx, "Ăn uống", "🍜")
		assert.Error(t, dupErr)
	})

	t.Run("delete deactivates", func(t *testing.T) {
		require.NoError(t, s.DeleteCategory(ctx, cat.ID))

		cats, listErr := s.Categories(ctx)
		require.NoError(t, listErr)
		assert.Empty(t, cats)

		// The row survives for referential integrity.
		got, getErr := s.GetCategoryByID(ctx, cat.ID)
		require.NoError(t, getErr)
		assert.False(t, got.IsActive)
	})

	t.Run("delete unknown id", func(t *testing.T) {
		assert.ErrorIs(t, s.DeleteCategory(ctx, "missing"), common.ErrNotFound)
	})
}

func TestCategories_SortedByName(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	for _, name := range []string{"Mua sắm", "Ăn uống", "Di chuyển"} {
		_, err := s.CreateCategory(ctx, name, "")
		require.NoError(t, err)
	}

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	for i := 1; i < len(cats); i++ {
		assert.LessOrEqual(t, cats[i-1].Name, cats[i].Name)
	}
}

func TestTransactions(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, "Ăn uống", "🍜")
	require.NoError(t, err)

	txn := &model.Transaction{
		Note:       "cà phê sáng",
		Amount:     35000,
		CategoryID: cat.ID,
	}
	require.NoError(t, s.AddTransaction(ctx, txn))
	assert.NotEmpty(t, txn.ID)
	assert.False(t, txn.Date.IsZero())

	t.Run("nil rejected", func(t *testing.T) {
		assert.Error(t, s.AddTransaction(ctx, nil))
	})

	t.Run("newest first with limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, s.AddTransaction(ctx, &model.Transaction{
				Note:      fmt.Sprintf("chi tiêu %d", i),
				Amount:    float64(10000 * (i + 1)),
				CreatedAt: time.Now().Add(time.Duration(i+1) * time.Second),
			}))
		}

		txns, listErr := s.GetTransactions(ctx, 3)
		require.NoError(t, listErr)
		require.Len(t, txns, 3)
		assert.Equal(t, "chi tiêu 4", txns[0].Note)
		assert.Empty(t, txns[0].CategoryID)
	})
}

func TestCorrections(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, "Di chuyển", "🛵")
	require.NoError(t, err)

	c := &model.Correction{Text: "grab đi làm", CategoryID: cat.ID}
	require.NoError(t, s.AddCorrection(ctx, c))
	assert.NotEmpty(t, c.ID)

	t.Run("empty text rejected", func(t *testing.T) {
		assert.Error(t, s.AddCorrection(ctx, &model.Correction{CategoryID: cat.ID}))
	})

	t.Run("listed newest first", func(t *testing.T) {
		require.NoError(t, s.AddCorrection(ctx, &model.Correction{
			Text:       "xe ôm về nhà",
			CategoryID: cat.ID,
			CreatedAt:  time.Now().Add(time.Second),
		}))

		got, listErr := s.GetCorrections(ctx, 0)
		require.NoError(t, listErr)
		require.Len(t, got, 2)
		assert.Equal(t, "xe ôm về nhà", got[0].Text)
	})
}

func TestTrainingSamples(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, "Ăn uống", "🍜")
	require.NoError(t, err)

	// Transactions with empty notes or no category must not enter the corpus.
	require.NoError(t, s.AddTransaction(ctx, &model.Transaction{Note: "bún chả", Amount: 50000, CategoryID: cat.ID}))
	require.NoError(t, s.AddTransaction(ctx, &model.Transaction{Note: "   ", Amount: 10000, CategoryID: cat.ID}))
	require.NoError(t, s.AddTransaction(ctx, &model.Transaction{Note: "uncategorized", Amount: 10000}))
	require.NoError(t, s.AddCorrection(ctx, &model.Correction{Text: "trà sữa", CategoryID: cat.ID}))

	samples, err := s.TrainingSamples(ctx)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	// Corrections lead so they win deduplication downstream.
	assert.Equal(t, model.SourceCorrection, samples[0].Source)
	assert.Equal(t, "trà sữa", samples[0].Text)
	assert.Equal(t, model.SourceTransaction, samples[1].Source)
	assert.Equal(t, "bún chả", samples[1].Text)
}

func TestTrainingSamples_Empty(t *testing.T) {
	s := newTestStorage(t)

	samples, err := s.TrainingSamples(context.Background())
	require.NoError(t, err)
	assert.Empty(t, samples)
}
