package budget

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vimoney/vimoney/internal/common"
	"github.com/vimoney/vimoney/internal/model"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func assertSimplex(t *testing.T, pred model.BudgetPrediction) {
	t.Helper()
	sum := pred.NeedsRatio + pred.WantsRatio + pred.SavingsRatio
	assert.InDelta(t, 1.0, sum, 1e-6)
	for _, r := range []float64{pred.NeedsRatio, pred.WantsRatio, pred.SavingsRatio} {
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
	assert.GreaterOrEqual(t, pred.Confidence, 0.0)
	assert.LessOrEqual(t, pred.Confidence, 1.0)
}

func TestNormalizeIncome(t *testing.T) {
	tests := []struct {
		name   string
		income float64
		want   float64
	}{
		{name: "floor maps to zero", income: 1_000_000, want: 0},
		{name: "ceiling maps to one", income: 100_000_000, want: 1},
		{name: "below floor clamps", income: 200_000, want: 0},
		{name: "above ceiling clamps", income: 500_000_000, want: 1},
		{name: "ten million is midpoint", income: 10_000_000, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeIncome(tt.income), 1e-9)
		})
	}
}

func TestEntropyConfidence(t *testing.T) {
	assert.InDelta(t, 0.0, entropyConfidence([]float64{1.0 / 3, 1.0 / 3, 1.0 / 3}), 1e-9)
	assert.InDelta(t, 1.0, entropyConfidence([]float64{1, 0, 0}), 1e-9)

	peaked := entropyConfidence([]float64{0.8, 0.1, 0.1})
	soft := entropyConfidence([]float64{0.4, 0.3, 0.3})
	assert.Greater(t, peaked, soft)
}

func TestPredict_FallbackBeforeInitialize(t *testing.T) {
	p := NewPredictor(newMemStore())

	pred := p.Predict(context.Background(), 10_000_000, make([]float64, model.SignalDim), 6, false)

	assertSimplex(t, pred)
	assert.Equal(t, FallbackVersion, pred.ModelVersion)
	assert.InDelta(t, fallbackConfidence, pred.Confidence, 1e-9)
}

func TestPredict_FallbackOnMalformedSignals(t *testing.T) {
	p := NewPredictor(newMemStore())

	pred := p.Predict(context.Background(), 10_000_000, []float64{1, 2}, 6, false)

	assertSimplex(t, pred)
	assert.Equal(t, FallbackVersion, pred.ModelVersion)
}

func TestFallbackRules(t *testing.T) {
	p := NewPredictor(newMemStore())
	ctx := context.Background()

	base := p.Predict(ctx, 15_000_000, make([]float64, model.SignalDim), 6, false)

	t.Run("debt raises needs", func(t *testing.T) {
		debt := model.LifestyleSignals{HasDebt: true, FoodOutFrequency: model.LevelLow, SocialSpending: model.LevelLow, LuxuryInterest: model.LevelLow, Location: model.LocationOther}
		pred := p.Predict(ctx, 15_000_000, debt.Encode(), 6, false)
		assert.Greater(t, pred.NeedsRatio, base.NeedsRatio)
	})

	t.Run("holiday raises wants", func(t *testing.T) {
		pred := p.Predict(ctx, 15_000_000, make([]float64, model.SignalDim), 1, true)
		assert.Greater(t, pred.WantsRatio, base.WantsRatio)
	})
}

func TestInitializeAndPredict(t *testing.T) {
	if testing.Short() {
		t.Skip("cold-start training is slow")
	}
	ctx := context.Background()
	p := NewPredictor(newMemStore(), WithSeed(42))
	require.NoError(t, p.Initialize(ctx))
	require.True(t, p.Initialized())

	t.Run("simplex with model version", func(t *testing.T) {
		pred := p.Predict(ctx, 10_000_000, make([]float64, model.SignalDim), 6, false)
		assertSimplex(t, pred)
		assert.Equal(t, ModelVersion, pred.ModelVersion)
	})

	t.Run("holds for varied inputs", func(t *testing.T) {
		archSignals := model.LifestyleSignals{
			HasRent:          true,
			HasDebt:          true,
			FoodOutFrequency: model.LevelHigh,
			SocialSpending:   model.LevelMedium,
			LuxuryInterest:   model.LevelLow,
			Location:         model.LocationHCM,
		}.Encode()
		for _, income := range []float64{500_000, 3_000_000, 20_000_000, 90_000_000} {
			for _, month := range []int{1, 6, 12} {
				pred := p.Predict(ctx, income, archSignals, month, month == 1)
				assertSimplex(t, pred)
				assert.False(t, math.IsNaN(pred.Confidence))
			}
		}
	})

	t.Run("training history recorded", func(t *testing.T) {
		history := p.TrainingHistory()
		require.Len(t, history, ColdStartEpochs)
		assert.Equal(t, 1, history[0].Epoch)
		assert.Less(t, history[len(history)-1].Loss, history[0].Loss)
	})
}

func TestPersistenceRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("cold-start training is slow")
	}
	ctx := context.Background()
	store := newMemStore()

	p1 := NewPredictor(store, WithSeed(42))
	require.NoError(t, p1.Initialize(ctx))
	signals := make([]float64, model.SignalDim)
	want := p1.Predict(ctx, 12_000_000, signals, 6, false)

	// A fresh predictor over the same store loads instead of retraining.
	p2 := NewPredictor(store, WithSeed(42))
	require.NoError(t, p2.Initialize(ctx))
	got := p2.Predict(ctx, 12_000_000, signals, 6, false)

	assert.InDelta(t, want.NeedsRatio, got.NeedsRatio, 1e-9)
	assert.InDelta(t, want.WantsRatio, got.WantsRatio, 1e-9)
	assert.InDelta(t, want.SavingsRatio, got.SavingsRatio, 1e-9)
	assert.Len(t, p2.TrainingHistory(), ColdStartEpochs)
}

func TestLearnFromCorrection(t *testing.T) {
	if testing.Short() {
		t.Skip("cold-start training is slow")
	}
	ctx := context.Background()
	p := NewPredictor(newMemStore(), WithSeed(42))
	require.NoError(t, p.Initialize(ctx))

	signals := make([]float64, model.SignalDim)
	before := p.Predict(ctx, 10_000_000, signals, 6, false)

	// The user pushes savings well above the model's suggestion.
	err := p.LearnFromCorrection(ctx, model.TrainingData{
		Income:           10_000_000,
		LifestyleSignals: signals,
		TargetRatios:     [3]float64{0.30, 0.10, 0.60},
		Month:            6,
	})
	require.NoError(t, err)

	after := p.Predict(ctx, 10_000_000, signals, 6, false)
	assertSimplex(t, after)

	// A gentle nudge toward the correction, not a wholesale rewrite.
	assert.GreaterOrEqual(t, after.SavingsRatio, before.SavingsRatio-0.05)
	assert.Less(t, math.Abs(after.NeedsRatio-before.NeedsRatio), 0.25)
}

func TestLearnFromCorrection_RejectsBadInput(t *testing.T) {
	p := NewPredictor(newMemStore())
	ctx := context.Background()

	err := p.LearnFromCorrection(ctx, model.TrainingData{
		Income:           10_000_000,
		LifestyleSignals: []float64{1},
		TargetRatios:     [3]float64{0.5, 0.3, 0.2},
	})
	assert.Error(t, err)
}

func TestReset(t *testing.T) {
	if testing.Short() {
		t.Skip("cold-start training is slow")
	}
	ctx := context.Background()
	store := newMemStore()
	p := NewPredictor(store, WithSeed(42))
	require.NoError(t, p.Initialize(ctx))

	p.Reset(ctx)

	assert.False(t, p.Initialized())
	_, err := store.Get(ctx, keyWeights)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Predictions still served via the fallback.
	pred := p.Predict(ctx, 10_000_000, make([]float64, model.SignalDim), 6, false)
	assert.Equal(t, FallbackVersion, pred.ModelVersion)
}
