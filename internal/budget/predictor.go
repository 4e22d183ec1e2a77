// Package budget implements the budget ratio predictor: a feed-forward
// network mapping normalized income, lifestyle signals, and seasonality
// to a needs/wants/savings allocation.
package budget

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/service"
	"github.com/vimoney/vimoney/internal/tensor"
)

// ModelVersion tags predictions produced by the trained network.
const ModelVersion = "budget-v1"

// FallbackVersion tags predictions served by the rule-based path before
// cold-start training has completed.
const FallbackVersion = "budget-rules-v1"

const (
	// inputDim is 1 income + 16 lifestyle signals + month + holiday flag.
	inputDim = 1 + model.SignalDim + 1 + 1

	// Income normalization maps 1,000,000 VND to 0.0 and 100,000,000 VND
	// to 1.0 on a log10 scale.
	incomeFloor = 1_000_000
	incomeCeil  = 100_000_000
)

// Persistence key for the predictor's weights.
const keyWeights = "budget:weights"

// Predictor produces three-way budget allocations. Construct with
// NewPredictor and call Initialize before serving final predictions;
// before that, Predict degrades to the rule-based fallback.
type Predictor struct {
	store  service.ModelStore
	logger *slog.Logger

	mu          sync.Mutex
	net         *tensor.Sequential
	history     []model.EpochStats
	initialized bool

	seed int64
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithLogger sets the predictor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Predictor) { p.logger = logger }
}

// WithSeed fixes the initialization and dataset seed.
func WithSeed(seed int64) Option {
	return func(p *Predictor) { p.seed = seed }
}

// NewPredictor creates a budget predictor backed by the given store.
func NewPredictor(store service.ModelStore, opts ...Option) *Predictor {
	p := &Predictor{
		store:  store,
		logger: slog.Default(),
		seed:   42,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NormalizeIncome maps monthly income in VND onto [0, 1] with a log10
// scale; values outside the supported band clamp to the edges.
func NormalizeIncome(income float64) float64 {
	if income < incomeFloor {
		income = incomeFloor
	}
	if income > incomeCeil {
		income = incomeCeil
	}
	return (math.Log10(income) - math.Log10(incomeFloor)) / (math.Log10(incomeCeil) - math.Log10(incomeFloor))
}

// featureVector builds the 19-dim network input.
func featureVector(income float64, signals []float64, month int, holiday bool) []float64 {
	v := make([]float64, 0, inputDim)
	v = append(v, NormalizeIncome(income))
	v = append(v, signals...)
	v = append(v, float64(month)/12)
	if holiday {
		v = append(v, 1)
	} else {
		v = append(v, 0)
	}
	return v
}

// Predict returns the allocation for the given income and lifestyle
// signals. It never panics: malformed signals or an uninitialized model
// fall back to the rule-based allocation with a reduced confidence.
func (p *Predictor) Predict(ctx context.Context, income float64, signals []float64, month int, holiday bool) model.BudgetPrediction {
	start := time.Now()

	if month < 1 || month > 12 {
		month = int(time.Now().Month())
	}
	if len(signals) != model.SignalDim {
		p.logger.Warn("invalid lifestyle signals, using fallback", "len", len(signals))
		return p.fallback(income, signals, month, holiday, start)
	}

	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		p.logger.Debug("predictor not initialized, serving rule-based fallback")
		return p.fallback(income, signals, month, holiday, start)
	}
	out := p.net.Forward(featureVector(income, signals, month, holiday), false)
	p.mu.Unlock()

	return model.BudgetPrediction{
		NeedsRatio:   out[0],
		WantsRatio:   out[1],
		SavingsRatio: out[2],
		Confidence:   entropyConfidence(out),
		ModelVersion: ModelVersion,
		PredictedAt:  start,
		Elapsed:      time.Since(start),
	}
}

// TrainingHistory returns per-epoch stats from the last training run.
func (p *Predictor) TrainingHistory() []model.EpochStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.EpochStats, len(p.history))
	copy(out, p.history)
	return out
}

// Initialized reports whether the network is ready to serve final
// predictions.
func (p *Predictor) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// Reset clears the persisted weights and returns the predictor to its
// uninitialized state.
func (p *Predictor) Reset(ctx context.Context) {
	p.mu.Lock()
	p.net = nil
	p.history = nil
	p.initialized = false
	p.mu.Unlock()

	if err := p.store.Delete(ctx, keyWeights); err != nil {
		p.logger.Warn("failed to delete budget weights", "error", err)
	}
}

// entropyConfidence maps the output distribution's entropy onto [0, 1]:
// a peaked distribution scores near 1, a uniform one near 0.
func entropyConfidence(p []float64) float64 {
	c := 1 - tensor.Entropy(p)/math.Log(float64(len(p)))
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
