// Package lifestyle implements the lifestyle signal extractor: a small
// embedding network that maps a free-text lifestyle description to 16
// structured signals (binary flags plus one-hot habit groups).
package lifestyle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/service"
	"github.com/vimoney/vimoney/internal/tensor"
	"github.com/vimoney/vimoney/internal/text"
)

// Persistence keys for the extractor's blobs.
const (
	keyVocabulary = "lifestyle:vocabulary"
	keyWeights    = "lifestyle:weights"
)

const (
	// seqLen is the fixed token window; longer descriptions truncate.
	seqLen = 18
	// maxVocabTerms bounds the extractor's vocabulary.
	maxVocabTerms = 1500
	embedDim      = 32
	hiddenDim     = 64
	dropoutRate   = 0.2
	// defaultTrainDelay postpones cold-start training so the first
	// interactive call never blocks on it.
	defaultTrainDelay = 3 * time.Second
)

// rentByLocation is the fixed monthly rent estimate per location group,
// in VND. The network never predicts amounts, only the signals.
var rentByLocation = map[model.Location]float64{
	model.LocationHanoi: 3_500_000,
	model.LocationHCM:   4_000_000,
	model.LocationOther: 2_000_000,
}

// RentEstimate derives the monthly rent figure from the predicted
// signals. Zero when the user has no rent.
func RentEstimate(hasRent bool, loc model.Location) float64 {
	if !hasRent {
		return 0
	}
	return rentByLocation[loc]
}

// Extractor infers lifestyle signals from free text. Construct with
// NewExtractor. Until cold-start training completes, Infer returns the
// safe all-low fallback; it never returns an error.
type Extractor struct {
	store  service.ModelStore
	logger *slog.Logger

	mu        sync.Mutex
	vocab     map[string]int
	embed     *tensor.EmbeddingPool
	net       *tensor.Sequential
	ready     bool
	loaded    bool
	scheduled bool

	trainDelay time.Duration
	seed       int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the extractor's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

// WithTrainDelay overrides the background training delay.
func WithTrainDelay(d time.Duration) Option {
	return func(e *Extractor) { e.trainDelay = d }
}

// WithSeed fixes the initialization and dataset seed.
func WithSeed(seed int64) Option {
	return func(e *Extractor) { e.seed = seed }
}

// NewExtractor creates a lifestyle extractor backed by the given store.
func NewExtractor(store service.ModelStore, opts ...Option) *Extractor {
	e := &Extractor{
		store:      store,
		logger:     slog.Default(),
		trainDelay: defaultTrainDelay,
		seed:       42,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Infer maps a lifestyle description to structured signals. Before the
// model is ready it schedules background training and returns the
// fallback; an empty description also returns the fallback. It never
// returns an error.
func (e *Extractor) Infer(ctx context.Context, description string) model.LifestyleSignals {
	fallback := model.DefaultSignals()

	tokens := text.Tokenize(description)
	if len(tokens) == 0 {
		return fallback
	}

	e.mu.Lock()
	if !e.ready && !e.loaded {
		e.loaded = true
		if err := e.loadLocked(ctx); err != nil {
			e.logger.Debug("no persisted lifestyle model", "reason", err)
		}
	}
	if !e.ready {
		e.mu.Unlock()
		e.scheduleTraining()
		return fallback
	}

	seq := text.ToSequence(e.vocab, tokens, seqLen)
	pooled := e.embed.Forward(seq)
	raw := e.net.Forward(pooled, false)
	e.mu.Unlock()

	signals := model.DecodeSignals(raw)
	signals.RentEstimate = RentEstimate(signals.HasRent, signals.Location)
	return signals
}

// Ready reports whether the network has trained or loaded weights.
func (e *Extractor) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// Reset drops the in-memory model and deletes the persisted blobs.
func (e *Extractor) Reset(ctx context.Context) {
	e.mu.Lock()
	e.vocab = nil
	e.embed = nil
	e.net = nil
	e.ready = false
	e.loaded = true
	e.scheduled = false
	e.mu.Unlock()

	if err := e.store.Delete(ctx, keyVocabulary); err != nil {
		e.logger.Warn("failed to delete lifestyle vocabulary", "error", err)
	}
	if err := e.store.Delete(ctx, keyWeights); err != nil {
		e.logger.Warn("failed to delete lifestyle weights", "error", err)
	}
}

// scheduleTraining arranges one background cold-start training run,
// delayed so it does not compete with the interactive call that
// triggered it. Reset re-arms the schedule, so a cleared model can
// cold-start again within the same process.
func (e *Extractor) scheduleTraining() {
	e.mu.Lock()
	if e.scheduled {
		e.mu.Unlock()
		return
	}
	e.scheduled = true
	e.mu.Unlock()

	time.AfterFunc(e.trainDelay, func() {
		if err := e.Train(context.Background()); err != nil {
			e.logger.Error("lifestyle cold-start training failed", "error", err)
		}
	})
}
