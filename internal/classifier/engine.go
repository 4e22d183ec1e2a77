// Package classifier implements the on-device category classifier: a
// nearest-centroid model over bag-of-words vectors, retrained from the
// full corpus whenever the user adds or corrects a transaction.
package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/service"
	"github.com/vimoney/vimoney/internal/text"
)

const (
	// minConfidence is the rejection floor: predictions scoring below it
	// come back as nil so the caller falls back to "uncategorized".
	minConfidence = 0.05
	// boostThreshold gates the sample-count bonus. Below it no boost is
	// applied, preventing high-volume categories from winning on volume.
	boostThreshold = 0.5
	// maxBoost caps the sample-count bonus.
	maxBoost = 0.1
	// maxAlternatives bounds the ranked prediction list.
	maxAlternatives = 3
	// selfCheckLimit bounds the advisory accuracy re-prediction pass.
	selfCheckLimit = 50
)

// Engine is the classification engine. Construct with NewEngine; the
// zero value is not usable.
type Engine struct {
	corpus    service.CorpusProvider
	store     service.ModelStore
	logger    *slog.Logger
	persister *persister

	mu       sync.RWMutex
	vocab    *text.Vocabulary
	profiles []model.CategoryProfile
	ready    bool
	loaded   bool

	training atomic.Bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDebounce sets the persistence debounce window. Zero makes writes
// synchronous, which tests rely on.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		e.persister.debounce = d
	}
}

// NewEngine creates a classification engine with injected dependencies.
func NewEngine(corpus service.CorpusProvider, store service.ModelStore, opts ...Option) *Engine {
	e := &Engine{
		corpus: corpus,
		store:  store,
		logger: slog.Default(),
	}
	e.persister = newPersister(store, e.logger)
	for _, opt := range opts {
		opt(e)
	}
	e.persister.logger = e.logger
	return e
}

// TrainModel rebuilds the vocabulary and category centroids from the full
// corpus. A concurrent call returns immediately with Success false; a
// ready model short-circuits unless force is set, and a valid persisted
// generation is restored instead of retraining. Failures are reported
// in the result's Message, never as a panic, and the in-progress flag is
// always cleared on return.
func (e *Engine) TrainModel(ctx context.Context, force bool) model.TrainingResult {
	if !e.training.CompareAndSwap(false, true) {
		return model.TrainingResult{Success: false, Message: "training already in progress"}
	}
	defer e.training.Store(false)

	if !force {
		e.mu.RLock()
		ready := e.ready
		e.mu.RUnlock()
		if ready || e.tryRestore(ctx) {
			return model.TrainingResult{Success: true}
		}
	}

	start := time.Now()

	samples, err := e.corpus.TrainingSamples(ctx)
	if err != nil {
		e.logger.Error("failed to fetch training samples", "error", err)
		return model.TrainingResult{Success: false, Message: "failed to fetch training samples: " + err.Error()}
	}

	categories, err := e.corpus.Categories(ctx)
	if err != nil {
		e.logger.Error("failed to fetch categories", "error", err)
		return model.TrainingResult{Success: false, Message: "failed to fetch categories: " + err.Error()}
	}

	samples = dedupe(samples)
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	// Samples pointing at deleted categories cannot produce a profile.
	usable := samples[:0]
	for _, s := range samples {
		if _, ok := byID[s.CategoryID]; ok {
			usable = append(usable, s)
		}
	}
	samples = usable

	if len(samples) == 0 {
		return model.TrainingResult{Success: false, Message: "no training data available"}
	}

	corpus := make([]string, len(samples))
	for i, s := range samples {
		corpus[i] = s.Text
	}
	vocab := text.BuildVocabulary(corpus, text.DefaultVocabularyConfig())

	profiles := buildProfiles(vocab, samples, byID)

	accuracy := selfCheck(vocab, profiles, samples)

	e.mu.Lock()
	e.vocab = vocab
	e.profiles = profiles
	e.ready = true
	e.loaded = true
	e.mu.Unlock()

	e.persister.schedule(vocab, profiles)

	e.logger.Info("classifier trained",
		"samples", len(samples),
		"vocabulary", vocab.Size(),
		"categories", len(profiles),
		"accuracy", accuracy,
		"elapsed", time.Since(start))

	return model.TrainingResult{
		Success:  true,
		Accuracy: accuracy,
		Samples:  len(samples),
	}
}

// PredictCategory suggests a category for a transaction note, or nil when
// nothing clears the confidence floor or the model cannot be trained.
func (e *Engine) PredictCategory(ctx context.Context, input string) *model.PredictionResult {
	if err := e.ensureReady(ctx); err != nil {
		e.logger.Debug("prediction unavailable", "error", err)
		return nil
	}

	scored := e.score(input)
	if len(scored) == 0 || scored[0].score < minConfidence {
		return nil
	}

	best := scored[0]
	return &model.PredictionResult{
		CategoryID:   best.profile.CategoryID,
		CategoryName: best.profile.CategoryName,
		CategoryIcon: best.profile.CategoryIcon,
		Confidence:   math.Min(1, best.score),
	}
}

// PredictCategoryWithAlternatives returns the top suggestions above the
// confidence floor, at most three, with integer-percent confidence. When
// none qualify the primary is degenerate: empty id, zero confidence.
func (e *Engine) PredictCategoryWithAlternatives(ctx context.Context, input string) model.RankedPrediction {
	if err := e.ensureReady(ctx); err != nil {
		e.logger.Debug("prediction unavailable", "error", err)
		return model.RankedPrediction{Alternatives: []model.RankedCategory{}}
	}

	scored := e.score(input)
	ranked := make([]model.RankedCategory, 0, maxAlternatives)
	for _, s := range scored {
		if s.score < minConfidence {
			break
		}
		ranked = append(ranked, model.RankedCategory{
			CategoryID:   s.profile.CategoryID,
			CategoryName: s.profile.CategoryName,
			CategoryIcon: s.profile.CategoryIcon,
			Confidence:   int(math.Round(math.Min(1, s.score) * 100)),
		})
		if len(ranked) == maxAlternatives {
			break
		}
	}

	if len(ranked) == 0 {
		return model.RankedPrediction{Alternatives: []model.RankedCategory{}}
	}
	return model.RankedPrediction{
		Primary:      ranked[0],
		Alternatives: ranked[1:],
	}
}

// LearnFromNewTransaction retrains from the full corpus after a
// transaction is created or edited. The sample itself reaches the corpus
// through the transaction store; this hook only triggers the retrain.
func (e *Engine) LearnFromNewTransaction(ctx context.Context, note, categoryID string) {
	e.logger.Debug("learning from transaction", "category_id", categoryID)
	if result := e.TrainModel(ctx, true); !result.Success {
		e.logger.Warn("retrain after transaction failed", "message", result.Message)
	}
}

// LearnFromCorrection retrains after the user overrides a suggestion.
// Corrections live in their own corpus table and carry triple weight; the
// retrain path is otherwise identical to a new transaction.
func (e *Engine) LearnFromCorrection(ctx context.Context, input, categoryID string) {
	e.logger.Debug("learning from correction", "category_id", categoryID)
	if result := e.TrainModel(ctx, true); !result.Success {
		e.logger.Warn("retrain after correction failed", "message", result.Message)
	}
}

// ClearModel drops the in-memory model and deletes the persisted blobs.
// Storage errors are logged and swallowed; the engine degrades to "not
// ready" and the next prediction retrains.
func (e *Engine) ClearModel(ctx context.Context) {
	e.mu.Lock()
	e.vocab = nil
	e.profiles = nil
	e.ready = false
	e.loaded = true
	e.mu.Unlock()

	if err := e.store.Delete(ctx, keyVocabulary); err != nil {
		e.logger.Warn("failed to delete vocabulary blob", "error", err)
	}
	if err := e.store.Delete(ctx, keyProfiles); err != nil {
		e.logger.Warn("failed to delete profiles blob", "error", err)
	}
}

// Flush writes any model generation still waiting inside the debounce
// window. Short-lived callers must flush before exit or a fresh retrain
// never reaches the store.
func (e *Engine) Flush() {
	e.persister.flush()
}

// Status reports the engine's current state.
func (e *Engine) Status() model.ModelStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := model.ModelStatus{
		IsReady:       e.ready,
		IsTraining:    e.training.Load(),
		NumCategories: len(e.profiles),
	}
	if e.vocab != nil {
		status.VocabularySize = e.vocab.Size()
	}
	return status
}

// ensureReady lazily restores the persisted model, falling back to a
// synchronous retrain when no valid generation exists.
func (e *Engine) ensureReady(ctx context.Context) error {
	e.mu.RLock()
	ready := e.ready
	e.mu.RUnlock()
	if ready || e.tryRestore(ctx) {
		return nil
	}

	if result := e.TrainModel(ctx, true); !result.Success {
		return fmt.Errorf("training failed: %s", result.Message)
	}
	return nil
}

// tryRestore attempts, at most once per process, to restore the
// persisted generation. It reports whether the engine is ready
// afterwards.
func (e *Engine) tryRestore(ctx context.Context) bool {
	e.mu.RLock()
	loaded := e.loaded
	e.mu.RUnlock()
	if loaded {
		return false
	}

	vocab, profiles, err := e.persister.load(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		return e.ready
	}
	e.loaded = true
	if err != nil {
		e.logger.Debug("no persisted classifier", "reason", err)
		return false
	}
	e.vocab = vocab
	e.profiles = profiles
	e.ready = true
	e.logger.Debug("classifier restored from store",
		"vocabulary", vocab.Size(),
		"categories", len(profiles))
	return true
}

type scoredProfile struct {
	profile model.CategoryProfile
	score   float64
}

// score ranks every category profile against the input by cosine
// similarity, with the capped log-sample-count bonus above the boost
// threshold.
func (e *Engine) score(input string) []scoredProfile {
	e.mu.RLock()
	vocab := e.vocab
	profiles := e.profiles
	e.mu.RUnlock()

	if vocab == nil {
		return nil
	}

	vec := vocab.Vectorize(input)
	scored := make([]scoredProfile, 0, len(profiles))
	for _, p := range profiles {
		sim := text.CosineSimilarity(vec, p.Centroid)
		if sim > boostThreshold {
			sim += math.Min(maxBoost, math.Log(float64(p.SampleCount)+1)*0.01)
			if sim > 1 {
				sim = 1
			}
		}
		scored = append(scored, scoredProfile{profile: p, score: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

// dedupe collapses samples sharing (text, category), corrections taking
// precedence over transaction-derived duplicates. Order is preserved.
func dedupe(samples []model.TrainingSample) []model.TrainingSample {
	seen := make(map[string]int, len(samples))
	out := make([]model.TrainingSample, 0, len(samples))
	for _, s := range samples {
		key := s.Key()
		if idx, ok := seen[key]; ok {
			if s.Source == model.SourceCorrection && out[idx].Source != model.SourceCorrection {
				out[idx] = s
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, s)
	}
	return out
}

// buildProfiles computes one weighted-centroid profile per category with
// at least one sample. The weighted sum is divided by total weight, then
// re-normalized to unit length.
func buildProfiles(vocab *text.Vocabulary, samples []model.TrainingSample, categories map[string]model.Category) []model.CategoryProfile {
	type accumulator struct {
		sum    []float64
		weight float64
		count  int
	}
	acc := make(map[string]*accumulator)
	var order []string

	for _, s := range samples {
		a, ok := acc[s.CategoryID]
		if !ok {
			a = &accumulator{sum: make([]float64, vocab.Dim)}
			acc[s.CategoryID] = a
			order = append(order, s.CategoryID)
		}
		w := s.Source.Weight()
		vec := vocab.Vectorize(s.Text)
		for i, x := range vec {
			a.sum[i] += w * x
		}
		a.weight += w
		a.count++
	}

	profiles := make([]model.CategoryProfile, 0, len(order))
	for _, id := range order {
		a := acc[id]
		centroid := make([]float64, len(a.sum))
		for i, x := range a.sum {
			centroid[i] = x / a.weight
		}
		text.Normalize(centroid)
		profiles = append(profiles, model.CategoryProfile{
			CategoryID:   id,
			CategoryName: categories[id].Name,
			CategoryIcon: categories[id].Icon,
			Centroid:     centroid,
			SampleCount:  a.count,
		})
	}
	return profiles
}

// selfCheck re-predicts a bounded sample of the training set against the
// fresh model. The number is advisory only and never gates success.
func selfCheck(vocab *text.Vocabulary, profiles []model.CategoryProfile, samples []model.TrainingSample) float64 {
	limit := len(samples)
	if limit > selfCheckLimit {
		limit = selfCheckLimit
	}
	if limit == 0 {
		return 0
	}

	correct := 0
	for _, s := range samples[:limit] {
		vec := vocab.Vectorize(s.Text)
		bestID := ""
		bestScore := -1.0
		for _, p := range profiles {
			if sim := text.CosineSimilarity(vec, p.Centroid); sim > bestScore {
				bestScore = sim
				bestID = p.CategoryID
			}
		}
		if bestID == s.CategoryID && bestScore >= minConfidence {
			correct++
		}
	}
	return float64(correct) / float64(limit)
}
