package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/synthetic"
	"github.com/vimoney/vimoney/internal/tensor"
)

// ColdStartEpochs is the length of a full synthetic training run,
// exported so callers can size progress reporting.
const (
	ColdStartEpochs = 40
	coldStartLR     = 0.01
	coldStartMom    = 0.9
	validationSplit = 0.1

	// Fine-tuning deliberately uses a tiny learning rate and a handful
	// of epochs so one user adjustment cannot erase the synthetic prior.
	fineTuneEpochs = 8
	fineTuneLR     = 0.0005
)

type weightsBlob struct {
	TrainedAt time.Time          `json:"trained_at"`
	Version   string             `json:"version"`
	Weights   []tensor.Tensor    `json:"weights"`
	History   []model.EpochStats `json:"history,omitempty"`
}

// buildNetwork assembles the predictor's network: two He-initialized
// relu blocks with batch-norm and dropout, then a 3-way softmax head.
func buildNetwork(seed int64) *tensor.Sequential {
	rng := rand.New(rand.NewSource(seed))
	return tensor.NewSequential(tensor.OutputSoftmax,
		tensor.NewDense(inputDim, 64, tensor.ActReLU, tensor.InitHe, rng),
		tensor.NewBatchNorm(64),
		tensor.NewDropout(0.3, rng),
		tensor.NewDense(64, 32, tensor.ActReLU, tensor.InitHe, rng),
		tensor.NewBatchNorm(32),
		tensor.NewDropout(0.2, rng),
		tensor.NewDense(32, 3, tensor.ActLinear, tensor.InitXavier, rng),
	)
}

// Initialize makes the predictor ready: it restores persisted weights
// when they exist and otherwise runs cold-start training on the
// synthetic dataset. Any load error falls through to a rebuild.
func (p *Predictor) Initialize(ctx context.Context) error {
	p.mu.Lock()
	if p.initialized {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	err := p.load(ctx)
	if err == nil {
		p.logger.Debug("budget predictor restored from store")
		return nil
	}
	p.logger.Debug("no persisted budget model, cold-start training", "reason", err)

	return p.Train(ctx, nil)
}

// Train runs cold-start training on the synthetic archetype dataset with
// a validation split, records per-epoch history, and persists the
// resulting weights. onEpoch, when non-nil, observes each epoch.
func (p *Predictor) Train(ctx context.Context, onEpoch func(model.EpochStats)) error {
	start := time.Now()

	data := synthetic.GenerateBudget(p.seed)
	ds := tensor.Dataset{
		Inputs:  make([][]float64, len(data)),
		Targets: make([][]float64, len(data)),
	}
	for i, d := range data {
		ds.Inputs[i] = featureVector(d.Income, d.LifestyleSignals, d.Month, d.IsHolidaySeason)
		ds.Targets[i] = []float64{d.TargetRatios[0], d.TargetRatios[1], d.TargetRatios[2]}
	}

	net := buildNetwork(p.seed)
	history, err := net.Fit(ds, tensor.FitConfig{
		Epochs:          ColdStartEpochs,
		LearningRate:    coldStartLR,
		Momentum:        coldStartMom,
		ValidationSplit: validationSplit,
		Seed:            p.seed,
		OnEpoch: func(s tensor.EpochStats) {
			if onEpoch != nil {
				onEpoch(model.EpochStats{Epoch: s.Epoch, Loss: s.Loss, Accuracy: s.Accuracy})
			}
		},
	})
	if err != nil {
		return fmt.Errorf("cold-start training failed: %w", err)
	}

	stats := make([]model.EpochStats, len(history))
	for i, s := range history {
		stats[i] = model.EpochStats{Epoch: s.Epoch, Loss: s.Loss, Accuracy: s.Accuracy}
	}

	p.mu.Lock()
	p.net = net
	p.history = stats
	p.initialized = true
	p.mu.Unlock()

	p.persist(ctx)

	p.logger.Info("budget predictor trained",
		"examples", len(data),
		"epochs", ColdStartEpochs,
		"final_loss", stats[len(stats)-1].Loss,
		"elapsed", time.Since(start))
	return nil
}

// LearnFromCorrection fine-tunes the network on one user-adjusted
// allocation: a few epochs at a much lower learning rate, then
// re-persist. The target ratios are renormalized before use.
func (p *Predictor) LearnFromCorrection(ctx context.Context, data model.TrainingData) error {
	if len(data.LifestyleSignals) != model.SignalDim {
		return fmt.Errorf("lifestyle signals must have %d entries, got %d", model.SignalDim, len(data.LifestyleSignals))
	}

	if err := p.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize before fine-tuning: %w", err)
	}

	sum := data.TargetRatios[0] + data.TargetRatios[1] + data.TargetRatios[2]
	if sum <= 0 {
		return fmt.Errorf("target ratios must be positive, got %v", data.TargetRatios)
	}
	target := []float64{
		data.TargetRatios[0] / sum,
		data.TargetRatios[1] / sum,
		data.TargetRatios[2] / sum,
	}
	input := featureVector(data.Income, data.LifestyleSignals, data.Month, data.IsHolidaySeason)

	p.mu.Lock()
	opt := tensor.NewSGD(fineTuneLR, 0)
	for epoch := 0; epoch < fineTuneEpochs; epoch++ {
		pred := p.net.Forward(input, true)
		delta := make([]float64, len(pred))
		for i := range pred {
			delta[i] = pred[i] - target[i]
		}
		p.net.Backward(delta)
		opt.Step(p.net.Params())
	}
	p.mu.Unlock()

	p.persist(ctx)
	p.logger.Debug("budget predictor fine-tuned", "income", data.Income)
	return nil
}

// persist writes the current weights; failures are logged and swallowed
// so a storage hiccup never breaks a prediction path.
func (p *Predictor) persist(ctx context.Context) {
	p.mu.Lock()
	blob := weightsBlob{
		TrainedAt: time.Now(),
		Version:   ModelVersion,
		Weights:   p.net.ExportWeights(),
		History:   p.history,
	}
	p.mu.Unlock()

	b, err := json.Marshal(blob)
	if err != nil {
		p.logger.Warn("failed to encode budget weights", "error", err)
		return
	}
	if err := p.store.Set(ctx, keyWeights, b); err != nil {
		p.logger.Warn("failed to store budget weights", "error", err)
	}
}

func (p *Predictor) load(ctx context.Context) error {
	b, err := p.store.Get(ctx, keyWeights)
	if err != nil {
		return fmt.Errorf("weights blob: %w", err)
	}

	var blob weightsBlob
	if err := json.Unmarshal(b, &blob); err != nil {
		return fmt.Errorf("failed to decode weights: %w", err)
	}
	if blob.Version != ModelVersion {
		return fmt.Errorf("version mismatch: have %q, want %q", blob.Version, ModelVersion)
	}

	net := buildNetwork(p.seed)
	if err := net.ImportWeights(blob.Weights); err != nil {
		return fmt.Errorf("failed to import weights: %w", err)
	}

	p.mu.Lock()
	p.net = net
	p.history = blob.History
	p.initialized = true
	p.mu.Unlock()
	return nil
}
