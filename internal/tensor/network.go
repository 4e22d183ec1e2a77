package tensor

import (
	"fmt"
	"math"
	"math/rand"
)

// Output selects the network's output activation. The training loop
// assumes the matching loss (softmax with cross-entropy, sigmoid with
// binary cross-entropy, linear with mean squared error), which makes the
// output-layer gradient prediction minus target in every case.
type Output int

// Supported output activations.
const (
	OutputLinear Output = iota
	OutputSigmoid
	OutputSoftmax
)

// Sequential chains layers into a feed-forward network.
type Sequential struct {
	layers []Layer
	out    Output
}

// NewSequential builds a network from layers and an output activation.
func NewSequential(out Output, layers ...Layer) *Sequential {
	return &Sequential{layers: layers, out: out}
}

// Forward runs the network. Training mode enables dropout and
// batch-statistic updates.
func (n *Sequential) Forward(in []float64, training bool) []float64 {
	h := in
	for _, l := range n.layers {
		h = l.Forward(h, training)
	}
	return n.activate(h)
}

func (n *Sequential) activate(h []float64) []float64 {
	switch n.out {
	case OutputSigmoid:
		out := make([]float64, len(h))
		for i, x := range h {
			out[i] = 1 / (1 + math.Exp(-x))
		}
		return out
	case OutputSoftmax:
		return Softmax(h)
	default:
		return h
	}
}

// Backward propagates the output-layer delta (prediction minus target)
// through all layers, accumulating parameter gradients. It returns the
// gradient with respect to the network input so a front-end layer (the
// lifestyle embedding) can continue the chain.
func (n *Sequential) Backward(delta []float64) []float64 {
	g := delta
	for i := len(n.layers) - 1; i >= 0; i-- {
		g = n.layers[i].Backward(g)
	}
	return g
}

// Params returns all trainable parameters in layer order.
func (n *Sequential) Params() []*Param {
	var params []*Param
	for _, l := range n.layers {
		params = append(params, l.Params()...)
	}
	return params
}

// ExportWeights serializes all parameters in layer-creation order. The
// same order must be used on reload.
func (n *Sequential) ExportWeights() []Tensor {
	params := n.Params()
	out := make([]Tensor, len(params))
	for i, p := range params {
		out[i] = p.Export()
	}
	return out
}

// ImportWeights restores parameters exported by ExportWeights.
func (n *Sequential) ImportWeights(weights []Tensor) error {
	params := n.Params()
	if len(weights) != len(params) {
		return fmt.Errorf("weight count mismatch: have %d, want %d", len(weights), len(params))
	}
	for i, p := range params {
		if err := p.Load(weights[i]); err != nil {
			return fmt.Errorf("tensor %d: %w", i, err)
		}
	}
	return nil
}

// EpochStats records loss and accuracy for one training epoch.
type EpochStats struct {
	Epoch    int
	Loss     float64
	Accuracy float64
}

// Dataset is a set of float-vector training examples.
type Dataset struct {
	Inputs  [][]float64
	Targets [][]float64
}

// FitConfig controls a training run.
type FitConfig struct {
	OnEpoch         func(EpochStats)
	Epochs          int
	LearningRate    float64
	Momentum        float64
	ValidationSplit float64
	Seed            int64
}

// Fit trains the network with per-example SGD and returns per-epoch
// statistics. Loss is reported on the validation slice when
// ValidationSplit is positive, otherwise on the training data. Accuracy
// is arg-max agreement, meaningful for softmax outputs.
func (n *Sequential) Fit(ds Dataset, cfg FitConfig) ([]EpochStats, error) {
	if len(ds.Inputs) == 0 {
		return nil, fmt.Errorf("empty dataset")
	}
	if len(ds.Inputs) != len(ds.Targets) {
		return nil, fmt.Errorf("inputs and targets disagree: %d vs %d", len(ds.Inputs), len(ds.Targets))
	}
	if cfg.Epochs <= 0 {
		cfg.Epochs = 1
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.01
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	perm := rng.Perm(len(ds.Inputs))

	valCount := int(cfg.ValidationSplit * float64(len(ds.Inputs)))
	trainIdx := perm[valCount:]
	valIdx := perm[:valCount]
	if len(trainIdx) == 0 {
		trainIdx = perm
		valIdx = nil
	}

	opt := NewSGD(cfg.LearningRate, cfg.Momentum)
	history := make([]EpochStats, 0, cfg.Epochs)

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		for _, idx := range trainIdx {
			pred := n.Forward(ds.Inputs[idx], true)
			delta := make([]float64, len(pred))
			for i := range pred {
				delta[i] = pred[i] - ds.Targets[idx][i]
			}
			n.Backward(delta)
			opt.Step(n.Params())
		}

		evalIdx := valIdx
		if len(evalIdx) == 0 {
			evalIdx = trainIdx
		}
		stats := n.evaluate(ds, evalIdx)
		stats.Epoch = epoch
		history = append(history, stats)
		if cfg.OnEpoch != nil {
			cfg.OnEpoch(stats)
		}
	}

	return history, nil
}

func (n *Sequential) evaluate(ds Dataset, idx []int) EpochStats {
	var loss float64
	var correct int
	for _, i := range idx {
		pred := n.Forward(ds.Inputs[i], false)
		loss += n.loss(pred, ds.Targets[i])
		if ArgMax(pred) == ArgMax(ds.Targets[i]) {
			correct++
		}
	}
	count := float64(len(idx))
	return EpochStats{
		Loss:     loss / count,
		Accuracy: float64(correct) / count,
	}
}

func (n *Sequential) loss(pred, target []float64) float64 {
	switch n.out {
	case OutputSoftmax:
		return CrossEntropy(pred, target)
	case OutputSigmoid:
		return BinaryCrossEntropy(pred, target)
	default:
		return MeanSquaredError(pred, target)
	}
}
