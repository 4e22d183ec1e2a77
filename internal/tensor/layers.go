package tensor

import (
	"math"
	"math/rand"
)

// Init selects the weight initialization scheme for a dense layer.
type Init int

// Supported initialization schemes.
const (
	// InitXavier suits sigmoid and linear outputs.
	InitXavier Init = iota
	// InitHe suits relu activations.
	InitHe
)

// Act selects the activation applied after a dense layer's affine map.
type Act int

// Supported dense-layer activations.
const (
	ActLinear Act = iota
	ActReLU
)

// Dense is a fully connected layer, weights stored row-major [out][in].
type Dense struct {
	w      *Param
	b      *Param
	in     []float64
	preact []float64
	act    Act
	inDim  int
	outDim int
}

// NewDense creates a dense layer with the given activation and init scheme.
func NewDense(inDim, outDim int, act Act, init Init, rng *rand.Rand) *Dense {
	d := &Dense{
		w:      newParam(outDim, inDim),
		b:      newParam(outDim),
		act:    act,
		inDim:  inDim,
		outDim: outDim,
	}

	var scale float64
	switch init {
	case InitHe:
		scale = math.Sqrt(2.0 / float64(inDim))
	default:
		scale = math.Sqrt(1.0 / float64(inDim))
	}
	for i := range d.w.Data {
		d.w.Data[i] = rng.NormFloat64() * scale
	}
	return d
}

// Forward computes act(Wx + b).
func (d *Dense) Forward(in []float64, _ bool) []float64 {
	d.in = in
	d.preact = make([]float64, d.outDim)
	out := make([]float64, d.outDim)
	for j := 0; j < d.outDim; j++ {
		sum := d.b.Data[j]
		row := d.w.Data[j*d.inDim : (j+1)*d.inDim]
		for i, x := range in {
			sum += row[i] * x
		}
		d.preact[j] = sum
		if d.act == ActReLU && sum < 0 {
			out[j] = 0
		} else {
			out[j] = sum
		}
	}
	return out
}

// Backward accumulates weight gradients and returns the input gradient.
func (d *Dense) Backward(grad []float64) []float64 {
	gradIn := make([]float64, d.inDim)
	for j := 0; j < d.outDim; j++ {
		g := grad[j]
		if d.act == ActReLU && d.preact[j] <= 0 {
			continue
		}
		d.b.Grad[j] += g
		row := d.w.Data[j*d.inDim : (j+1)*d.inDim]
		gradRow := d.w.Grad[j*d.inDim : (j+1)*d.inDim]
		for i, x := range d.in {
			gradRow[i] += g * x
			gradIn[i] += g * row[i]
		}
	}
	return gradIn
}

// Params returns weights then biases.
func (d *Dense) Params() []*Param {
	return []*Param{d.w, d.b}
}

// BatchNorm normalizes activations using exponentially averaged running
// statistics, then applies a learned scale and shift. Running statistics
// are updated on training forwards only. They are exposed as gradient-free
// parameters so weight export carries them across restarts.
type BatchNorm struct {
	gamma       *Param
	beta        *Param
	runningMean *Param
	runningVar  *Param
	normalized  []float64
	momentum    float64
	eps         float64
	dim         int
}

// NewBatchNorm creates a batch-norm layer over dim activations.
func NewBatchNorm(dim int) *BatchNorm {
	bn := &BatchNorm{
		gamma:       newParam(dim),
		beta:        newParam(dim),
		runningMean: newParam(dim),
		runningVar:  newParam(dim),
		momentum:    0.99,
		eps:         1e-5,
		dim:         dim,
	}
	for i := 0; i < dim; i++ {
		bn.gamma.Data[i] = 1
		bn.runningVar.Data[i] = 1
	}
	return bn
}

// Forward normalizes by running statistics and applies gamma/beta.
func (bn *BatchNorm) Forward(in []float64, training bool) []float64 {
	mean := bn.runningMean.Data
	variance := bn.runningVar.Data

	if training {
		for i, x := range in {
			diff := x - mean[i]
			mean[i] = bn.momentum*mean[i] + (1-bn.momentum)*x
			variance[i] = bn.momentum*variance[i] + (1-bn.momentum)*diff*diff
		}
	}

	bn.normalized = make([]float64, bn.dim)
	out := make([]float64, bn.dim)
	for i, x := range in {
		n := (x - mean[i]) / math.Sqrt(variance[i]+bn.eps)
		bn.normalized[i] = n
		out[i] = bn.gamma.Data[i]*n + bn.beta.Data[i]
	}
	return out
}

// Backward propagates through the scale and normalization. Gradients into
// the running statistics are ignored; they are treated as constants.
func (bn *BatchNorm) Backward(grad []float64) []float64 {
	gradIn := make([]float64, bn.dim)
	for i, g := range grad {
		bn.gamma.Grad[i] += g * bn.normalized[i]
		bn.beta.Grad[i] += g
		gradIn[i] = g * bn.gamma.Data[i] / math.Sqrt(bn.runningVar.Data[i]+bn.eps)
	}
	return gradIn
}

// Params returns gamma, beta, then the gradient-free running statistics.
func (bn *BatchNorm) Params() []*Param {
	return []*Param{bn.gamma, bn.beta, bn.runningMean, bn.runningVar}
}

// Dropout zeroes a fraction of activations during training, scaling the
// survivors so inference needs no adjustment (inverted dropout).
type Dropout struct {
	rng  *rand.Rand
	mask []float64
	rate float64
}

// NewDropout creates a dropout layer with the given drop rate.
func NewDropout(rate float64, rng *rand.Rand) *Dropout {
	return &Dropout{rate: rate, rng: rng}
}

// Forward applies the mask in training mode, identity otherwise.
func (d *Dropout) Forward(in []float64, training bool) []float64 {
	if !training || d.rate <= 0 {
		d.mask = nil
		return in
	}
	d.mask = make([]float64, len(in))
	out := make([]float64, len(in))
	keep := 1 - d.rate
	for i, x := range in {
		if d.rng.Float64() < keep {
			d.mask[i] = 1 / keep
			out[i] = x / keep
		}
	}
	return out
}

// Backward applies the same mask to the gradient.
func (d *Dropout) Backward(grad []float64) []float64 {
	if d.mask == nil {
		return grad
	}
	out := make([]float64, len(grad))
	for i, g := range grad {
		out[i] = g * d.mask[i]
	}
	return out
}

// Params returns nil; dropout has no trainable state.
func (d *Dropout) Params() []*Param {
	return nil
}
