// Package tensor implements the small numeric runtime backing the neural
// predictors: dense feed-forward layers, an embedding front-end, SGD with
// momentum, and weight export/import as flat float64 slices.
package tensor

import "fmt"

// Tensor is a serializable weight blob with row-major data.
type Tensor struct {
	DType string    `json:"dtype"`
	Shape []int     `json:"shape"`
	Data  []float64 `json:"data"`
}

// NumElements returns the product of the tensor's shape dimensions.
func (t Tensor) NumElements() int {
	n := 1
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// Param is a trainable parameter with its accumulated gradient.
type Param struct {
	Data  []float64
	Grad  []float64
	Shape []int
}

func newParam(shape ...int) *Param {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return &Param{
		Data:  make([]float64, n),
		Grad:  make([]float64, n),
		Shape: shape,
	}
}

// Export copies the parameter into a serializable tensor.
func (p *Param) Export() Tensor {
	data := make([]float64, len(p.Data))
	copy(data, p.Data)
	return Tensor{
		DType: "float64",
		Shape: append([]int(nil), p.Shape...),
		Data:  data,
	}
}

// Load copies tensor data into the parameter, validating the shape.
func (p *Param) Load(t Tensor) error {
	if t.NumElements() != len(p.Data) {
		return fmt.Errorf("shape mismatch: have %v elements, want %d", t.Shape, len(p.Data))
	}
	copy(p.Data, t.Data)
	return nil
}

// Layer is one stage of a feed-forward network.
type Layer interface {
	// Forward runs the layer. Training mode enables dropout masks and
	// running-statistic updates.
	Forward(in []float64, training bool) []float64
	// Backward consumes the gradient of the loss with respect to this
	// layer's output, accumulates parameter gradients, and returns the
	// gradient with respect to its input.
	Backward(grad []float64) []float64
	// Params returns the layer's trainable parameters, in a fixed order.
	Params() []*Param
}
