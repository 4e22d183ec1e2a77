package tensor

// SGD is stochastic gradient descent with momentum. Velocity buffers are
// keyed by parameter identity, so one optimizer can drive any number of
// steps over the same network.
type SGD struct {
	velocity map[*Param][]float64
	lr       float64
	momentum float64
}

// NewSGD creates an optimizer with the given learning rate and momentum.
func NewSGD(lr, momentum float64) *SGD {
	return &SGD{
		velocity: make(map[*Param][]float64),
		lr:       lr,
		momentum: momentum,
	}
}

// SetLearningRate adjusts the step size, used when fine-tuning re-compiles
// the optimizer at a lower rate.
func (o *SGD) SetLearningRate(lr float64) {
	o.lr = lr
}

// Step applies accumulated gradients to the parameters and resets them.
func (o *SGD) Step(params []*Param) {
	for _, p := range params {
		v, ok := o.velocity[p]
		if !ok {
			v = make([]float64, len(p.Data))
			o.velocity[p] = v
		}
		for i := range p.Data {
			v[i] = o.momentum*v[i] - o.lr*p.Grad[i]
			p.Data[i] += v[i]
			p.Grad[i] = 0
		}
	}
}
