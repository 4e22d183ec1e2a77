package tensor

import "math"

const lossEps = 1e-12

// Softmax maps logits to a probability distribution, shifted by the max
// logit for numeric stability.
func Softmax(logits []float64) []float64 {
	out := make([]float64, len(logits))
	if len(logits) == 0 {
		return out
	}
	maxLogit := logits[0]
	for _, x := range logits[1:] {
		if x > maxLogit {
			maxLogit = x
		}
	}
	var sum float64
	for i, x := range logits {
		out[i] = math.Exp(x - maxLogit)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// CrossEntropy is the categorical cross-entropy between a predicted
// distribution and a (possibly soft) target distribution.
func CrossEntropy(pred, target []float64) float64 {
	var loss float64
	for i, t := range target {
		if t > 0 {
			loss -= t * math.Log(pred[i]+lossEps)
		}
	}
	return loss
}

// BinaryCrossEntropy is the elementwise BCE summed over all outputs.
func BinaryCrossEntropy(pred, target []float64) float64 {
	var loss float64
	for i, t := range target {
		p := pred[i]
		loss -= t*math.Log(p+lossEps) + (1-t)*math.Log(1-p+lossEps)
	}
	return loss
}

// MeanSquaredError is the mean of squared differences.
func MeanSquaredError(pred, target []float64) float64 {
	var sum float64
	for i, t := range target {
		d := pred[i] - t
		sum += d * d
	}
	return sum / float64(len(target))
}

// Entropy is the Shannon entropy of a probability distribution in nats.
func Entropy(p []float64) float64 {
	var h float64
	for _, x := range p {
		if x > 0 {
			h -= x * math.Log(x)
		}
	}
	return h
}

// ArgMax returns the index of the largest value, ties toward the earliest.
func ArgMax(xs []float64) int {
	best := 0
	for i, x := range xs {
		if x > xs[best] {
			best = i
		}
	}
	return best
}
