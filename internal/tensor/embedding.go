package tensor

import "math/rand"

// EmbeddingPool maps a fixed-length token-id sequence to the mean of the
// corresponding embedding rows (global average pooling). It is the
// integer-input front-end of the lifestyle network and sits in front of a
// Sequential, which only handles float vectors.
type EmbeddingPool struct {
	table   *Param
	lastIDs []int
	vocab   int
	dim     int
	seqLen  int
}

// NewEmbeddingPool creates an embedding table of vocab rows by dim columns.
func NewEmbeddingPool(vocab, dim, seqLen int, rng *rand.Rand) *EmbeddingPool {
	e := &EmbeddingPool{
		table:  newParam(vocab, dim),
		vocab:  vocab,
		dim:    dim,
		seqLen: seqLen,
	}
	scale := 0.05
	for i := range e.table.Data {
		e.table.Data[i] = rng.NormFloat64() * scale
	}
	return e
}

// Forward averages the embedding rows of the given ids. Out-of-range ids
// are treated as the unknown row at index 1.
func (e *EmbeddingPool) Forward(ids []int) []float64 {
	e.lastIDs = ids
	out := make([]float64, e.dim)
	if len(ids) == 0 {
		return out
	}
	for _, id := range ids {
		if id < 0 || id >= e.vocab {
			id = 1
		}
		row := e.table.Data[id*e.dim : (id+1)*e.dim]
		for i, x := range row {
			out[i] += x
		}
	}
	inv := 1 / float64(len(ids))
	for i := range out {
		out[i] *= inv
	}
	return out
}

// Backward spreads the pooled gradient back over the rows used by the
// last forward pass.
func (e *EmbeddingPool) Backward(grad []float64) {
	if len(e.lastIDs) == 0 {
		return
	}
	inv := 1 / float64(len(e.lastIDs))
	for _, id := range e.lastIDs {
		if id < 0 || id >= e.vocab {
			id = 1
		}
		gradRow := e.table.Grad[id*e.dim : (id+1)*e.dim]
		for i, g := range grad {
			gradRow[i] += g * inv
		}
	}
}

// Params returns the embedding table as a single parameter.
func (e *EmbeddingPool) Params() []*Param {
	return []*Param{e.table}
}
