package lifestyle

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/vimoney/vimoney/internal/model"
	"github.com/vimoney/vimoney/internal/synthetic"
	"github.com/vimoney/vimoney/internal/tensor"
	"github.com/vimoney/vimoney/internal/text"
)

const (
	trainEpochs  = 40
	learningRate = 0.05
	momentum     = 0.9
)

type vocabularyBlob struct {
	TrainedAt  time.Time      `json:"trained_at"`
	Vocabulary map[string]int `json:"vocabulary"`
}

type weightsBlob struct {
	TrainedAt time.Time       `json:"trained_at"`
	Weights   []tensor.Tensor `json:"weights"`
}

// buildNetwork assembles the extractor's network for a given vocabulary
// size: embedding with average pooling, one relu hidden layer with
// dropout, and a 16-way sigmoid output.
func buildNetwork(vocabSize int, seed int64) (*tensor.EmbeddingPool, *tensor.Sequential) {
	rng := rand.New(rand.NewSource(seed))
	embed := tensor.NewEmbeddingPool(vocabSize, embedDim, seqLen, rng)
	net := tensor.NewSequential(tensor.OutputSigmoid,
		tensor.NewDense(embedDim, hiddenDim, tensor.ActReLU, tensor.InitHe, rng),
		tensor.NewDropout(dropoutRate, rng),
		tensor.NewDense(hiddenDim, model.SignalDim, tensor.ActLinear, tensor.InitXavier, rng),
	)
	return embed, net
}

// Train runs cold-start training on the synthetic phrase dataset, then
// persists the vocabulary and weights. It is safe to call concurrently
// with Infer; inference keeps serving the fallback until training
// completes.
func (e *Extractor) Train(ctx context.Context) error {
	start := time.Now()

	examples := synthetic.GenerateLifestyle(synthetic.DefaultLifestyleExamples, e.seed)
	corpus := make([]string, len(examples))
	for i, ex := range examples {
		corpus[i] = ex.Text
	}
	vocabulary := text.BuildVocabulary(corpus, text.VocabularyConfig{
		MinTermFrequency: 1,
		MaxTerms:         maxVocabTerms,
	})
	vocab := vocabulary.Index

	embed, net := buildNetwork(vocabulary.Dim, e.seed)
	params := append(embed.Params(), net.Params()...)
	opt := tensor.NewSGD(learningRate, momentum)
	rng := rand.New(rand.NewSource(e.seed))

	sequences := make([][]int, len(examples))
	for i, ex := range examples {
		sequences[i] = text.ToSequence(vocab, text.Tokenize(ex.Text), seqLen)
	}

	order := rng.Perm(len(examples))
	for epoch := 1; epoch <= trainEpochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, idx := range order {
			pooled := embed.Forward(sequences[idx])
			pred := net.Forward(pooled, true)
			delta := make([]float64, len(pred))
			for i := range pred {
				delta[i] = pred[i] - examples[idx].Target[i]
			}
			pooledGrad := net.Backward(delta)
			embed.Backward(pooledGrad)
			opt.Step(params)
		}
	}

	e.mu.Lock()
	e.vocab = vocab
	e.embed = embed
	e.net = net
	e.ready = true
	e.loaded = true
	e.mu.Unlock()

	if err := e.persist(ctx, vocab, embed, net); err != nil {
		// Swallowed: the model still serves from memory and the next
		// process cold-starts again.
		e.logger.Warn("failed to persist lifestyle model", "error", err)
	}

	e.logger.Info("lifestyle extractor trained",
		"examples", len(examples),
		"vocabulary", len(vocab),
		"elapsed", time.Since(start))
	return nil
}

func (e *Extractor) persist(ctx context.Context, vocab map[string]int, embed *tensor.EmbeddingPool, net *tensor.Sequential) error {
	now := time.Now()

	vb, err := json.Marshal(vocabularyBlob{TrainedAt: now, Vocabulary: vocab})
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	if err := e.store.Set(ctx, keyVocabulary, vb); err != nil {
		return fmt.Errorf("failed to store vocabulary: %w", err)
	}

	weights := exportWeights(embed, net)
	wb, err := json.Marshal(weightsBlob{TrainedAt: now, Weights: weights})
	if err != nil {
		return fmt.Errorf("failed to encode weights: %w", err)
	}
	if err := e.store.Set(ctx, keyWeights, wb); err != nil {
		return fmt.Errorf("failed to store weights: %w", err)
	}
	return nil
}

// loadLocked restores the persisted vocabulary and weights. Caller holds
// the mutex.
func (e *Extractor) loadLocked(ctx context.Context) error {
	vb, err := e.store.Get(ctx, keyVocabulary)
	if err != nil {
		return fmt.Errorf("vocabulary blob: %w", err)
	}
	wb, err := e.store.Get(ctx, keyWeights)
	if err != nil {
		return fmt.Errorf("weights blob: %w", err)
	}

	var vBlob vocabularyBlob
	if err := json.Unmarshal(vb, &vBlob); err != nil {
		return fmt.Errorf("failed to decode vocabulary: %w", err)
	}
	var wBlob weightsBlob
	if err := json.Unmarshal(wb, &wBlob); err != nil {
		return fmt.Errorf("failed to decode weights: %w", err)
	}
	if len(vBlob.Vocabulary) == 0 {
		return fmt.Errorf("persisted vocabulary is empty")
	}

	embed, net := buildNetwork(len(vBlob.Vocabulary)+2, e.seed)
	if err := importWeights(embed, net, wBlob.Weights); err != nil {
		return fmt.Errorf("failed to import weights: %w", err)
	}

	e.vocab = vBlob.Vocabulary
	e.embed = embed
	e.net = net
	e.ready = true
	return nil
}

// exportWeights serializes the embedding table followed by the dense
// stack, matching layer-creation order.
func exportWeights(embed *tensor.EmbeddingPool, net *tensor.Sequential) []tensor.Tensor {
	params := append(embed.Params(), net.Params()...)
	out := make([]tensor.Tensor, len(params))
	for i, p := range params {
		out[i] = p.Export()
	}
	return out
}

func importWeights(embed *tensor.EmbeddingPool, net *tensor.Sequential, weights []tensor.Tensor) error {
	params := append(embed.Params(), net.Params()...)
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
