package text

import "sort"

// Vocabulary is a stable term-to-index mapping built once per training
// generation. Index 0 is reserved for padding and index 1 for unknown
// terms; real terms start at index 2. A retrain replaces the whole
// vocabulary, so indices are only meaningful within one generation.
type Vocabulary struct {
	Index map[string]int `json:"index"`
	// Dim is the total vector dimension including the two reserved slots.
	Dim int `json:"dim"`
}

// VocabularyConfig bounds vocabulary construction.
type VocabularyConfig struct {
	// MinTermFrequency drops terms seen fewer times than this. The
	// classifier uses 1 so a single correction's words are learnable.
	MinTermFrequency int
	// MaxTerms caps the vocabulary size, keeping the most frequent terms.
	MaxTerms int
}

// DefaultVocabularyConfig returns the classifier's vocabulary bounds.
func DefaultVocabularyConfig() VocabularyConfig {
	return VocabularyConfig{
		MinTermFrequency: 1,
		MaxTerms:         3000,
	}
}

// BuildVocabulary scans the corpus once and assigns each qualifying term
// a stable index. Terms are ranked by frequency (descending) with
// alphabetical order as the tie-break, so two builds over the same corpus
// produce identical vocabularies.
func BuildVocabulary(corpus []string, cfg VocabularyConfig) *Vocabulary {
	if cfg.MinTermFrequency < 1 {
		cfg.MinTermFrequency = 1
	}

	freq := make(map[string]int)
	for _, doc := range corpus {
		for _, tok := range Tokenize(doc) {
			freq[tok]++
		}
	}

	terms := make([]string, 0, len(freq))
	for term, n := range freq {
		if n >= cfg.MinTermFrequency {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if cfg.MaxTerms > 0 && len(terms) > cfg.MaxTerms {
		terms = terms[:cfg.MaxTerms]
	}

	index := make(map[string]int, len(terms))
	for i, term := range terms {
		index[term] = i + 2 // skip PAD and UNK
	}

	return &Vocabulary{
		Index: index,
		Dim:   len(terms) + 2,
	}
}

// Size returns the number of real terms, excluding the reserved slots.
func (v *Vocabulary) Size() int {
	return len(v.Index)
}

// Vectorize produces the unit-normalized bag-of-words vector for a text.
// Unknown terms accumulate on the UNK slot; the PAD slot stays zero.
func (v *Vocabulary) Vectorize(s string) []float64 {
	vec := make([]float64, v.Dim)
	for _, tok := range Tokenize(s) {
		if idx, ok := v.Index[tok]; ok {
			vec[idx]++
		} else {
			vec[UnknownIndex]++
		}
	}
	return Normalize(vec)
}
