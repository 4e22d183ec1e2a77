package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "vietnamese diacritics survive",
			in:   "Cà phê sáng",
			want: []string{"cà", "phê", "sáng"},
		},
		{
			name: "punctuation splits tokens",
			in:   "grab, đi ăn!",
			want: []string{"grab", "đi", "ăn"},
		},
		{
			name: "digits kept",
			in:   "nạp 50k điện thoại",
			want: []string{"nạp", "50k", "điện", "thoại"},
		},
		{
			name: "empty input",
			in:   "",
			want: nil,
		},
		{
			name: "only punctuation",
			in:   "...!!!",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildVocabulary(t *testing.T) {
	corpus := []string{
		"cà phê sáng",
		"cà phê trưa",
		"lương tháng",
	}

	vocab := BuildVocabulary(corpus, DefaultVocabularyConfig())

	// 6 distinct terms plus PAD and UNK.
	assert.Equal(t, 6, vocab.Size())
	assert.Equal(t, 8, vocab.Dim)

	// Reserved indices never assigned to terms.
	for term, idx := range vocab.Index {
		assert.GreaterOrEqual(t, idx, 2, "term %q got reserved index %d", term, idx)
	}

	// Most frequent terms rank first.
	assert.Equal(t, 2, vocab.Index["cà"])
	assert.Equal(t, 3, vocab.Index["phê"])
}

func TestBuildVocabulary_Deterministic(t *testing.T) {
	corpus := []string{"ăn sáng", "ăn trưa", "ăn tối", "xem phim"}

	a := BuildVocabulary(corpus, DefaultVocabularyConfig())
	b := BuildVocabulary(corpus, DefaultVocabularyConfig())

	assert.Equal(t, a.Index, b.Index)
}

func TestBuildVocabulary_MinFrequencyAndCap(t *testing.T) {
	corpus := []string{"a a a b b c"}

	vocab := BuildVocabulary(corpus, VocabularyConfig{MinTermFrequency: 2, MaxTerms: 1})
	require.Equal(t, 1, vocab.Size())

	// Only the most frequent surviving term keeps a slot.
	_, ok := vocab.Index["a"]
	assert.True(t, ok)
}

func TestVectorize(t *testing.T) {
	vocab := BuildVocabulary([]string{"cà phê sáng"}, DefaultVocabularyConfig())

	t.Run("known terms produce unit vector", func(t *testing.T) {
		vec := vocab.Vectorize("cà phê")
		var sum float64
		for _, x := range vec {
			sum += x * x
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
		assert.Zero(t, vec[PadIndex])
		assert.Zero(t, vec[UnknownIndex])
	})

	t.Run("unknown terms accumulate on UNK", func(t *testing.T) {
		vec := vocab.Vectorize("trà sữa")
		assert.InDelta(t, 1.0, vec[UnknownIndex], 1e-9)
	})

	t.Run("empty text yields zero vector", func(t *testing.T) {
		vec := vocab.Vectorize("")
		for _, x := range vec {
			assert.Zero(t, x)
		}
	})
}

func TestToSequence(t *testing.T) {
	vocab := map[string]int{"cà": 2, "phê": 3}

	tests := []struct {
		name   string
		tokens []string
		maxLen int
		want   []int
	}{
		{
			name:   "pads short input",
			tokens: []string{"cà"},
			maxLen: 4,
			want:   []int{2, 0, 0, 0},
		},
		{
			name:   "unknown maps to UNK",
			tokens: []string{"trà", "phê"},
			maxLen: 3,
			want:   []int{1, 3, 0},
		},
		{
			name:   "truncates long input",
			tokens: []string{"cà", "phê", "cà", "phê"},
			maxLen: 2,
			want:   []int{2, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSequence(vocab, tt.tokens, tt.maxLen))
		})
	}
}
