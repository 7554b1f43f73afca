package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teligen-kh/aicounsel/store"
)

func testPatterns() []*store.Pattern {
	return []*store.Pattern{
		{ID: 1, Text: "포스 연결 오류", Category: store.CategoryTechnical},
		{ID: 2, Text: "프린터 인쇄 안됨", Category: store.CategoryTechnical},
		{ID: 3, Text: "카드 결제 취소 방법", Category: store.CategoryTechnical},
		{ID: 4, Text: "재고 조회가 느려요", Category: store.CategoryTechnical},
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"포스 연결 오류", []string{"포스", "연결", "오류"}},
		{"POS가 안돼요!!", []string{"pos가", "안돼요"}},
		{"hello, world", []string{"hello", "world"}},
		{"   ", nil},
		{"", nil},
		{"123-456", []string{"123", "456"}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.input)
		if len(tt.expected) == 0 {
			assert.Empty(t, got, "input %q", tt.input)
		} else {
			assert.Equal(t, tt.expected, got, "input %q", tt.input)
		}
	}
}

func TestNgrams(t *testing.T) {
	grams := ngrams([]string{"포스", "연결", "오류"})
	assert.ElementsMatch(t, []string{
		"포스", "연결", "오류",
		"포스 연결", "연결 오류",
		"포스 연결 오류",
	}, grams)

	assert.Empty(t, ngrams(nil))
	assert.Equal(t, []string{"단어"}, ngrams([]string{"단어"}))
}

func TestBuildSnapshot(t *testing.T) {
	snapshot := BuildSnapshot(testPatterns())
	require.Equal(t, 4, snapshot.Size())
	assert.False(t, snapshot.BuiltAt().IsZero())

	// Every pattern vector is unit length.
	for i, vector := range snapshot.vectors {
		var norm float64
		for _, w := range vector {
			norm += w * w
		}
		assert.InDelta(t, 1.0, norm, 1e-9, "pattern %d", i)
	}

	// Inverted index covers each pattern's tokens.
	assert.Contains(t, snapshot.inverted, "포스")
	assert.Equal(t, []int{0}, snapshot.inverted["포스"])
}

func TestBuildSnapshotDeterministic(t *testing.T) {
	a := BuildSnapshot(testPatterns())
	b := BuildSnapshot(testPatterns())

	require.Equal(t, a.Size(), b.Size())
	assert.Equal(t, a.idf, b.idf)
	assert.Equal(t, a.vectors, b.vectors)
	assert.Equal(t, a.inverted, b.inverted)
}

func TestVectorize(t *testing.T) {
	snapshot := BuildSnapshot(testPatterns())

	t.Run("identical text scores 1", func(t *testing.T) {
		query := snapshot.Vectorize("포스 연결 오류")
		require.NotEmpty(t, query)
		assert.InDelta(t, 1.0, snapshot.cosine(0, query), 1e-9)
	})

	t.Run("out of vocabulary input yields empty vector", func(t *testing.T) {
		assert.Empty(t, snapshot.Vectorize("완전히 생소한 이야기"))
	})

	t.Run("query vector is sorted by term", func(t *testing.T) {
		query := snapshot.Vectorize("카드 결제 취소 방법")
		for i := 1; i < len(query); i++ {
			assert.Less(t, query[i-1].term, query[i].term)
		}
	})

	t.Run("partial overlap scores between 0 and 1", func(t *testing.T) {
		query := snapshot.Vectorize("포스 연결이 안되는데요")
		require.NotEmpty(t, query)
		score := snapshot.cosine(0, query)
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 1.0)
	})
}

func TestLexicalCandidates(t *testing.T) {
	snapshot := BuildSnapshot(testPatterns())

	t.Run("ranked by overlap", func(t *testing.T) {
		candidates := snapshot.lexicalCandidates(Tokenize("포스 연결 오류 발생"), 10)
		require.NotEmpty(t, candidates)
		assert.Equal(t, 0, candidates[0].index)
		assert.Equal(t, 3, candidates[0].overlap)
	})

	t.Run("limit is honored", func(t *testing.T) {
		candidates := snapshot.lexicalCandidates(Tokenize("포스 프린터 카드 재고"), 2)
		assert.Len(t, candidates, 2)
	})

	t.Run("no overlap yields nothing", func(t *testing.T) {
		assert.Empty(t, snapshot.lexicalCandidates(Tokenize("날씨 어때"), 10))
	})

	t.Run("duplicate tokens count once", func(t *testing.T) {
		candidates := snapshot.lexicalCandidates([]string{"포스", "포스"}, 10)
		require.Len(t, candidates, 1)
		assert.Equal(t, 1, candidates[0].overlap)
	})
}

func TestSnapshotNilSize(t *testing.T) {
	var snapshot *Snapshot
	assert.Equal(t, 0, snapshot.Size())
}
