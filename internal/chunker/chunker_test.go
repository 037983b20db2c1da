package chunker

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{name: "article defaults", params: ArticleParams},
		{name: "pdf defaults", params: PDFParams},
		{name: "zero overlap", params: Params{Size: 100, Overlap: 0}},
		{name: "zero size", params: Params{Size: 0, Overlap: 0}, wantErr: true},
		{name: "negative size", params: Params{Size: -10, Overlap: 0}, wantErr: true},
		{name: "negative overlap", params: Params{Size: 100, Overlap: -1}, wantErr: true},
		{name: "overlap equals size", params: Params{Size: 100, Overlap: 100}, wantErr: true},
		{name: "overlap exceeds size", params: Params{Size: 100, Overlap: 150}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidParams))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNew(t *testing.T) {
	s, err := New("boundary", ArticleParams)
	require.NoError(t, err)
	assert.Equal(t, StrategyBoundary, s.Name())
	assert.Equal(t, ArticleParams, s.Params())

	s, err = New("SENTENCE", PDFParams)
	require.NoError(t, err)
	assert.Equal(t, StrategySentence, s.Name())

	s, err = New("", ArticleParams)
	require.NoError(t, err)
	assert.Equal(t, StrategyBoundary, s.Name(), "empty name selects the canonical strategy")

	_, err = New("semantic", ArticleParams)
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = New("boundary", Params{Size: 10, Overlap: 10})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestBoundarySnap_ShortText(t *testing.T) {
	s, err := NewBoundarySnap(Params{Size: 1500, Overlap: 400})
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "one word", text: "Mars"},
		{name: "one less than size", text: strings.Repeat("a", 1499)},
		{
			name: "habitat abstract",
			text: CleanText("Title: Mars Habitat Study\n\nAbstract: NASA studies Mars soil for habitat construction. Mars Mars Mars is a planet."),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := s.Split(tt.text)
			require.NoError(t, err)
			require.Len(t, chunks, 1)
			assert.Equal(t, tt.text, chunks[0].Text)
			assert.Equal(t, 0, chunks[0].Index)
			assert.Equal(t, 1, chunks[0].Total)
			assert.Equal(t, 0, chunks[0].StartPos)
			assert.Equal(t, len([]rune(tt.text)), chunks[0].EndPos)
		})
	}
}

func TestBoundarySnap_SnapsToSentenceEnd(t *testing.T) {
	s, err := NewBoundarySnap(Params{Size: 20, Overlap: 5})
	require.NoError(t, err)

	text := strings.Repeat("a", 14) + ". " + strings.Repeat("b", 30)
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	assert.Equal(t, strings.Repeat("a", 14)+".", chunks[0].Text)
	assert.Equal(t, 15, chunks[0].EndPos)
	assert.Equal(t, 10, chunks[1].StartPos, "next chunk starts overlap characters before the snapped end")
}

func TestBoundarySnap_IgnoresEarlyTerminator(t *testing.T) {
	s, err := NewBoundarySnap(Params{Size: 20, Overlap: 0})
	require.NoError(t, err)

	// The only terminator sits at 25% of the window, so the cut stays at 20.
	text := "abcd. " + strings.Repeat("x", 40)
	chunks, err := s.Split(text)
	require.NoError(t, err)
	assert.Equal(t, 20, chunks[0].EndPos)
}

func TestOverlapStart(t *testing.T) {
	runes := []rune("xxxx. yyyy")
	assert.Equal(t, 6, overlapStart(runes, 10, 8), "starts after the first '. ' in the overlap region")
	assert.Equal(t, 7, overlapStart(runes, 10, 3), "falls back to the raw overlap offset")
	assert.Equal(t, 10, overlapStart(runes, 10, 0))
	assert.Equal(t, 0, overlapStart(runes, 3, 50))
}

func longArticle() string {
	sentences := []string{
		"The rover collected regolith samples near the crater rim.",
		"Spectrometer readings suggest hydrated minerals are present.",
		"Engineers adjusted the drill cadence after a thermal warning!",
		"Could the subsurface ice support a future crewed habitat?",
		"Orbital imagery confirmed seasonal frost along the slopes.",
		"Data from three instruments were fused into one terrain model.",
	}
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString(sentences[i%len(sentences)])
		b.WriteString(" ")
	}
	return CleanText(b.String())
}

func assertCoverage(t *testing.T, text string, chunks []Chunk) {
	t.Helper()
	runes := []rune(text)
	require.NotEmpty(t, chunks)
	assert.Equal(t, 0, chunks[0].StartPos)
	assert.Equal(t, len(runes), chunks[len(chunks)-1].EndPos)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, len(chunks), c.Total)
		assert.Less(t, c.StartPos, c.EndPos)
		assert.Equal(t, strings.TrimSpace(string(runes[c.StartPos:c.EndPos])), c.Text)
		if i > 0 {
			prev := chunks[i-1]
			assert.Greater(t, c.StartPos, prev.StartPos, "chunk %d must advance", i)
			assert.LessOrEqual(t, c.StartPos, prev.EndPos, "gap before chunk %d", i)
		}
	}
}

func TestBoundarySnap_Coverage(t *testing.T) {
	text := longArticle()
	params := []Params{
		{Size: 1000, Overlap: 200},
		{Size: 1500, Overlap: 400},
		{Size: 300, Overlap: 0},
		{Size: 200, Overlap: 150},
		{Size: 100, Overlap: 99},
	}

	for _, p := range params {
		s, err := NewBoundarySnap(p)
		require.NoError(t, err)
		chunks, err := s.Split(text)
		require.NoError(t, err)
		assertCoverage(t, text, chunks)
	}
}

func TestBoundarySnap_ForwardProgressBound(t *testing.T) {
	text := CleanText(strings.Repeat("abcd ", 1000))
	n := len([]rune(text))

	params := []Params{
		{Size: 100, Overlap: 20},
		{Size: 100, Overlap: 70},
		{Size: 1000, Overlap: 200},
		{Size: 64, Overlap: 63},
	}

	for _, p := range params {
		s, err := NewBoundarySnap(p)
		require.NoError(t, err)
		chunks, err := s.Split(text)
		require.NoError(t, err)

		bound := int(math.Ceil(float64(n)/float64(p.Size-p.Overlap))) + 1
		assert.LessOrEqual(t, len(chunks), bound, "size=%d overlap=%d", p.Size, p.Overlap)
		assertCoverage(t, text, chunks)
	}
}

func TestBoundarySnap_SnappedChunkCount(t *testing.T) {
	// A terminator just past half of every window forces a snap on each cut.
	text := strings.Repeat(strings.Repeat("x", 51)+".", 100)
	n := len([]rune(text))

	tests := []struct {
		params Params
	}{
		{params: Params{Size: 100, Overlap: 0}},
		{params: Params{Size: 100, Overlap: 20}},
		{params: Params{Size: 200, Overlap: 60}},
		{params: Params{Size: 100, Overlap: 50}},
		{params: Params{Size: 100, Overlap: 90}},
	}

	for _, tt := range tests {
		p := tt.params
		s, err := NewBoundarySnap(p)
		require.NoError(t, err)
		chunks, err := s.Split(text)
		require.NoError(t, err)
		assertCoverage(t, text, chunks)

		assert.LessOrEqual(t, len(chunks), n, "size=%d overlap=%d", p.Size, p.Overlap)
		if float64(p.Overlap) < float64(p.Size)/2 {
			// Snapped chunks are longer than half the size.
			bound := int(math.Ceil(float64(n)/(float64(p.Size)/2-float64(p.Overlap)))) + 1
			assert.LessOrEqual(t, len(chunks), bound, "size=%d overlap=%d", p.Size, p.Overlap)
		}
	}

	s, err := NewBoundarySnap(Params{Size: 100, Overlap: 0})
	require.NoError(t, err)
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 100)
	assert.Equal(t, 52, chunks[0].CharCount)
}

func TestBoundarySnap_Deterministic(t *testing.T) {
	text := longArticle()
	s, err := NewBoundarySnap(ArticleParams)
	require.NoError(t, err)

	first, err := s.Split(text)
	require.NoError(t, err)
	second, err := s.Split(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBoundarySnap_Overlaps(t *testing.T) {
	text := longArticle()
	s, err := NewBoundarySnap(Params{Size: 1000, Overlap: 200})
	require.NoError(t, err)

	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 2)

	for i := 1; i < len(chunks); i++ {
		overlap := chunks[i-1].EndPos - chunks[i].StartPos
		assert.GreaterOrEqual(t, overlap, 0)
		assert.LessOrEqual(t, overlap, 200)
	}
}

func TestSentenceAccumulate(t *testing.T) {
	s, err := NewSentenceAccumulate(Params{Size: 30, Overlap: 5})
	require.NoError(t, err)

	text := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota."
	chunks, err := s.Split(text)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "Alpha beta gamma.", chunks[0].Text)
	assert.Equal(t, "amma. Delta epsilon zeta.", chunks[1].Text)
	assert.Equal(t, "zeta. Eta theta iota.", chunks[2].Text)

	assert.Equal(t, []string{"Alpha beta gamma."}, chunks[0].Sentences)
	assert.Equal(t, []string{"Delta epsilon zeta."}, chunks[1].Sentences, "overlap fragment is not a sentence of the chunk")
	assert.Equal(t, []string{"Eta theta iota."}, chunks[2].Sentences)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, 3, c.Total)
		assert.Equal(t, c.Text, text[c.StartPos:c.EndPos])
	}
}

func TestSentenceAccumulate_EdgeCases(t *testing.T) {
	s, err := NewSentenceAccumulate(Params{Size: 30, Overlap: 0})
	require.NoError(t, err)

	chunks, err := s.Split("")
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = s.Split("Short one. Another short one. And a third sentence.")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Short one. Another short one.", chunks[0].Text)
	assert.Equal(t, "And a third sentence.", chunks[1].Text, "zero overlap carries nothing over")

	long := strings.Repeat("word ", 20) + "end."
	chunks, err = s.Split(long)
	require.NoError(t, err)
	require.Len(t, chunks, 1, "a sentence longer than the size stays whole")
}

func TestSentenceAccumulate_Coverage(t *testing.T) {
	text := longArticle()
	s, err := NewSentenceAccumulate(PDFParams)
	require.NoError(t, err)

	chunks, err := s.Split(text)
	require.NoError(t, err)
	assertCoverage(t, text, chunks)
}
