// Package chunker splits cleaned document text into overlapping chunks.
//
// Two strategies are provided. BoundarySnap walks fixed-size windows and
// snaps each cut back to a sentence terminator; it is the canonical
// strategy and is used for articles. SentenceAccumulate packs whole
// sentences greedily and seeds each chunk with a character suffix of the
// previous one; it is used for extracted PDF and plain text. The two have
// different overlap semantics and are kept separate.
package chunker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// StrategyBoundary names the sentence-boundary snapping strategy.
	StrategyBoundary = "boundary"
	// StrategySentence names the greedy sentence accumulation strategy.
	StrategySentence = "sentence"
)

var (
	// ErrInvalidParams is returned when size/overlap violate 0 <= overlap < size.
	ErrInvalidParams = errors.New("invalid chunking parameters")
	// ErrUnknownStrategy is returned by New for an unrecognized strategy name.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")
)

// Default parameters used by the two ingestion paths.
var (
	ArticleParams = Params{Size: 1500, Overlap: 400}
	PDFParams     = Params{Size: 1000, Overlap: 200}
)

// Params holds the target chunk size and overlap, both in characters.
type Params struct {
	Size    int `json:"chunk_size" yaml:"chunk_size"`
	Overlap int `json:"chunk_overlap" yaml:"chunk_overlap"`
}

// Validate rejects parameters outside 0 <= Overlap < Size.
func (p Params) Validate() error {
	if p.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be greater than 0, got %d", ErrInvalidParams, p.Size)
	}
	if p.Overlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", ErrInvalidParams, p.Overlap)
	}
	if p.Overlap >= p.Size {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", ErrInvalidParams, p.Overlap, p.Size)
	}
	return nil
}

// Chunk is one piece of a document's cleaned text.
type Chunk struct {
	Index     int      `json:"chunk_index"`
	Total     int      `json:"total_chunks"`
	Text      string   `json:"text"`
	CharCount int      `json:"char_count"`
	WordCount int      `json:"word_count"`
	Sentences []string `json:"sentences"`
	StartPos  int      `json:"start_pos"` // rune offset into the cleaned text
	EndPos    int      `json:"end_pos"`   // exclusive
}

// Strategy splits a single cleaned text into an ordered chunk sequence.
// Implementations are pure: the same input always yields the same output.
type Strategy interface {
	Name() string
	Params() Params
	Split(text string) ([]Chunk, error)
}

// New returns the strategy registered under name.
func New(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrategyBoundary, "":
		return NewBoundarySnap(p)
	case StrategySentence:
		return NewSentenceAccumulate(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func newChunk(text string, index, start, end int) Chunk {
	text = strings.TrimSpace(text)
	return Chunk{
		Index:     index,
		Text:      text,
		CharCount: utf8.RuneCountInString(text),
		WordCount: len(strings.Fields(text)),
		Sentences: SplitSentences(text),
		StartPos:  start,
		EndPos:    end,
	}
}

// setTotals writes the final sequence length into every chunk. It runs
// only after the whole document has been chunked.
func setTotals(chunks []Chunk) {
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = len(chunks)
	}
}
