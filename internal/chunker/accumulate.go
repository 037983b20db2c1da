package chunker

// SentenceAccumulate packs whole sentences into a chunk until the next one
// would push it past Size, then starts a new chunk seeded with the last
// Overlap characters of the one just closed.
//
// A chunk's Sentences lists only the sentences it adds; the carried-over
// overlap fragment is not counted. A single sentence longer than Size
// still becomes one chunk. Positions
// are exact when the input has been through CleanText/CleanPDFText, where
// sentences are separated by a single space.
type SentenceAccumulate struct {
	params Params
}

// NewSentenceAccumulate validates p and returns the strategy.
func NewSentenceAccumulate(p Params) (*SentenceAccumulate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &SentenceAccumulate{params: p}, nil
}

// Name returns StrategySentence.
func (s *SentenceAccumulate) Name() string { return StrategySentence }

// Params returns the configured size and overlap.
func (s *SentenceAccumulate) Params() Params { return s.params }

// Split chunks text. Empty text yields no chunks.
func (s *SentenceAccumulate) Split(text string) ([]Chunk, error) {
	runes := []rune(text)
	spans := sentenceSpans(runes)
	chunks := make([]Chunk, 0)
	if len(spans) == 0 {
		return chunks, nil
	}

	var (
		cur      []rune
		curStart int
		curEnd   int
		added    []string
	)
	flush := func() {
		c := newChunk(string(cur), len(chunks), curStart, curEnd)
		c.Sentences = added
		chunks = append(chunks, c)
		added = nil
	}

	for _, sp := range spans {
		sentence := runes[sp.start:sp.end]

		switch {
		case len(cur) == 0:
			cur = append(cur[:0:0], sentence...)
			curStart = sp.start
		case len(cur)+len(sentence)+1 > s.params.Size:
			flush()
			tail := suffix(cur, s.params.Overlap)
			next := make([]rune, 0, len(tail)+1+len(sentence))
			if len(tail) > 0 {
				next = append(next, tail...)
				next = append(next, ' ')
				curStart = curEnd - len(tail)
			} else {
				curStart = sp.start
			}
			cur = append(next, sentence...)
		default:
			cur = append(cur, ' ')
			cur = append(cur, sentence...)
		}
		curEnd = sp.end
		added = append(added, string(sentence))
	}
	flush()

	setTotals(chunks)
	return chunks, nil
}

// suffix returns the last n runes of r, or all of r when it is shorter.
func suffix(r []rune, n int) []rune {
	if n <= 0 {
		return nil
	}
	if len(r) <= n {
		return r
	}
	return r[len(r)-n:]
}
