package chunker

// BoundarySnap produces fixed-size windows whose cut points snap back to
// the nearest sentence terminator when one lies in the second half of the
// window. The next window starts up to Overlap characters before the
// actual end of the previous one, preferably at a sentence start.
type BoundarySnap struct {
	params Params
}

// NewBoundarySnap validates p and returns the strategy.
func NewBoundarySnap(p Params) (*BoundarySnap, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &BoundarySnap{params: p}, nil
}

// Name returns StrategyBoundary.
func (s *BoundarySnap) Name() string { return StrategyBoundary }

// Params returns the configured size and overlap.
func (s *BoundarySnap) Params() Params { return s.params }

// Split chunks text. Text shorter than the chunk size, including empty
// text, yields exactly one chunk.
func (s *BoundarySnap) Split(text string) ([]Chunk, error) {
	runes := []rune(text)
	n := len(runes)
	size, overlap := s.params.Size, s.params.Overlap

	if n < size {
		c := newChunk(text, 0, 0, n)
		c.Total = 1
		return []Chunk{c}, nil
	}

	var chunks []Chunk
	start, prevEnd := 0, 0
	for start < n {
		end := min(start+size, n)
		actualEnd := end

		if end < n {
			// Only snap when the terminator is past half the window.
			if bp := lastTerminator(runes[start:end]); bp >= 0 && float64(bp) > float64(size)*0.5 {
				actualEnd = start + bp + 1
			}
		}

		chunks = append(chunks, newChunk(string(runes[start:actualEnd]), len(chunks), start, actualEnd))

		if actualEnd >= n {
			break
		}

		// Overlap is measured from where the chunk actually ended.
		next := overlapStart(runes, actualEnd, overlap)

		// prevEnd is the end of the chunk before this one. Starting at or
		// before it would stall, so move past it. Never start beyond this
		// chunk's end, or characters between the two chunks would be lost.
		if next <= prevEnd {
			next = prevEnd + 1
		}
		if next > actualEnd {
			next = actualEnd
		}

		prevEnd = actualEnd
		start = next
	}

	setTotals(chunks)
	return chunks, nil
}

// lastTerminator returns the index of the last '.', '?' or '!' in window, or -1.
func lastTerminator(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if isTerminator(window[i]) {
			return i
		}
	}
	return -1
}

// overlapStart computes where the next chunk begins: the first sentence
// start inside the overlap region, or the raw overlap offset.
func overlapStart(runes []rune, actualEnd, overlap int) int {
	from := max(0, actualEnd-overlap)
	region := runes[from:actualEnd]
	for i := 0; i+1 < len(region); i++ {
		if isTerminator(region[i]) && region[i+1] == ' ' {
			return from + i + 2
		}
	}
	return from
}
