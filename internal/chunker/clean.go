package chunker

import (
	"strings"
	"unicode"
)

const (
	articlePunct = ".,;:!?-()[]{}"
	pdfPunct     = articlePunct + "\"'/\\"
)

// CleanText collapses whitespace runs into single spaces, drops every
// character that is not a word character or basic punctuation, and trims.
func CleanText(s string) string {
	return clean(s, articlePunct)
}

// CleanPDFText is CleanText with quotes and slashes also kept, which
// extracted PDF text relies on for citations and paths.
func CleanPDFText(s string) string {
	return clean(s, pdfPunct)
}

func clean(s, allowed string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if !isWordRune(r) && !strings.ContainsRune(allowed, r) {
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

type span struct {
	start, end int
}

// sentenceSpans returns rune spans of the sentences in runes. A sentence
// ends at '.', '!' or '?' followed by whitespace; the remainder forms the
// last sentence. Spans are trimmed and empty spans are dropped.
func sentenceSpans(runes []rune) []span {
	var spans []span
	add := func(start, end int) {
		for start < end && unicode.IsSpace(runes[start]) {
			start++
		}
		for end > start && unicode.IsSpace(runes[end-1]) {
			end--
		}
		if start < end {
			spans = append(spans, span{start: start, end: end})
		}
	}

	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		add(start, i+1)
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	add(start, len(runes))
	return spans
}

// SplitSentences splits text after sentence terminators followed by
// whitespace. The result is never nil.
func SplitSentences(text string) []string {
	runes := []rune(text)
	spans := sentenceSpans(runes)
	sentences := make([]string, 0, len(spans))
	for _, sp := range spans {
		sentences = append(sentences, string(runes[sp.start:sp.end]))
	}
	return sentences
}

// SourceKey derives the document grouping key from a title: lowercase,
// non-alphanumerics become hyphens, hyphen runs collapse, ends trimmed.
func SourceKey(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
