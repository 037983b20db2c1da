package search

import (
	"strings"
	"unicode"
)

const (
	lexicalLengthScale = 10.0
	maxLexicalScore    = 0.4
	tagMatchBonus      = 0.1
)

var lexicalStopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {},
	"or": {}, "the": {}, "to": {}, "was": {}, "were": {}, "with": {},
}

// lexicalScore computes a lightweight lexical relevance score for a chunk
// relative to a query. Query terms found among the chunk's tags or its
// category add a fixed bonus. The result is in [0, maxLexicalScore] so it
// can be blended with vector scores.
func lexicalScore(query, chunkText string, tags []string, category string) float64 {
	queryTokens := filterStopwords(tokenize(query))
	if len(queryTokens) == 0 {
		return 0
	}

	chunkTokens := tokenize(chunkText)
	if len(chunkTokens) == 0 {
		return 0
	}

	chunkFreq := make(map[string]int, len(chunkTokens))
	for _, token := range chunkTokens {
		chunkFreq[token]++
	}

	var rawMatches int
	for _, token := range queryTokens {
		rawMatches += chunkFreq[token]
	}

	score := (float64(rawMatches) / (1 + float64(len(chunkTokens)))) * lexicalLengthScale

	labels := make(map[string]struct{}, len(tags)+1)
	for _, t := range tags {
		for _, token := range tokenize(t) {
			labels[token] = struct{}{}
		}
	}
	for _, token := range tokenize(category) {
		labels[token] = struct{}{}
	}
	var labelMatches int
	for _, token := range queryTokens {
		if _, ok := labels[token]; ok {
			labelMatches++
		}
	}
	score += float64(labelMatches) * tagMatchBonus

	return min(max(score, 0), maxLexicalScore)
}

func tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune(' ')
		}
	}
	tokens := strings.Fields(builder.String())
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

func filterStopwords(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	result := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, isStop := lexicalStopwords[token]; isStop {
			continue
		}
		result = append(result, token)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
