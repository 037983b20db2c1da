// Package tagging derives keyword tags and a coarse category from text.
package tagging

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	frequencyTake = 5
	weightedTake  = 5
	entityTake    = 3
	entityLimit   = 10
	candidatePool = 10
	minKeywordLen = 4
)

var (
	entityPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`)
	termPattern   = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
)

// Options controls GenerateTags.
type Options struct {
	MaxTags         int  `json:"max_tags" yaml:"max_tags"`
	IncludeDomain   bool `json:"include_domain" yaml:"include_domain"`
	IncludeEntities bool `json:"include_entities" yaml:"include_entities"`
}

// DefaultOptions returns 15 tags with domain and entity tags enabled.
func DefaultOptions() Options {
	return Options{MaxTags: 15, IncludeDomain: true, IncludeEntities: true}
}

// Generator produces tags and categories. It holds no state.
type Generator struct{}

// NewGenerator creates a Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateTags returns at most opts.MaxTags unique, alphabetically sorted
// tags. Candidates are taken in priority order (domain, frequency,
// weighted, entities) before truncation, so the cut is deterministic.
func (g *Generator) GenerateTags(text string, opts Options) []string {
	tags := make([]string, 0, opts.MaxTags)
	if opts.MaxTags <= 0 {
		return tags
	}

	seen := make(map[string]struct{})
	add := func(candidates []string) {
		for _, c := range candidates {
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			tags = append(tags, c)
		}
	}

	if opts.IncludeDomain {
		add(DomainTags(text))
	}
	add(head(Frequency(text, candidatePool), frequencyTake))
	add(head(Weighted(text, candidatePool), weightedTake))
	if opts.IncludeEntities {
		add(head(Entities(text), entityTake))
	}

	if len(tags) > opts.MaxTags {
		tags = tags[:opts.MaxTags]
	}
	sort.Strings(tags)
	return tags
}

// GenerateCategory picks the first domain category present in tags, in
// DomainOrder. Otherwise it falls back to keyword clusters in the text,
// and finally to CategoryGeneral. The result is never empty.
func (g *Generator) GenerateCategory(text string, tags []string) string {
	tagSet := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		tagSet[t] = struct{}{}
	}
	for _, c := range domainCategories {
		if _, ok := tagSet[c.Name]; ok {
			return c.Name
		}
	}

	cleaned := Clean(text)
	for _, cluster := range fallbackClusters {
		if containsAny(cleaned, cluster.Keywords) {
			return cluster.Name
		}
	}
	return CategoryGeneral
}

// Clean lowercases text, replaces everything except word characters,
// whitespace and hyphens with spaces, and collapses whitespace.
func Clean(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// Frequency returns up to n non-stop-word tokens of at least four
// characters, most frequent first. Ties keep first-occurrence order.
func Frequency(text string, n int) []string {
	var words []string
	for _, w := range strings.Fields(Clean(text)) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if utf8.RuneCountInString(w) < minKeywordLen {
			continue
		}
		words = append(words, w)
	}
	return rankByCount(words, n, false)
}

// Weighted scores unigrams and bigrams by their frequency within the
// single input document and returns the top n. With one document there
// is no corpus to discount against, so term frequency is the weight.
// Ties are broken alphabetically.
func Weighted(text string, n int) []string {
	var tokens []string
	for _, tok := range termPattern.FindAllString(Clean(text), -1) {
		if _, stop := weightingStopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return rankByCount(terms, n, true)
}

// DomainTags returns, in DomainOrder, every category with at least one
// keyword occurring as a substring of the cleaned text.
func DomainTags(text string) []string {
	cleaned := Clean(text)
	var tags []string
	for _, c := range domainCategories {
		if containsAny(cleaned, c.Keywords) {
			tags = append(tags, c.Name)
		}
	}
	return tags
}

// Entities returns lowercased runs of capitalized words that occur more
// than once and are longer than three characters, in first-seen order,
// at most ten.
func Entities(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, m := range entityPattern.FindAllString(text, -1) {
		m = strings.Join(strings.Fields(m), " ")
		if counts[m] == 0 {
			order = append(order, m)
		}
		counts[m]++
	}

	var entities []string
	for _, e := range order {
		if counts[e] > 1 && utf8.RuneCountInString(e) > 3 {
			entities = append(entities, strings.ToLower(e))
		}
	}
	return head(entities, entityLimit)
}

// EnrichForEmbedding appends tags and category to chunk text so that they
// contribute to the embedded representation.
func EnrichForEmbedding(text string, tags []string, category string) string {
	var b strings.Builder
	b.WriteString(text)
	if len(tags) > 0 {
		b.WriteString("\n\nKeywords: ")
		b.WriteString(strings.Join(tags, ", "))
	}
	if category != "" {
		b.WriteString("\nCategory: ")
		b.WriteString(category)
	}
	return b.String()
}

func rankByCount(items []string, n int, alphaTies bool) []string {
	counts := make(map[string]int, len(items))
	var order []string
	for _, it := range items {
		if counts[it] == 0 {
			order = append(order, it)
		}
		counts[it]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		ci, cj := counts[order[i]], counts[order[j]]
		if ci != cj {
			return ci > cj
		}
		if alphaTies {
			return order[i] < order[j]
		}
		return false
	})
	return head(order, n)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func head(s []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
