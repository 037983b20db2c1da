package tagging

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const habitatText = "Title: Mars Habitat Study\n\nAbstract: NASA studies Mars soil for habitat construction. Mars Mars Mars is a planet."

func TestGenerateTags_HabitatScenario(t *testing.T) {
	g := NewGenerator()
	tags := g.GenerateTags(habitatText, Options{MaxTags: 15, IncludeDomain: true, IncludeEntities: true})

	assert.Contains(t, tags, "planets")
	assert.Contains(t, tags, "mars")
	assert.Contains(t, tags, "nasa")
	assert.Contains(t, tags, "science")
	assert.True(t, sort.StringsAreSorted(tags))
	assert.LessOrEqual(t, len(tags), 15)

	assert.Equal(t, "nasa", g.GenerateCategory(habitatText, tags))
}

func TestGenerateTags_Invariants(t *testing.T) {
	g := NewGenerator()
	texts := []string{
		"",
		habitatText,
		strings.Repeat("Galaxy Survey Team observed distant galaxies with the telescope. ", 20),
		"Quantum gravity research uses data from orbital satellite experiments and rocket launch systems.",
	}

	for _, text := range texts {
		for _, maxTags := range []int{1, 3, 5, 15, 30} {
			tags := g.GenerateTags(text, Options{MaxTags: maxTags, IncludeDomain: true, IncludeEntities: true})
			require.NotNil(t, tags)
			assert.LessOrEqual(t, len(tags), maxTags)
			assert.True(t, sort.StringsAreSorted(tags))

			seen := make(map[string]bool)
			for _, tag := range tags {
				assert.False(t, seen[tag], "duplicate tag %q", tag)
				seen[tag] = true
			}
		}
	}
}

func TestGenerateTags_TruncationPrefersDomainTags(t *testing.T) {
	g := NewGenerator()
	tags := g.GenerateTags(habitatText, Options{MaxTags: 2, IncludeDomain: true})
	assert.Equal(t, []string{"nasa", "planets"}, tags)

	tags = g.GenerateTags(habitatText, Options{MaxTags: 1, IncludeDomain: false})
	assert.Equal(t, []string{"mars"}, tags, "frequency keywords come next")
}

func TestGenerateTags_ZeroMax(t *testing.T) {
	tags := NewGenerator().GenerateTags(habitatText, Options{MaxTags: 0, IncludeDomain: true})
	assert.Empty(t, tags)
	assert.NotNil(t, tags)
}

func TestGenerateCategory(t *testing.T) {
	g := NewGenerator()
	tests := []struct {
		name string
		text string
		tags []string
		want string
	}{
		{name: "empty input", text: "", tags: nil, want: CategoryGeneral},
		{name: "domain order wins", text: "", tags: []string{"physics", "planets", "nasa"}, want: "nasa"},
		{name: "space before everything", text: "", tags: []string{"galaxy", "space"}, want: "space"},
		{name: "science cluster", text: "We ran an experiment.", tags: []string{"soil"}, want: "science"},
		{name: "mission cluster", text: "The launch window opens.", tags: nil, want: "mission"},
		{name: "technology cluster", text: "A cooling system failed.", tags: nil, want: "technology"},
		{name: "nothing matches", text: "Lunch was served at noon.", tags: []string{"lunch"}, want: CategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.GenerateCategory(tt.text, tt.tags)
			assert.NotEmpty(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDomainOrder(t *testing.T) {
	assert.Equal(t, []string{
		"space", "nasa", "astronomy", "planets", "mission",
		"technology", "science", "rocket", "galaxy", "physics",
	}, DomainOrder())
}

func TestDomainTags(t *testing.T) {
	assert.Equal(t, []string{"nasa", "planets", "science"}, DomainTags(habitatText))
	assert.Equal(t, []string{"galaxy"}, DomainTags("The Milky Way is bright."))
	assert.Empty(t, DomainTags(""))
}

func TestFrequency(t *testing.T) {
	got := Frequency(habitatText, 5)
	assert.Equal(t, []string{"mars", "habitat", "title", "study", "abstract"}, got)

	assert.Empty(t, Frequency("the and is a of", 5))
}

func TestWeighted(t *testing.T) {
	got := Weighted(habitatText, 3)
	assert.Equal(t, []string{"mars", "habitat", "mars mars"}, got, "ties break alphabetically")

	got = Weighted("solar wind solar wind", 2)
	assert.Equal(t, []string{"solar", "solar wind"}, got)
}

func TestEntities(t *testing.T) {
	text := "Jupiter Station orbit. Jupiter Station crew. Europa base. Io Io."
	assert.Equal(t, []string{"jupiter station"}, Entities(text))
	assert.Empty(t, Entities(habitatText))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "x-ray data snake_case 42", Clean("  X-Ray: DATA!!  snake_case\n42 "))
	assert.Equal(t, "", Clean("!!!"))
}

func TestEnrichForEmbedding(t *testing.T) {
	assert.Equal(t, "body\n\nKeywords: a, b\nCategory: science",
		EnrichForEmbedding("body", []string{"a", "b"}, "science"))
	assert.Equal(t, "body", EnrichForEmbedding("body", nil, ""))
}
