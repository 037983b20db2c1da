package tagging

// domainCategory is one entry of the fixed domain map. Order matters:
// GenerateCategory returns the first category found in the tags.
type domainCategory struct {
	Name     string
	Keywords []string
}

// domainCategories is the ordered domain keyword map.
var domainCategories = []domainCategory{
	{Name: "space", Keywords: []string{"space", "spacecraft", "orbital", "satellite", "cosmos", "universe"}},
	{Name: "nasa", Keywords: []string{"nasa", "agency", "administration", "aeronautics"}},
	{Name: "astronomy", Keywords: []string{"astronomy", "astronomical", "telescope", "observatory", "celestial"}},
	{Name: "planets", Keywords: []string{"planet", "mars", "jupiter", "saturn", "venus", "mercury", "neptune", "uranus", "earth"}},
	{Name: "mission", Keywords: []string{"mission", "expedition", "voyage", "exploration", "probe"}},
	{Name: "technology", Keywords: []string{"technology", "engineering", "system", "instrument", "equipment"}},
	{Name: "science", Keywords: []string{"science", "scientific", "research", "study", "discovery", "data"}},
	{Name: "rocket", Keywords: []string{"rocket", "launch", "booster", "propulsion"}},
	{Name: "galaxy", Keywords: []string{"galaxy", "galaxies", "milky way", "nebula", "star", "stars"}},
	{Name: "physics", Keywords: []string{"physics", "quantum", "gravity", "relativity", "energy"}},
}

// fallbackClusters map free-text keywords to a category when no domain tag applies.
var fallbackClusters = []domainCategory{
	{Name: "science", Keywords: []string{"research", "study", "data", "experiment"}},
	{Name: "mission", Keywords: []string{"mission", "launch", "expedition"}},
	{Name: "technology", Keywords: []string{"technology", "system", "engineering"}},
}

// CategoryGeneral is returned when nothing more specific matches.
const CategoryGeneral = "general"

// DomainOrder returns the domain category names in priority order.
func DomainOrder() []string {
	names := make([]string, len(domainCategories))
	for i, c := range domainCategories {
		names[i] = c.Name
	}
	return names
}

var stopWords = toSet(
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "i",
	"it", "for", "not", "on", "with", "he", "as", "you", "do", "at",
	"this", "but", "his", "by", "from", "they", "we", "say", "her", "she",
	"or", "an", "will", "my", "one", "all", "would", "there", "their",
	"what", "so", "up", "out", "if", "about", "who", "get", "which", "go",
	"me", "when", "make", "can", "like", "time", "no", "just", "him", "know",
	"take", "people", "into", "year", "your", "good", "some", "could", "them",
	"see", "other", "than", "then", "now", "look", "only", "come", "its", "over",
	"think", "also", "back", "after", "use", "two", "how", "our", "work",
	"first", "well", "way", "even", "new", "want", "because", "any", "these",
	"give", "day", "most", "us", "is", "was", "are", "been", "has", "had",
	"were", "said", "did", "having", "may", "should", "am", "being", "does",
)

// weightingStopWords extends stopWords with common function words that the
// unigram/bigram weighting pass should never surface.
var weightingStopWords = union(stopWords, toSet(
	"were", "while", "where", "whose", "within", "without", "between", "during",
	"each", "both", "such", "very", "more", "less", "through", "under", "upon",
	"here", "those", "there", "again", "once", "same", "own", "too", "nor",
	"off", "down", "above", "below", "per", "via", "et", "al",
))

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func union(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		out[k] = struct{}{}
	}
	for k := range b {
		out[k] = struct{}{}
	}
	return out
}
