package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleMarkdown = "# Mars Habitat\n\n" +
	"Intro paragraph\ncontinues here.\n\n" +
	"## Methods\n\n" +
	"- first item\n- second *item*\n\n" +
	"| Col A | Col B |\n|-------|-------|\n| 1     | 2     |\n\n" +
	"```go\ncode line\n```\n"

func TestMarkdownRenderer_Render(t *testing.T) {
	r := NewMarkdownRenderer()

	title, plain := r.Render([]byte(sampleMarkdown), "notes/mars.md")

	assert.Equal(t, "Mars Habitat", title)
	assert.Equal(t,
		"Mars Habitat\n\n"+
			"Intro paragraph continues here.\n\n"+
			"Methods\n\n"+
			"first item\n\n"+
			"second item\n\n"+
			"Col A | Col B\n1 | 2\n\n"+
			"code line",
		plain)
}

func TestMarkdownRenderer_Title(t *testing.T) {
	r := NewMarkdownRenderer()

	tests := []struct {
		name     string
		content  string
		filename string
		want     string
	}{
		{name: "first h1", content: "## Sub\n\n# Main\n", filename: "x.md", want: "Main"},
		{name: "h2 fallback", content: "text\n\n## Only Sub\n", filename: "x.md", want: "Only Sub"},
		{name: "filename fallback", content: "just text", filename: "dir/solar-wind_notes.md", want: "Solar Wind Notes"},
		{name: "empty content", content: "  \n", filename: "empty-file.md", want: "Empty File"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, _ := r.Render([]byte(tt.content), tt.filename)
			assert.Equal(t, tt.want, title)
		})
	}
}

func TestMarkdownRenderer_PlainText(t *testing.T) {
	r := NewMarkdownRenderer()

	assert.Equal(t, "", r.PlainText("   "))
	assert.Equal(t, "Results show no change.", r.PlainText("Results show **no** change."))
	assert.Equal(t, "Intro\n\nSee https://nasa.gov now.", r.PlainText("Intro\n\nSee <https://nasa.gov> now."))
	assert.Equal(t, "Plain section with no markup.", r.PlainText("Plain section with no markup."))
}
