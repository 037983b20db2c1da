package source

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownRenderer converts markdown to plain text using the goldmark AST.
// Headings, paragraphs, list items, code blocks and tables become separate
// blocks joined by a blank line. Table cells are joined with " | ".
type MarkdownRenderer struct {
	parser goldmark.Markdown
}

// NewMarkdownRenderer creates a renderer with table support.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Render returns the document title and its plain text. The title is the
// first level-1 heading, else the first level-2 heading, else the filename.
func (r *MarkdownRenderer) Render(content []byte, filename string) (title string, plain string) {
	if len(bytes.TrimSpace(content)) == 0 {
		return titleFromFilename(filename), ""
	}
	doc := r.parser.Parser().Parse(text.NewReader(content))
	title = extractTitle(doc, content, filename)
	return title, strings.Join(collectBlocks(doc, content), "\n\n")
}

// PlainText renders a markdown fragment, such as one article section.
func (r *MarkdownRenderer) PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	content := []byte(fragment)
	doc := r.parser.Parser().Parse(text.NewReader(content))
	return strings.Join(collectBlocks(doc, content), "\n\n")
}

func collectBlocks(doc ast.Node, content []byte) []string {
	var blocks []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			blocks = append(blocks, s)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			add(inlineText(node, content))
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			var b strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.Write(line.Value(content))
			}
			add(b.String())
			return ast.WalkSkipChildren, nil

		case *east.Table:
			var rows []string
			for row := node.FirstChild(); row != nil; row = row.NextSibling() {
				if r := tableRowText(row, content); r != "" {
					rows = append(rows, r)
				}
			}
			add(strings.Join(rows, "\n"))
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// inlineText flattens the inline content of a block. Line breaks become
// single spaces.
func inlineText(n ast.Node, content []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.AutoLink:
			b.Write(v.Label(content))
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

func tableRowText(row ast.Node, content []byte) string {
	var cells []string
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		cells = append(cells, inlineText(cell, content))
	}
	return strings.TrimSpace(strings.Join(cells, " | "))
}

// extractTitle returns the first # heading, else the first ## heading,
// else a title derived from the filename.
func extractTitle(doc ast.Node, content []byte, filename string) string {
	var firstH1, firstH2 string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok {
			headingText := inlineText(heading, content)
			if heading.Level == 1 && firstH1 == "" {
				firstH1 = headingText
			} else if heading.Level == 2 && firstH2 == "" && firstH1 == "" {
				firstH2 = headingText
			}
			if firstH1 != "" {
				return ast.WalkStop, nil
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	if firstH1 != "" {
		return firstH1
	}
	if firstH2 != "" {
		return firstH2
	}
	return titleFromFilename(filename)
}

// titleFromFilename drops the extension, treats '-' and '_' as spaces and
// capitalizes each word.
func titleFromFilename(filename string) string {
	name := filepath.Base(filename)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
