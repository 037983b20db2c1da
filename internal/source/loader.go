package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrEmptyFile is returned for files with no usable content.
var ErrEmptyFile = errors.New("file has no content")

// Contents is what a single file yields: an article array or one text
// document.
type Contents struct {
	Articles []Article
	Text     *TextDocument
}

// Loader reads ingestible files.
type Loader struct {
	markdown *MarkdownRenderer
}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{markdown: NewMarkdownRenderer()}
}

// Load reads f according to its kind.
func (l *Loader) Load(f ScannedFile) (Contents, error) {
	switch f.Kind {
	case KindArticles:
		articles, err := LoadArticlesFile(f.AbsPath)
		if err != nil {
			return Contents{}, err
		}
		return Contents{Articles: articles}, nil
	case KindText:
		doc, err := l.LoadText(f.AbsPath)
		if err != nil {
			return Contents{}, err
		}
		return Contents{Text: doc}, nil
	case KindMarkdown:
		doc, err := l.LoadMarkdown(f.AbsPath)
		if err != nil {
			return Contents{}, err
		}
		return Contents{Text: doc}, nil
	default:
		return Contents{}, fmt.Errorf("unsupported file kind %q", f.Kind)
	}
}

// LoadPath reads a single file, classifying it by extension.
func (l *Loader) LoadPath(path string) (Contents, error) {
	kind, ok := KindForPath(path)
	if !ok {
		return Contents{}, fmt.Errorf("unsupported file type: %s", path)
	}
	return l.Load(ScannedFile{Kind: kind, AbsPath: path, RelPath: filepath.Base(path)})
}

// LoadArticlesFile decodes an article JSON file.
func LoadArticlesFile(path string) ([]Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open articles file: %w", err)
	}
	defer f.Close()

	articles, err := DecodeArticles(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return articles, nil
}

// DecodeArticles accepts either a JSON array of articles or a single
// article object.
func DecodeArticles(r io.Reader) ([]Article, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, err
	}

	dec := json.NewDecoder(br)
	switch first {
	case '[':
		var articles []Article
		if err := dec.Decode(&articles); err != nil {
			return nil, err
		}
		return articles, nil
	case '{':
		var a Article
		if err := dec.Decode(&a); err != nil {
			return nil, err
		}
		return []Article{a}, nil
	default:
		return nil, fmt.Errorf("expected a JSON array or object, got %q", first)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if b == ' ' || b == '\n' || b == '\r' || b == '\t' {
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err
		}
		return b, nil
	}
}

// LoadText reads extracted PDF text. The title is the first non-empty
// line when it is short, else derived from the filename.
func (l *Loader) LoadText(path string) (*TextDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, []byte(" "))
	}
	body := string(data)
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyFile)
	}

	return &TextDocument{
		Title:          textTitle(body, path),
		SourceFilename: filepath.Base(path),
		Text:           body,
		SourceType:     TypePDF,
	}, nil
}

// LoadMarkdown reads a markdown file and renders it to plain text.
func (l *Loader) LoadMarkdown(path string) (*TextDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read markdown file: %w", err)
	}
	title, plain := l.markdown.Render(data, path)
	if plain == "" {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyFile)
	}
	return &TextDocument{
		Title:          title,
		SourceFilename: filepath.Base(path),
		Text:           plain,
		SourceType:     TypeMarkdown,
	}, nil
}

const maxTitleRunes = 200

func textTitle(body, path string) string {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) <= maxTitleRunes {
			return line
		}
		break
	}
	return titleFromFilename(path)
}
