// Package deck defines the slide deck model and its markdown loader.
//
// A deck is a single markdown file. Optional YAML front matter (title,
// author, theme) is delimited by "---" lines at the top; slides are
// separated by "---" lines after that. A slide may embed one chart with a
// directive line of the form ":chart <id>".
package deck

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kamilov2/presentation/pkg/metrics"
)

// Meta is the deck-level front matter.
type Meta struct {
	Title  string `yaml:"title,omitempty"`
	Author string `yaml:"author,omitempty"`
	Theme  string `yaml:"theme,omitempty"`
}

// Slide is one full-screen panel of presentation content. The collection is
// ordered and fixed after load; slides are read-only afterwards.
type Slide struct {
	Title   string // first heading, or "" if the slide has none
	Content string // markdown body with directives stripped
	ChartID string // embedded chart id, or "" if none
}

// Deck is an immutable, ordered collection of slides.
type Deck struct {
	Path   string
	Meta   Meta
	slides []Slide
}

// Len returns the number of slides.
func (d *Deck) Len() int {
	return len(d.slides)
}

// Slide returns the slide at index i. Panics on out-of-range access; callers
// navigate through nav.Controller which guarantees a valid index.
func (d *Deck) Slide(i int) Slide {
	return d.slides[i]
}

// Slides returns the slides in order. The returned slice must not be mutated.
func (d *Deck) Slides() []Slide {
	return d.slides
}

// Title returns the deck title, falling back to the file path.
func (d *Deck) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	return d.Path
}

// Load reads and parses a deck file.
func Load(path string) (*Deck, error) {
	defer metrics.Timer(metrics.DeckLoad)()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deck: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing deck %s: %w", path, err)
	}
	d.Path = path
	return d, nil
}

// Parse parses deck markdown into slides.
func Parse(data []byte) (*Deck, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var meta Meta
	body := text
	if rest, ok := strings.CutPrefix(text, "---\n"); ok {
		if head, tail, found := strings.Cut(rest, "\n---\n"); found {
			// A markdown heading is also a YAML comment, so a heading-only
			// first slide would unmarshal cleanly as a null document. The
			// block is only front matter when it is a non-empty mapping.
			// Anything else is treated as slide content, not an error: the
			// file may legitimately start with a separator.
			var fields map[string]any
			if err := yaml.Unmarshal([]byte(head), &fields); err == nil && len(fields) > 0 {
				if err := yaml.Unmarshal([]byte(head), &meta); err == nil {
					body = tail
				}
			}
		}
	}

	var slides []Slide
	for _, chunk := range splitSlides(body) {
		s := parseSlide(chunk)
		if strings.TrimSpace(s.Content) == "" && s.ChartID == "" {
			continue
		}
		slides = append(slides, s)
	}

	if len(slides) == 0 {
		return nil, fmt.Errorf("deck contains no slides")
	}

	return &Deck{Meta: meta, slides: slides}, nil
}

// splitSlides splits the body on separator lines. A separator is a line that
// is exactly "---" after trimming trailing spaces; separators inside fenced
// code blocks are ignored.
func splitSlides(body string) []string {
	var chunks []string
	var cur strings.Builder
	inFence := false

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
		}
		if trimmed == "---" && !inFence {
			chunks = append(chunks, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	chunks = append(chunks, cur.String())
	return chunks
}

// parseSlide extracts the title and chart directive from one slide chunk.
func parseSlide(chunk string) Slide {
	var s Slide
	var content []string

	for _, line := range strings.Split(chunk, "\n") {
		trimmed := strings.TrimSpace(line)
		if id, ok := strings.CutPrefix(trimmed, ":chart "); ok {
			// Last directive wins; one chart per slide.
			s.ChartID = strings.TrimSpace(id)
			continue
		}
		if s.Title == "" {
			if h := strings.TrimLeft(trimmed, "#"); h != trimmed {
				s.Title = strings.TrimSpace(h)
			}
		}
		content = append(content, line)
	}

	s.Content = strings.TrimSpace(strings.Join(content, "\n"))
	return s
}
