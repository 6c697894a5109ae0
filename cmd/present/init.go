package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// deckScaffold holds the answers collected by the init wizard.
type deckScaffold struct {
	Title      string
	Author     string
	Theme      string
	Slides     int
	WithCharts bool
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// runInit scaffolds a new deck file through an interactive wizard.
func runInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing deck file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := fs.Arg(0)
	if path == "" {
		path = "deck.md"
	}
	if !strings.HasSuffix(path, ".md") {
		return usageError("deck path must end in .md")
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return usageError(fmt.Sprintf("%s already exists (use --force to overwrite)", path))
	}

	s := deckScaffold{
		Title:  "My Presentation",
		Theme:  "dark",
		Slides: 5,
	}
	slideCount := fmt.Sprintf("%d", s.Slides)

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Presentation title").
				Value(&s.Title).
				Placeholder("My Presentation"),
			huh.NewInput().
				Title("Author (optional)").
				Value(&s.Author),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&s.Theme),
			huh.NewInput().
				Title("Number of slides").
				Value(&slideCount).
				Validate(func(v string) error {
					n := 0
					if _, err := fmt.Sscanf(v, "%d", &n); err != nil || n < 1 || n > 99 {
						return fmt.Errorf("enter a number between 1 and 99")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Include sample chart slides?").
				Description("Adds a radar and a doughnut chart example").
				Value(&s.WithCharts),
		),
	)

	if err := form.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Cancelled: %v\n", err)
		return 1
	}
	fmt.Sscanf(slideCount, "%d", &s.Slides)

	if err := os.WriteFile(path, []byte(renderScaffold(s)), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing deck: %v\n", err)
		return 1
	}

	cols, _ := terminalSize()
	fmt.Printf("Created %s with %d slides.\n", path, countScaffoldSlides(s))
	if cols <= 80 {
		fmt.Println("Tip: widen your terminal past 80 columns for the full transition profile.")
	}
	fmt.Printf("Run: present %s\n", path)
	return 0
}

// renderScaffold produces the deck markdown: YAML front matter plus one
// section per slide, separated by --- lines.
func renderScaffold(s deckScaffold) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", s.Title)
	if s.Author != "" {
		fmt.Fprintf(&b, "author: %s\n", s.Author)
	}
	fmt.Fprintf(&b, "theme: %s\n", s.Theme)
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\nPress → or space to advance.\n", s.Title)

	for i := 2; i <= s.Slides; i++ {
		fmt.Fprintf(&b, "\n---\n\n## Slide %d\n\n- Point one\n- Point two\n", i)
	}

	if s.WithCharts {
		b.WriteString("\n---\n\n## Skills Radar\n\n:chart delivery-skills\n")
		b.WriteString("\n---\n\n## Where the Time Goes\n\n:chart time-allocation\n")
	}

	return b.String()
}

func countScaffoldSlides(s deckScaffold) int {
	n := s.Slides
	if s.WithCharts {
		n += 2
	}
	return n
}
