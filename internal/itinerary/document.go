package itinerary

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// BlockKind is the role of a line in the printable document.
type BlockKind string

const (
	BlockHeading BlockKind = "heading"
	BlockBullet  BlockKind = "bullet"
	BlockBody    BlockKind = "body"
)

// Block is one logical paragraph of the itinerary.
type Block struct {
	Kind BlockKind
	Text string
}

var (
	markdownHeading = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	numberedHeading = regexp.MustCompile(`^(\d+)\.\s+\*\*(.+?)\*\*:?\s*(.*)$`)
	boldLine        = regexp.MustCompile(`^\*\*(.+)\*\*:?$`)
	bulletPrefix    = regexp.MustCompile(`^(?:[-*•]|\d+\))\s+`)
)

func stripEmphasis(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "**", ""))
}

func isRule(line string) bool {
	if len(line) < 3 {
		return false
	}
	return strings.Trim(line, "-") == "" || strings.Trim(line, "*") == "" || strings.Trim(line, "_") == ""
}

// ParseDocument splits generated text into headings, bullets and body
// paragraphs. Blank lines and horizontal rules are dropped and bold markers
// removed.
func ParseDocument(text string) []Block {
	var blocks []Block
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isRule(line) {
			continue
		}

		if m := markdownHeading.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, Block{Kind: BlockHeading, Text: stripEmphasis(m[1])})
			continue
		}
		if m := numberedHeading.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, Block{Kind: BlockHeading, Text: m[1] + ". " + stripEmphasis(m[2])})
			if rest := stripEmphasis(m[3]); rest != "" {
				blocks = append(blocks, Block{Kind: BlockBody, Text: rest})
			}
			continue
		}
		if m := boldLine.FindStringSubmatch(line); m != nil {
			blocks = append(blocks, Block{Kind: BlockHeading, Text: stripEmphasis(m[1])})
			continue
		}
		if loc := bulletPrefix.FindStringIndex(line); loc != nil {
			blocks = append(blocks, Block{Kind: BlockBullet, Text: stripEmphasis(line[loc[1]:])})
			continue
		}
		blocks = append(blocks, Block{Kind: BlockBody, Text: stripEmphasis(line)})
	}
	return blocks
}

// Line is one printed line of a page.
type Line struct {
	Kind BlockKind
	Text string
}

// Page is a fixed-height slice of the laid-out document.
type Page struct {
	Number int
	Lines  []Line
}

const (
	bulletLead = "  • "
	bulletCont = "    "
)

// wrap breaks text into lines no wider than width display columns. Words
// wider than the line are placed on a line of their own.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(w) > width {
			lines = append(lines, current)
			current = w
			continue
		}
		current += " " + w
	}
	return append(lines, current)
}

func layout(blocks []Block, width int) []Line {
	var lines []Line
	for i, b := range blocks {
		switch b.Kind {
		case BlockHeading:
			if i > 0 {
				lines = append(lines, Line{Kind: BlockBody})
			}
			for _, l := range wrap(b.Text, width) {
				lines = append(lines, Line{Kind: BlockHeading, Text: l})
			}
		case BlockBullet:
			inner := width - runewidth.StringWidth(bulletLead)
			for j, l := range wrap(b.Text, inner) {
				prefix := bulletCont
				if j == 0 {
					prefix = bulletLead
				}
				lines = append(lines, Line{Kind: BlockBullet, Text: prefix + l})
			}
		default:
			for _, l := range wrap(b.Text, width) {
				lines = append(lines, Line{Kind: BlockBody, Text: l})
			}
		}
	}
	return lines
}

// Paginate lays blocks out at width columns and cuts the result into pages
// of linesPerPage lines. A heading, including all of its wrapped lines, is
// never left at the bottom of a page when it fits on the next one, and pages
// never start or end with a blank line.
func Paginate(blocks []Block, width, linesPerPage int) []Page {
	if width < 20 {
		width = 20
	}
	if linesPerPage < 2 {
		linesPerPage = 2
	}

	var pages []Page
	var current []Line
	flush := func() {
		for len(current) > 0 && isBlank(current[len(current)-1]) {
			current = current[:len(current)-1]
		}
		if len(current) > 0 {
			pages = append(pages, Page{Number: len(pages) + 1, Lines: current})
		}
		current = nil
	}

	lines := layout(blocks, width)
	for i, l := range lines {
		if isBlank(l) {
			if len(current) == 0 || len(current) == linesPerPage {
				continue
			}
			current = append(current, l)
			continue
		}

		if l.Kind == BlockHeading && (i == 0 || lines[i-1].Kind != BlockHeading) {
			run := headingRun(lines, i)
			followed := i+run < len(lines)
			if len(current) > 0 && followed && run < linesPerPage && len(current)+run >= linesPerPage {
				flush()
			}
		}
		if len(current) == linesPerPage {
			flush()
		}
		current = append(current, l)
	}
	flush()
	return pages
}

func isBlank(l Line) bool {
	return l.Kind == BlockBody && l.Text == ""
}

// headingRun counts the wrapped heading lines starting at i.
func headingRun(lines []Line, i int) int {
	n := 0
	for i+n < len(lines) && lines[i+n].Kind == BlockHeading {
		n++
	}
	return n
}

// RenderPages writes pages as plain text. Headings are upper-cased, each
// page ends with a "Page N of M" footer and pages are separated by a form
// feed.
func RenderPages(w io.Writer, pages []Page) error {
	for i, p := range pages {
		if i > 0 {
			if _, err := io.WriteString(w, "\f\n"); err != nil {
				return err
			}
		}
		for _, l := range p.Lines {
			text := l.Text
			if l.Kind == BlockHeading {
				text = strings.ToUpper(text)
			}
			if _, err := fmt.Fprintln(w, text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "\nPage %d of %d\n", p.Number, len(pages)); err != nil {
			return err
		}
	}
	return nil
}

// Markdown renders blocks back to clean markdown for export.
func Markdown(title string, blocks []Block) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	for i, blk := range blocks {
		switch blk.Kind {
		case BlockHeading:
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "## %s\n\n", blk.Text)
		case BlockBullet:
			fmt.Fprintf(&b, "- %s\n", blk.Text)
		default:
			fmt.Fprintf(&b, "%s\n", blk.Text)
		}
	}
	return b.String()
}
