// Package markup renders the limited markdown used in bot replies.
//
// Text is sanitized first (terminal escape sequences and control characters are
// removed) and only then are two transformations applied: newlines become line
// breaks and **text** becomes bold. Nothing else is interpreted.
package markup

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Bold spans are matched non-greedily and may cross line breaks.
var boldPattern = regexp.MustCompile(`(?s)\*\*(.*?)\*\*`)

// Span is a run of text with uniform emphasis.
type Span struct {
	Text string
	Bold bool
}

// Line is one rendered line.
type Line []Span

// Parse sanitizes text and splits it into lines of spans.
func Parse(text string) []Line {
	text = Sanitize(text)

	var spans []Span
	last := 0
	for _, m := range boldPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Bold: true})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}

	lines := []Line{{}}
	for _, s := range spans {
		parts := strings.Split(s.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, Line{})
			}
			if part != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], Span{Text: part, Bold: s.Bold})
			}
		}
	}
	return lines
}

// Sanitize strips ANSI escape sequences and control characters other than newline and tab.
// Carriage returns are dropped so "\r\n" counts as a single break.
func Sanitize(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r <= 0x9f:
			return -1
		}
		return r
	}, text)
}

// Terminal renders text for the terminal, drawing bold spans with bold.
func Terminal(text string, bold lipgloss.Style) string {
	return render(Parse(text), "\n", func(s Span) string {
		if s.Bold {
			return bold.Render(s.Text)
		}
		return s.Text
	})
}

// Plain renders text without emphasis (markers removed).
func Plain(text string) string {
	return render(Parse(text), "\n", func(s Span) string {
		return s.Text
	})
}

// HTML renders text as an escaped HTML fragment using <strong> and <br />.
func HTML(text string) string {
	return render(Parse(text), "<br />", func(s Span) string {
		escaped := html.EscapeString(s.Text)
		if s.Bold {
			return "<strong>" + escaped + "</strong>"
		}
		return escaped
	})
}

func render(lines []Line, sep string, span func(Span) string) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		var sb strings.Builder
		for _, s := range line {
			sb.WriteString(span(s))
		}
		out[i] = sb.String()
	}
	return strings.Join(out, sep)
}
