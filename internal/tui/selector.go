package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/agrochat/internal/agrochat"
)

// selector is the agent picker. selected is the only routing state in the
// program: empty while the picker is shown, an agent id while chatting.
type selector struct {
	agents   []agrochat.Agent
	cursor   int
	selected string
}

func newSelector(agents []agrochat.Agent) selector {
	return selector{agents: agents}
}

func (s *selector) move(delta int) {
	n := len(s.agents)
	if n == 0 {
		return
	}
	s.cursor = ((s.cursor+delta)%n + n) % n
}

// pick moves the cursor to the agent at the 1-based position typed by the user.
func (s *selector) pick(digit string) bool {
	if len(digit) != 1 || digit[0] < '1' || digit[0] > '9' {
		return false
	}
	i := int(digit[0] - '1')
	if i >= len(s.agents) {
		return false
	}
	s.cursor = i
	return true
}

func (s selector) current() agrochat.Agent {
	return s.agents[s.cursor]
}

func (s selector) view(width int) string {
	cards := make([]string, len(s.agents))
	for i, a := range s.agents {
		cards[i] = renderCard(a, i == s.cursor)
	}

	var grid string
	if width > 0 && width < len(cards)*(lipgloss.Width(cards[0])+1) {
		grid = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		grid = lipgloss.JoinHorizontal(lipgloss.Top, withGaps(cards)...)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Choose Your AI Agent"),
		grid,
	)
}

func renderCard(a agrochat.Agent, focused bool) string {
	style := cardStyle.BorderForeground(lipgloss.Color(a.Palette.From))
	if focused {
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color(a.Palette.To))
	}

	name := boldStyle.Foreground(lipgloss.Color(a.Palette.To)).Render(a.Name)
	body := strings.Join([]string{a.Icon, name, faintStyle.Render(a.Description)}, "\n\n")
	return style.Render(body)
}

func withGaps(blocks []string) []string {
	out := make([]string, 0, len(blocks)*2)
	for i, b := range blocks {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, b)
	}
	return out
}
