// Package tui is the interactive terminal front end: an agent picker and the
// chat screen for the chosen agent.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/agrochat/internal/agrochat"
)

// Options configures the program.
type Options struct {
	Recommender Recommender
	Uploader    Uploader
	// AgentID opens the chat with this agent directly when set.
	AgentID string
	// ForwardImageURL sends the uploaded image URL along with the next message.
	ForwardImageURL bool
	PreviewWidth    int
}

// Model is the root bubbletea model.
type Model struct {
	ctx  context.Context
	opts Options
	keys keyMap
	help help.Model

	selector selector
	chat     *chatScreen // nil while the picker is shown
	quitting bool

	width  int
	height int
}

// New returns the root model. An unknown Options.AgentID is an error.
func New(ctx context.Context, opts Options) (Model, error) {
	if opts.Recommender == nil {
		return Model{}, errors.New("tui: recommender is required")
	}

	m := Model{
		ctx:      ctx,
		opts:     opts,
		keys:     defaultKeyMap(),
		help:     help.New(),
		selector: newSelector(agrochat.Agents()),
	}

	if opts.AgentID != "" {
		agent, err := agrochat.FindAgent(opts.AgentID)
		if err != nil {
			return Model{}, err
		}
		for i, a := range m.selector.agents {
			if a.ID == agent.ID {
				m.selector.cursor = i
			}
		}
		m.openChat()
	}
	return m, nil
}

// Selected returns the id of the agent being chatted with, or "".
func (m Model) Selected() string {
	return m.selector.selected
}

// Close releases resources held by the open chat, if any.
func (m Model) Close() {
	if m.chat != nil {
		m.chat.close()
	}
}

func (m Model) Init() tea.Cmd {
	if m.chat != nil {
		return tea.Batch(m.chat.input.Focus(), m.chat.spinner.Tick)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.chat != nil {
			m.chat.setSize(msg.Width, m.chatHeight())
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.chat == nil {
			return m.updateSelector(msg)
		}
		return m.updateChat(msg)

	case replyMsg:
		if m.chat != nil {
			m.chat.applyReply(msg)
		}
		return m, nil

	case uploadDoneMsg:
		if m.chat != nil {
			m.chat.applyUpload(msg)
		}
		return m, nil

	case spinner.TickMsg:
		if m.chat == nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.chat.spinner, cmd = m.chat.spinner.Update(msg)
		if m.chat.busy() {
			m.chat.refresh()
		}
		return m, cmd
	}

	if m.chat != nil {
		var cmd tea.Cmd
		m.chat.input, cmd = m.chat.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.selector.move(-1)
	case key.Matches(msg, m.keys.Next):
		m.selector.move(1)
	case key.Matches(msg, m.keys.Select):
		return m, m.openChat()
	case m.selector.pick(msg.String()):
		return m, m.openChat()
	}
	return m, nil
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.closeChat()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.chat.viewport.HalfPageUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.chat.viewport.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.Send):
		if strings.HasPrefix(strings.TrimSpace(m.chat.input.Value()), "/") {
			return m.handleCommand(strings.TrimSpace(m.chat.input.Value()))
		}
		req, imageURL, ok := m.chat.submit(m.opts.ForwardImageURL)
		if !ok {
			return m, nil
		}
		slog.Debug("Sending message", "agent", m.chat.agent.ID, "id", req.ID, "image_url", imageURL)
		return m, recommendCmd(m.ctx, m.opts.Recommender, req, imageURL)
	}

	var cmd tea.Cmd
	m.chat.input, cmd = m.chat.input.Update(msg)
	m.chat.refresh()
	return m, cmd
}

func (m Model) handleCommand(line string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	m.chat.input.Reset()
	m.chat.notice = ""

	switch strings.ToLower(name) {
	case "/help":
		m.chat.showHelp = !m.chat.showHelp
	case "/back":
		m.closeChat()
		return m, nil
	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit
	case "/upload":
		if m.opts.Uploader == nil {
			m.chat.notice = "Image upload is not configured."
			break
		}
		if job, ok := m.chat.selectFile(arg); ok {
			return m, uploadCmd(m.ctx, m.opts.Uploader, job)
		}
	case "/remove":
		m.chat.removeImage()
	default:
		m.chat.notice = fmt.Sprintf("Unknown command: %s (type '/help' for available commands)", name)
	}
	m.chat.refresh()
	return m, nil
}

// openChat routes to the chat screen of the agent under the cursor.
func (m *Model) openChat() tea.Cmd {
	agent := m.selector.current()
	m.selector.selected = agent.ID
	m.chat = newChatScreen(agent, m.opts.PreviewWidth)
	if m.width > 0 {
		m.chat.setSize(m.width, m.chatHeight())
	} else {
		m.chat.refresh()
	}
	slog.Debug("Opened chat", "agent", agent.ID)
	return tea.Batch(m.chat.input.Focus(), m.chat.spinner.Tick)
}

// closeChat returns to the picker. The conversation is not kept.
func (m *Model) closeChat() {
	if m.chat != nil {
		m.chat.close()
	}
	m.chat = nil
	m.selector.selected = ""
}

func (m Model) chatHeight() int {
	return max(m.height-lipgloss.Height(m.helpView()), 1)
}

func (m Model) helpView() string {
	if m.chat != nil {
		return m.help.ShortHelpView(m.keys.chatHelp())
	}
	return m.help.ShortHelpView(m.keys.selectorHelp())
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	if m.chat != nil {
		body = m.chat.view()
	} else {
		body = m.selector.view(m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.helpView())
}

// Run starts the program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, opts Options) error {
	m, err := New(ctx, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	} else {
		m.Close()
	}
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}
