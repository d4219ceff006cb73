package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/longkey1/agrochat/internal/agrochat"
	"github.com/longkey1/agrochat/internal/chat"
	"github.com/longkey1/agrochat/internal/markup"
	"github.com/longkey1/agrochat/internal/upload"
)

const helpText = `Commands:
  /upload <path>  attach a leaf image (Plant Doctor)
  /remove         remove the attached image
  /back           back to the agent list (esc)
  /help           toggle this help
  /quit           exit (ctrl+c)`

// chatScreen is the conversation with one agent. The upload control lives here
// directly: the screen reads its state and resets it without any registration.
type chatScreen struct {
	agent    agrochat.Agent
	panel    *chat.Panel
	upload   *upload.Control // nil unless the agent accepts images
	imageURL string          // last URL reported by the upload control

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	notice   string
	showHelp bool

	width  int
	height int
}

func newChatScreen(agent agrochat.Agent, previewWidth int) *chatScreen {
	in := textinput.New()
	in.Placeholder = "Type your message..."
	in.Prompt = ""
	in.CharLimit = 0
	in.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(agent.Palette.From))

	c := &chatScreen{
		agent:    agent,
		panel:    chat.NewPanel(),
		input:    in,
		viewport: viewport.New(80, 10),
		spinner:  s,
	}
	if agent.AcceptsImages {
		c.upload = upload.NewControl(previewWidth)
	}
	return c
}

// close releases everything the screen owns. The message list is dropped with it.
func (c *chatScreen) close() {
	c.panel.Reset()
	if c.upload != nil {
		if err := c.upload.Close(); err != nil {
			slog.Warn("Could not release preview", "error", err)
		}
	}
}

func (c *chatScreen) setSize(width, height int) {
	c.width = width
	c.height = height
	c.refresh()
}

// submit sends the current input. ok is false when nothing was sent.
func (c *chatScreen) submit(forwardImage bool) (req chat.Request, imageURL string, ok bool) {
	req, ok = c.panel.Submit(c.input.Value())
	if !ok {
		if c.panel.InFlight() {
			c.notice = "Still waiting for the previous reply..."
		}
		return chat.Request{}, "", false
	}

	c.input.Reset()
	c.notice = ""
	if forwardImage && c.upload != nil {
		imageURL = c.imageURL
		c.imageURL = c.upload.Reset()
	}
	c.refresh()
	return req, imageURL, true
}

func (c *chatScreen) applyReply(msg replyMsg) {
	var applied bool
	if msg.err != nil {
		slog.Error("Recommendation request failed", "agent", c.agent.ID, "error", msg.err)
		applied = c.panel.Fail(msg.id)
	} else {
		applied = c.panel.Resolve(msg.id, msg.text)
	}
	if !applied {
		slog.Debug("Discarding stale reply", "id", msg.id)
	}
	c.refresh()
}

// selectFile starts an upload of the file at path.
func (c *chatScreen) selectFile(path string) (upload.Job, bool) {
	if c.upload == nil {
		c.notice = fmt.Sprintf("Image upload is not available for the %s.", c.agent.Name)
		return upload.Job{}, false
	}
	if path == "" {
		c.notice = "Usage: /upload <path>"
		return upload.Job{}, false
	}

	job, err := c.upload.Select(expandHome(path))
	if err != nil {
		c.imageURL = ""
		c.refresh()
		return upload.Job{}, false
	}
	c.notice = ""
	c.refresh()
	return job, true
}

func (c *chatScreen) applyUpload(msg uploadDoneMsg) {
	if c.upload == nil {
		return
	}
	reported, applied := c.upload.Finish(msg.job, msg.url, msg.err)
	if !applied {
		return
	}
	c.imageURL = reported
	if reported != "" {
		slog.Info("Image uploaded", "name", msg.job.Name, "image_url", reported)
	}
	c.refresh()
}

func (c *chatScreen) removeImage() {
	if c.upload == nil {
		c.notice = fmt.Sprintf("Image upload is not available for the %s.", c.agent.Name)
		return
	}
	c.imageURL = c.upload.Reset()
	c.refresh()
}

// refresh lays the screen out again and re-renders the message list.
func (c *chatScreen) refresh() {
	if c.width > 0 {
		c.input.Width = max(c.width-lipgloss.Width(SendButton(false))-6, 10)
		c.viewport.Width = c.width
	}
	if c.height > 0 {
		c.viewport.Height = max(c.height-lipgloss.Height(c.chrome()), 3)
	}
	c.viewport.SetContent(c.renderMessages())
	c.viewport.GotoBottom()
}

func (c *chatScreen) view() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		c.header(),
		c.viewport.View(),
		c.footer(),
	)
}

// chrome is everything around the viewport, used to size it.
func (c *chatScreen) chrome() string {
	return lipgloss.JoinVertical(lipgloss.Left, c.header(), c.footer())
}

func (c *chatScreen) header() string {
	back := faintStyle.Render("← Back to Agents (esc)")
	title := boldStyle.Foreground(lipgloss.Color(c.agent.Palette.To)).Render(c.agent.Icon + " " + c.agent.Name)
	return lipgloss.JoinVertical(lipgloss.Left, back, title, "")
}

func (c *chatScreen) footer() string {
	var parts []string
	if c.upload != nil {
		parts = append(parts, c.renderUpload())
	}

	row := lipgloss.JoinHorizontal(lipgloss.Center,
		inputStyle.Render(c.input.View()),
		" ",
		SendButton(strings.TrimSpace(c.input.Value()) != ""),
	)
	parts = append(parts, row)

	if c.notice != "" {
		parts = append(parts, faintStyle.Render(c.notice))
	}
	if c.showHelp {
		parts = append(parts, faintStyle.Render(helpText))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c *chatScreen) renderUpload() string {
	st := c.upload.State()
	p := c.upload.Preview()

	if p == nil {
		line := faintStyle.Render("📎 /upload <path> to attach a leaf image")
		if st.Err != "" {
			line = lipgloss.JoinHorizontal(lipgloss.Top, line, "  ", errorStyle.Render(st.Err))
		}
		return line
	}

	var status string
	switch {
	case st.Uploading:
		status = c.spinner.View() + " Uploading..."
	case st.Err != "":
		status = errorStyle.Render(st.Err)
	default:
		status = faintStyle.Render("✓ uploaded · /remove to clear")
	}

	lines := append([]string{}, p.Lines()...)
	lines = append(lines, p.Label(), status)
	return uploadBoxStyle.Render(strings.Join(lines, "\n"))
}

func (c *chatScreen) renderMessages() string {
	width := c.viewport.Width
	msgs := c.panel.Messages()
	if len(msgs) == 0 {
		empty := faintStyle.Render(fmt.Sprintf("Start chatting with the %s 👋", c.agent.Name))
		return lipgloss.Place(width, max(c.viewport.Height, 1), lipgloss.Center, lipgloss.Center, empty)
	}

	maxBubble := max(width*3/4, 10)
	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch {
		case m.Sender == agrochat.SenderUser:
			bubble := renderBubble(userBubbleStyle, markup.Sanitize(m.Text), maxBubble)
			stamp := faintStyle.Render(m.Timestamp.Format("15:04"))
			blocks = append(blocks,
				lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble),
				lipgloss.PlaceHorizontal(width, lipgloss.Right, stamp),
			)
		case m.IsPlaceholder():
			text := c.spinner.View() + " " + markup.Sanitize(m.Text)
			blocks = append(blocks, renderBubble(botBubbleStyle, text, maxBubble))
		default:
			text := markup.Terminal(m.Text, boldStyle)
			blocks = append(blocks, renderBubble(botBubbleStyle, text, maxBubble))
		}
		blocks = append(blocks, "")
	}
	return strings.Join(blocks, "\n")
}

func renderBubble(style lipgloss.Style, text string, maxWidth int) string {
	w := lipgloss.Width(text) + style.GetHorizontalFrameSize()
	if w > maxWidth {
		w = maxWidth
	}
	return style.Width(w).Render(text)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// busy reports whether something on screen is animating.
func (c *chatScreen) busy() bool {
	return c.panel.InFlight() || (c.upload != nil && c.upload.State().Uploading)
}
