// Package chat holds the message list behind the chat screen.
package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/longkey1/agrochat/internal/agrochat"
)

const (
	// PlaceholderText is shown while a reply is pending.
	PlaceholderText = "Thinking..."
	// ServerErrorText is appended when a reply fails.
	ServerErrorText = "⚠️ Server error. Please try again."
)

// Request is a submitted message waiting for a reply.
type Request struct {
	ID   string // id of the placeholder to resolve
	Text string
}

// Panel is the ordered, append-only message list of one chat.
//
// At most one request is in flight: Submit refuses new input until the pending
// placeholder is resolved or failed, and replies for any other id are dropped.
type Panel struct {
	messages []agrochat.Message
	pending  string
	newID    func() string
	now      func() time.Time
}

// Option configures a Panel.
type Option func(*Panel)

// WithIDFunc overrides placeholder id generation.
func WithIDFunc(fn func() string) Option {
	return func(p *Panel) { p.newID = fn }
}

// WithClock overrides the timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(p *Panel) { p.now = fn }
}

// NewPanel returns an empty panel.
func NewPanel(opts ...Option) *Panel {
	p := &Panel{
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit appends the user message and a placeholder, returning the request to send.
// Empty or whitespace-only text, or a request already in flight, is a no-op (ok == false).
func (p *Panel) Submit(text string) (req Request, ok bool) {
	if strings.TrimSpace(text) == "" || p.pending != "" {
		return Request{}, false
	}

	id := p.newID()
	now := p.now()
	p.messages = append(p.messages,
		agrochat.Message{Sender: agrochat.SenderUser, Text: text, Timestamp: now},
		agrochat.Message{Sender: agrochat.SenderBot, Text: PlaceholderText, ID: id, Timestamp: now},
	)
	p.pending = id

	return Request{ID: id, Text: text}, true
}

// Resolve replaces the placeholder identified by id with text and clears its id.
// It returns false (and changes nothing) when id is not the pending request.
func (p *Panel) Resolve(id, text string) bool {
	i := p.pendingIndex(id)
	if i < 0 {
		return false
	}

	p.messages[i].Text = text
	p.messages[i].ID = ""
	p.pending = ""
	return true
}

// Fail appends ServerErrorText for the pending request identified by id.
// The placeholder keeps its "Thinking..." text but, unlike the web client which
// leaves it pending forever, loses its id: it can no longer be resolved and the
// panel accepts input again.
func (p *Panel) Fail(id string) bool {
	i := p.pendingIndex(id)
	if i < 0 {
		return false
	}

	p.messages[i].ID = ""
	p.pending = ""
	p.messages = append(p.messages, agrochat.Message{
		Sender:    agrochat.SenderBot,
		Text:      ServerErrorText,
		Timestamp: p.now(),
	})
	return true
}

// Reset empties the list and forgets the request in flight.
func (p *Panel) Reset() {
	p.messages = nil
	p.pending = ""
}

// InFlight reports whether a reply is pending.
func (p *Panel) InFlight() bool {
	return p.pending != ""
}

// Messages returns a copy of the list in display order.
func (p *Panel) Messages() []agrochat.Message {
	out := make([]agrochat.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

// Len returns the number of messages.
func (p *Panel) Len() int {
	return len(p.messages)
}

func (p *Panel) pendingIndex(id string) int {
	if id == "" || id != p.pending {
		return -1
	}
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].ID == id {
			return i
		}
	}
	return -1
}
