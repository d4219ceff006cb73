package agrochat

import "time"

// Sender identifies who authored a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a single entry in the chat list
type Message struct {
	Sender    Sender    // "user" or "bot"
	Text      string    // Raw text; bot text is rendered through the markup package
	ID        string    // Set only while the message is a pending placeholder
	Timestamp time.Time // When the entry was appended
}

// IsPlaceholder reports whether the message is still waiting for a response.
func (m Message) IsPlaceholder() bool {
	return m.ID != ""
}
