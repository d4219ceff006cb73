// Package agrochat provides the core types shared by the chat client.
// This package defines the static agent catalog and the Message type that the
// chat panel, the renderers and the terminal UI pass around.
package agrochat

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAgent is returned when an agent id is not part of the catalog.
var ErrUnknownAgent = errors.New("unknown agent")

// Palette is the pair of colors an agent card is drawn with (hex, from -> to).
type Palette struct {
	From string
	To   string
}

// Agent is a read-only chat persona the user can pick.
type Agent struct {
	ID            string  // Stable identifier (e.g., "crop")
	Name          string  // Display name
	Icon          string  // Single glyph shown next to the name
	Palette       Palette // Card colors
	Description   string  // One line shown on the selector card
	AcceptsImages bool    // Whether the chat screen offers the upload control
}

var agents = []Agent{
	{
		ID:          "llm",
		Name:        "LLM Assistant",
		Icon:        "🧠",
		Palette:     Palette{From: "#a855f7", To: "#4f46e5"},
		Description: "Ask general questions, get explanations, or reasoning support.",
	},
	{
		ID:          "crop",
		Name:        "Crop Advisor",
		Icon:        "🌱",
		Palette:     Palette{From: "#22c55e", To: "#059669"},
		Description: "Get personalized crop recommendations using soil & environment data.",
	},
	{
		ID:            "disease",
		Name:          "Plant Doctor",
		Icon:          "🍃",
		Palette:       Palette{From: "#eab308", To: "#ea580c"},
		Description:   "Upload a leaf image to detect plant diseases instantly.",
		AcceptsImages: true,
	},
}

// Agents returns the agent catalog in display order.
// The returned slice is a copy; the catalog itself is never mutated.
func Agents() []Agent {
	out := make([]Agent, len(agents))
	copy(out, agents)
	return out
}

// FindAgent looks up an agent by id (case-insensitive, surrounding spaces ignored).
//
// Example:
//
//	agent, err := FindAgent("crop")
//	// agent.Name = "Crop Advisor"
func FindAgent(id string) (Agent, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	for _, a := range agents {
		if a.ID == key {
			return a, nil
		}
	}
	return Agent{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownAgent, id, strings.Join(AgentIDs(), ", "))
}

// AgentIDs returns the ids of all agents in display order.
func AgentIDs() []string {
	ids := make([]string, len(agents))
	for i, a := range agents {
		ids[i] = a.ID
	}
	return ids
}
