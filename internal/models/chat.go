package models

import "time"

// Role tags a message in the transcript or in the provider conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of the builder transcript.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Message is the role-tagged form sent over the wire and to the provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Mode is a task hint that adjusts the system prompt.
type Mode string

const (
	ModeChat     Mode = "chat"
	ModeGenerate Mode = "generate"
	ModeFix      Mode = "fix"
	ModeRefactor Mode = "refactor"
	ModeExplain  Mode = "explain"
	// ModeTests asks for tests. It adds no prompt instructions.
	ModeTests Mode = "tests"
)

// Modes lists the known modes in display order.
var Modes = []Mode{ModeChat, ModeGenerate, ModeFix, ModeRefactor, ModeExplain, ModeTests}

// Known reports whether m is one of the enumerated modes.
func (m Mode) Known() bool {
	for _, k := range Modes {
		if m == k {
			return true
		}
	}
	return false
}
