package domain

import (
	"fmt"
	"time"
)

// Chat turn roles. A role is recorded once and never reinterpreted.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatTurn is a single message exchanged by either side of a conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Window returns the trailing n turns of history. It is purely a size
// bound: the most recent turns are kept, the oldest dropped, order
// untouched.
func Window(history []ChatTurn, n int) []ChatTurn {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// PersistedMessage is one durable chat turn keyed by session. Created
// once, immutable thereafter, read back in creation order.
type PersistedMessage struct {
	SessionID string
	MessageID string
	Sender    string
	Text      string
	HasFile   bool
	FileName  *string
	ImageURL  *string
	CreatedAt time.Time
}

// Validate reports the first missing required field.
func (m PersistedMessage) Validate() error {
	switch {
	case m.SessionID == "":
		return fmt.Errorf("%w: sessionId required", ErrValidation)
	case m.MessageID == "":
		return fmt.Errorf("%w: messageId required", ErrValidation)
	case m.Sender == "":
		return fmt.Errorf("%w: sender required", ErrValidation)
	case m.Text == "":
		return fmt.Errorf("%w: text required", ErrValidation)
	}
	return nil
}
