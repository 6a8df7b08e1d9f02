package llm

import "fmt"

// Role is the speaker tag of a conversational turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ValidationError reports a message field rejected at construction time.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q (valid options: system, user, assistant)", e.Field, e.Value)
}

// ParseRole maps a raw role string onto the closed Role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSystem, RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", &ValidationError{Field: "role", Value: s}
	}
}

// Message is one validated turn in a conversation. The zero value is not
// valid; build messages with NewMessage or the role helpers.
type Message struct {
	role    Role
	content string
}

// NewMessage validates role and returns an immutable Message.
func NewMessage(role, content string) (Message, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Message{}, err
	}
	return Message{role: r, content: content}, nil
}

func SystemMessage(content string) Message    { return Message{role: RoleSystem, content: content} }
func UserMessage(content string) Message      { return Message{role: RoleUser, content: content} }
func AssistantMessage(content string) Message { return Message{role: RoleAssistant, content: content} }

func (m Message) Role() Role      { return m.role }
func (m Message) Content() string { return m.content }
