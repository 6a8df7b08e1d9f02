package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageValidRoles(t *testing.T) {
	for _, role := range []string{"system", "user", "assistant"} {
		t.Run(role, func(t *testing.T) {
			msg, err := NewMessage(role, "hello")
			require.NoError(t, err)
			assert.Equal(t, Role(role), msg.Role())
			assert.Equal(t, "hello", msg.Content())
		})
	}
}

func TestNewMessageRejectsUnknownRoles(t *testing.T) {
	for _, role := range []string{"", "tool", "User", "SYSTEM", " user", "function"} {
		t.Run(role, func(t *testing.T) {
			msg, err := NewMessage(role, "hello")
			require.Error(t, err)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %T", err)
			assert.Equal(t, "role", vErr.Field)
			assert.Equal(t, role, vErr.Value)
			assert.Equal(t, Message{}, msg)
		})
	}
}

func TestNewMessageContentUnconstrained(t *testing.T) {
	msg, err := NewMessage("user", "")
	require.NoError(t, err)
	assert.Equal(t, "", msg.Content())

	msg, err = NewMessage("user", "héllo\n\t世界")
	require.NoError(t, err)
	assert.Equal(t, "héllo\n\t世界", msg.Content())
}

func TestRoleHelpers(t *testing.T) {
	assert.Equal(t, RoleSystem, SystemMessage("a").Role())
	assert.Equal(t, RoleUser, UserMessage("b").Role())
	assert.Equal(t, RoleAssistant, AssistantMessage("c").Role())
	assert.Equal(t, "c", AssistantMessage("c").Content())
}

func TestEmbeddingDimensions(t *testing.T) {
	tests := []struct {
		model string
		want  int
		ok    bool
	}{
		{"text-embedding-3-small", 1536, true},
		{"text-embedding-3-large", 3072, true},
		{"text-embedding-ada-002", 1536, true},
		{"my-local-embedder", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := EmbeddingDimensions(tt.model)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
