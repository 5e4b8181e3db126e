package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_MessageAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewBaseError(ErrorTypeDiscord, "call failed", cause)

	assert.Contains(t, err.Error(), "[discord]")
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestConstructors_CarryContext(t *testing.T) {
	dup := NewDuplicateTool("send_message")
	assert.Equal(t, "send_message", dup.ToolName)
	assert.Contains(t, dup.Error(), "already registered")

	cat := NewUnknownCategory("plugins", "fly_to_moon")
	assert.Equal(t, "plugins", cat.Category)
	assert.Contains(t, cat.Error(), "plugins")

	missing := NewToolMissingParameter("channel_id")
	assert.Equal(t, "channel_id", missing.Parameter)
	assert.Contains(t, missing.Error(), "channel_id")

	cause := stderrors.New("connection reset")
	exec := NewToolExecutionFailed("ban_member", cause)
	assert.Contains(t, exec.Error(), "ban_member")
	assert.Contains(t, exec.Error(), "connection reset")
	require.Equal(t, cause, stderrors.Unwrap(exec.BaseError))

	cancelled := NewContextCancelled("discord connect", stderrors.New("context canceled"))
	assert.Contains(t, cancelled.Error(), "discord connect")
	assert.Equal(t, ErrorTypeContext, cancelled.Type)
}
