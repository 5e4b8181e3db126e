package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeRegistry represents tool-registry errors
	ErrorTypeRegistry ErrorType = "registry"
	// ErrorTypeDiscord represents Discord-related errors
	ErrorTypeDiscord ErrorType = "discord"
	// ErrorTypeTool represents tool execution errors
	ErrorTypeTool ErrorType = "tool"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Registry Errors

// ErrDuplicateTool is returned when a tool name is registered twice
type ErrDuplicateTool struct {
	*BaseError
	ToolName string
}

func NewDuplicateTool(toolName string) *ErrDuplicateTool {
	return &ErrDuplicateTool{
		BaseError: NewBaseError(ErrorTypeRegistry, fmt.Sprintf("tool already registered: %s", toolName), nil),
		ToolName:  toolName,
	}
}

// ErrUnknownCategory is returned when a tool is registered under a category
// that was not declared at registry construction
type ErrUnknownCategory struct {
	*BaseError
	Category string
	ToolName string
}

func NewUnknownCategory(category, toolName string) *ErrUnknownCategory {
	return &ErrUnknownCategory{
		BaseError: NewBaseError(ErrorTypeRegistry, fmt.Sprintf("unknown category %q for tool %s", category, toolName), nil),
		Category:  category,
		ToolName:  toolName,
	}
}

// ErrInvalidToolName is returned when a tool is registered with an empty or
// malformed name
type ErrInvalidToolName struct {
	*BaseError
	ToolName string
}

func NewInvalidToolName(toolName string) *ErrInvalidToolName {
	return &ErrInvalidToolName{
		BaseError: NewBaseError(ErrorTypeRegistry, fmt.Sprintf("invalid tool name: %q", toolName), nil),
		ToolName:  toolName,
	}
}

// Discord Errors

// ErrDiscordSessionUnavailable is returned when Discord session is not available
var ErrDiscordSessionUnavailable = NewBaseError(ErrorTypeDiscord, "Discord session not available", nil)

// ErrDiscordChannelNotFound is returned when a Discord channel cannot be found
type ErrDiscordChannelNotFound struct {
	*BaseError
	ChannelID string
}

func NewDiscordChannelNotFound(channelID string) *ErrDiscordChannelNotFound {
	return &ErrDiscordChannelNotFound{
		BaseError: NewBaseError(ErrorTypeDiscord, fmt.Sprintf("channel not found: %s", channelID), nil),
		ChannelID: channelID,
	}
}

// ErrDiscordUserNotFound is returned when a Discord user cannot be found
type ErrDiscordUserNotFound struct {
	*BaseError
	UserID string
}

func NewDiscordUserNotFound(userID string) *ErrDiscordUserNotFound {
	return &ErrDiscordUserNotFound{
		BaseError: NewBaseError(ErrorTypeDiscord, fmt.Sprintf("user not found: %s", userID), nil),
		UserID:    userID,
	}
}

// ErrDiscordGuildNotFound is returned when a Discord guild cannot be found
type ErrDiscordGuildNotFound struct {
	*BaseError
	GuildID string
}

func NewDiscordGuildNotFound(guildID string) *ErrDiscordGuildNotFound {
	return &ErrDiscordGuildNotFound{
		BaseError: NewBaseError(ErrorTypeDiscord, fmt.Sprintf("guild not found: %s", guildID), nil),
		GuildID:   guildID,
	}
}

// Tool Errors

// ErrToolMissingParameter is returned when a required tool parameter is absent
type ErrToolMissingParameter struct {
	*BaseError
	Parameter string
}

func NewToolMissingParameter(parameter string) *ErrToolMissingParameter {
	return &ErrToolMissingParameter{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("missing required parameter %q", parameter), nil),
		Parameter: parameter,
	}
}

// ErrToolExecutionFailed is returned when a tool handler fails unexpectedly
type ErrToolExecutionFailed struct {
	*BaseError
	ToolName string
}

func NewToolExecutionFailed(toolName string, err error) *ErrToolExecutionFailed {
	return &ErrToolExecutionFailed{
		BaseError: NewBaseError(ErrorTypeTool, fmt.Sprintf("tool execution failed: %s", toolName), err),
		ToolName:  toolName,
	}
}

// Context Errors

// ErrContextCancelled is returned when an operation was cancelled via context
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("operation cancelled: %s", operation), err),
		Operation: operation,
	}
}
