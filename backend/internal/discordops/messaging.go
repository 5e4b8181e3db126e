package discordops

import (
	"context"
	"fmt"
	"strings"

	"discord-mcp/backend/internal/registry"
	apperrors "discord-mcp/backend/pkg/errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// MessageSummary is the structured view of a message returned by the
// read/get tools
type MessageSummary struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	AuthorID  string `json:"author_id"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// MessagingExecutor handles message-level Discord operations
type MessagingExecutor struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewMessagingExecutor creates a messaging executor
func NewMessagingExecutor(session *discordgo.Session, logger *zap.Logger) *MessagingExecutor {
	return &MessagingExecutor{session: session, logger: logger}
}

// RegisterTools registers the messaging tools
func (e *MessagingExecutor) RegisterTools(r registry.ToolRegistrar) error {
	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "send_message",
			cfg: registry.ToolConfig{
				Title:       "Send Message",
				Description: "Send a text message to a channel, optionally as a reply to another message.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID to send to"),
					"content":    registry.String().MinLength(1).MaxLength(2000).Describe("Message text"),
					"reply_to":   registry.String().Optional().Describe("Message ID to reply to"),
				},
				Result: map[string]*registry.Schema{
					"success":    registry.Boolean(),
					"message_id": registry.String().Describe("ID of the sent message"),
					"channel_id": registry.String(),
				},
			},
			h: e.SendMessage,
		},
		{
			name: "read_messages",
			cfg: registry.ToolConfig{
				Title:       "Read Messages",
				Description: "Read recent messages from a channel, newest first.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID to read from"),
					"limit":      registry.Integer().Min(1).Max(100).Default(50).Describe("Number of messages to retrieve"),
					"before":     registry.String().Optional().Describe("Only messages before this message ID"),
				},
				Result: map[string]*registry.Schema{
					"success":  registry.Boolean(),
					"messages": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"id":        registry.String(),
						"content":   registry.String(),
						"author_id": registry.String(),
						"author":    registry.String(),
						"timestamp": registry.String(),
					})),
				},
			},
			h: e.ReadMessages,
		},
		{
			name: "get_message",
			cfg: registry.ToolConfig{
				Title:       "Get Message",
				Description: "Fetch a single message by channel and message ID.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
					"message_id": registry.String().Describe("Message ID"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"message": registry.Object(map[string]*registry.Schema{
						"id":        registry.String(),
						"content":   registry.String(),
						"author_id": registry.String(),
						"author":    registry.String(),
						"timestamp": registry.String(),
					}),
				},
			},
			h: e.GetMessage,
		},
		{
			name: "edit_message",
			cfg: registry.ToolConfig{
				Title:       "Edit Message",
				Description: "Edit the content of a message previously sent by the bot.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
					"message_id": registry.String().Describe("Message ID to edit"),
					"content":    registry.String().MinLength(1).MaxLength(2000).Describe("New message text"),
				},
				Result: map[string]*registry.Schema{
					"success":    registry.Boolean(),
					"message_id": registry.String(),
				},
			},
			h: e.EditMessage,
		},
		{
			name: "delete_message",
			cfg: registry.ToolConfig{
				Title:       "Delete Message",
				Description: "Delete a single message from a channel.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
					"message_id": registry.String().Describe("Message ID to delete"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.DeleteMessage,
		},
		{
			name: "add_reaction",
			cfg: registry.ToolConfig{
				Title:       "Add Reaction",
				Description: "Add an emoji reaction to a message. Use the raw emoji for unicode, or name:id for custom emojis.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
					"message_id": registry.String().Describe("Message ID to react to"),
					"emoji":      registry.String().Describe("Emoji, e.g. '👍' or 'party_parrot:123456789'"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.AddReaction,
		},
		{
			name: "remove_reaction",
			cfg: registry.ToolConfig{
				Title:       "Remove Reaction",
				Description: "Remove the bot's own emoji reaction from a message.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
					"message_id": registry.String().Describe("Message ID"),
					"emoji":      registry.String().Describe("Emoji to remove"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.RemoveReaction,
		},
		{
			name: "pin_message",
			cfg: registry.ToolConfig{
				Title:       "Pin Message",
				Description: "Pin a message in its channel.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
					"message_id": registry.String().Describe("Message ID to pin"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.PinMessage,
		},
		{
			name: "unpin_message",
			cfg: registry.ToolConfig{
				Title:       "Unpin Message",
				Description: "Unpin a message in its channel.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
					"message_id": registry.String().Describe("Message ID to unpin"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.UnpinMessage,
		},
		{
			name: "list_pinned_messages",
			cfg: registry.ToolConfig{
				Title:       "List Pinned Messages",
				Description: "List all pinned messages in a channel.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
				},
				Result: map[string]*registry.Schema{
					"success":  registry.Boolean(),
					"messages": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"id":        registry.String(),
						"content":   registry.String(),
						"author_id": registry.String(),
						"author":    registry.String(),
						"timestamp": registry.String(),
					})),
				},
			},
			h: e.ListPinnedMessages,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// SendMessage sends a message, optionally as a reply
func (e *MessagingExecutor) SendMessage(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	content := stringArg(args, "content")
	if content == "" {
		return missingParam("content"), nil
	}

	send := &discordgo.MessageSend{Content: content}
	if replyTo := stringArg(args, "reply_to"); replyTo != "" {
		send.Reference = &discordgo.MessageReference{MessageID: replyTo, ChannelID: channelID}
	}

	msg, err := e.session.ChannelMessageSendComplex(channelID, send, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to send message: %v", err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Message sent to channel %s (message ID %s)", channelID, msg.ID),
		map[string]interface{}{"success": true, "message_id": msg.ID, "channel_id": channelID},
	), nil
}

// ReadMessages reads recent channel history
func (e *MessagingExecutor) ReadMessages(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	limit := intArg(args, "limit", 50)
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	messages, err := e.session.ChannelMessages(channelID, limit, stringArg(args, "before"), "", "", discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to read messages: %v", err)), nil
	}

	summaries := summarizeMessages(messages)
	text := fmt.Sprintf("Read %d messages from channel %s", len(summaries), channelID)
	return registry.TextResult(text, map[string]interface{}{
		"success":  true,
		"messages": summaries,
	}), nil
}

// GetMessage fetches one message
func (e *MessagingExecutor) GetMessage(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageID := stringArg(args, "message_id")
	if messageID == "" {
		return missingParam("message_id"), nil
	}

	msg, err := e.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to get message %s: %v", messageID, err)), nil
	}

	summary := summarizeMessage(msg)
	return registry.TextResult(
		fmt.Sprintf("%s at %s: %s", summary.Author, summary.Timestamp, summary.Content),
		map[string]interface{}{"success": true, "message": summary},
	), nil
}

// EditMessage edits a bot-authored message
func (e *MessagingExecutor) EditMessage(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageID := stringArg(args, "message_id")
	if messageID == "" {
		return missingParam("message_id"), nil
	}
	content := stringArg(args, "content")
	if content == "" {
		return missingParam("content"), nil
	}

	msg, err := e.session.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to edit message %s: %v", messageID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Message %s edited", msg.ID),
		map[string]interface{}{"success": true, "message_id": msg.ID},
	), nil
}

// DeleteMessage deletes one message
func (e *MessagingExecutor) DeleteMessage(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageID := stringArg(args, "message_id")
	if messageID == "" {
		return missingParam("message_id"), nil
	}

	if err := e.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to delete message %s: %v", messageID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Message %s deleted", messageID),
		map[string]interface{}{"success": true},
	), nil
}

// AddReaction adds an emoji reaction
func (e *MessagingExecutor) AddReaction(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageID := stringArg(args, "message_id")
	if messageID == "" {
		return missingParam("message_id"), nil
	}
	emoji := stringArg(args, "emoji")
	if emoji == "" {
		return missingParam("emoji"), nil
	}

	if err := e.session.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to add reaction: %v", err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Reacted to message %s with %s", messageID, emoji),
		map[string]interface{}{"success": true},
	), nil
}

// RemoveReaction removes the bot's own reaction
func (e *MessagingExecutor) RemoveReaction(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageID := stringArg(args, "message_id")
	if messageID == "" {
		return missingParam("message_id"), nil
	}
	emoji := stringArg(args, "emoji")
	if emoji == "" {
		return missingParam("emoji"), nil
	}

	if err := e.session.MessageReactionRemove(channelID, messageID, emoji, "@me", discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to remove reaction: %v", err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Removed reaction %s from message %s", emoji, messageID),
		map[string]interface{}{"success": true},
	), nil
}

// PinMessage pins a message
func (e *MessagingExecutor) PinMessage(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageID := stringArg(args, "message_id")
	if messageID == "" {
		return missingParam("message_id"), nil
	}

	if err := e.session.ChannelMessagePin(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to pin message %s: %v", messageID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Message %s pinned", messageID),
		map[string]interface{}{"success": true},
	), nil
}

// UnpinMessage unpins a message
func (e *MessagingExecutor) UnpinMessage(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageID := stringArg(args, "message_id")
	if messageID == "" {
		return missingParam("message_id"), nil
	}

	if err := e.session.ChannelMessageUnpin(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to unpin message %s: %v", messageID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Message %s unpinned", messageID),
		map[string]interface{}{"success": true},
	), nil
}

// ListPinnedMessages lists a channel's pins
func (e *MessagingExecutor) ListPinnedMessages(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}

	messages, err := e.session.ChannelMessagesPinned(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list pinned messages: %v", err)), nil
	}

	summaries := summarizeMessages(messages)
	var b strings.Builder
	fmt.Fprintf(&b, "%d pinned messages in channel %s\n", len(summaries), channelID)
	for _, m := range summaries {
		fmt.Fprintf(&b, "- [%s] %s: %s\n", m.ID, m.Author, m.Content)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success":  true,
		"messages": summaries,
	}), nil
}

func summarizeMessage(msg *discordgo.Message) MessageSummary {
	summary := MessageSummary{
		ID:        msg.ID,
		Content:   msg.Content,
		Timestamp: msg.Timestamp.Format("2006-01-02 15:04:05"),
	}
	if msg.Author != nil {
		summary.AuthorID = msg.Author.ID
		summary.Author = msg.Author.Username
	}
	return summary
}

func summarizeMessages(messages []*discordgo.Message) []MessageSummary {
	out := make([]MessageSummary, 0, len(messages))
	for _, msg := range messages {
		out = append(out, summarizeMessage(msg))
	}
	return out
}
