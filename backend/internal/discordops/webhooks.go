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

// WebhookSummary is the structured view of a webhook
type WebhookSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ChannelID string `json:"channel_id"`
}

// WebhookExecutor handles webhook management and execution
type WebhookExecutor struct {
	session        *discordgo.Session
	logger         *zap.Logger
	defaultGuildID string
}

// NewWebhookExecutor creates a webhook executor
func NewWebhookExecutor(session *discordgo.Session, logger *zap.Logger, defaultGuildID string) *WebhookExecutor {
	return &WebhookExecutor{session: session, logger: logger, defaultGuildID: defaultGuildID}
}

func (e *WebhookExecutor) guildID(args map[string]interface{}) string {
	if g := stringArg(args, "guild_id"); g != "" {
		return g
	}
	return e.defaultGuildID
}

// RegisterTools registers the webhook tools
func (e *WebhookExecutor) RegisterTools(r registry.ToolRegistrar) error {
	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "create_webhook",
			cfg: registry.ToolConfig{
				Title:       "Create Webhook",
				Description: "Create a webhook on a channel for posting messages from external services.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID to attach the webhook to"),
					"name":       registry.String().MinLength(1).MaxLength(80).Describe("Webhook name"),
				},
				Result: map[string]*registry.Schema{
					"success":    registry.Boolean(),
					"webhook_id": registry.String(),
					"token":      registry.String().Describe("Webhook token, needed for execute_webhook"),
				},
			},
			h: e.CreateWebhook,
		},
		{
			name: "list_webhooks",
			cfg: registry.ToolConfig{
				Title:       "List Webhooks",
				Description: "List webhooks for a channel, or for the whole server when no channel is given.",
				Params: map[string]*registry.Schema{
					"guild_id":   registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"channel_id": registry.String().Optional().Describe("Channel ID to restrict the listing to"),
				},
				Result: map[string]*registry.Schema{
					"success":  registry.Boolean(),
					"webhooks": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"id":         registry.String(),
						"name":       registry.String(),
						"channel_id": registry.String(),
					})),
				},
			},
			h: e.ListWebhooks,
		},
		{
			name: "edit_webhook",
			cfg: registry.ToolConfig{
				Title:       "Edit Webhook",
				Description: "Rename a webhook or move it to another channel.",
				Params: map[string]*registry.Schema{
					"webhook_id": registry.String().Describe("Webhook ID to edit"),
					"name":       registry.String().Optional().MaxLength(80).Describe("New webhook name"),
					"channel_id": registry.String().Optional().Describe("Channel ID to move the webhook to"),
				},
				Result: map[string]*registry.Schema{
					"success":    registry.Boolean(),
					"webhook_id": registry.String(),
				},
			},
			h: e.EditWebhook,
		},
		{
			name: "delete_webhook",
			cfg: registry.ToolConfig{
				Title:       "Delete Webhook",
				Description: "Permanently delete a webhook.",
				Params: map[string]*registry.Schema{
					"webhook_id": registry.String().Describe("Webhook ID to delete"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.DeleteWebhook,
		},
		{
			name: "execute_webhook",
			cfg: registry.ToolConfig{
				Title:       "Execute Webhook",
				Description: "Post a message through a webhook, optionally overriding the display name.",
				Params: map[string]*registry.Schema{
					"webhook_id": registry.String().Describe("Webhook ID"),
					"token":      registry.String().Describe("Webhook token from create_webhook"),
					"content":    registry.String().MinLength(1).MaxLength(2000).Describe("Message text"),
					"username":   registry.String().Optional().Describe("Display name override"),
				},
				Result: map[string]*registry.Schema{
					"success":    registry.Boolean(),
					"message_id": registry.String(),
				},
			},
			h: e.ExecuteWebhook,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// CreateWebhook creates a channel webhook
func (e *WebhookExecutor) CreateWebhook(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	name := stringArg(args, "name")
	if name == "" {
		return missingParam("name"), nil
	}

	hook, err := e.session.WebhookCreate(channelID, name, "", discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to create webhook %q: %v", name, err)), nil
	}

	e.logger.Info("webhook created", zap.String("webhook_id", hook.ID), zap.String("channel_id", channelID))
	return registry.TextResult(
		fmt.Sprintf("Webhook %q created (ID %s)", hook.Name, hook.ID),
		map[string]interface{}{"success": true, "webhook_id": hook.ID, "token": hook.Token},
	), nil
}

// ListWebhooks lists channel or guild webhooks
func (e *WebhookExecutor) ListWebhooks(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}

	var (
		hooks []*discordgo.Webhook
		err   error
		scope string
	)
	if channelID := stringArg(args, "channel_id"); channelID != "" {
		hooks, err = e.session.ChannelWebhooks(channelID, discordgo.WithContext(ctx))
		scope = "channel " + channelID
	} else {
		guildID := e.guildID(args)
		if guildID == "" {
			return missingParam("guild_id"), nil
		}
		hooks, err = e.session.GuildWebhooks(guildID, discordgo.WithContext(ctx))
		scope = "server " + guildID
	}
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list webhooks: %v", err)), nil
	}

	summaries := make([]WebhookSummary, 0, len(hooks))
	var b strings.Builder
	fmt.Fprintf(&b, "%d webhooks in %s\n", len(hooks), scope)
	for _, hook := range hooks {
		s := WebhookSummary{ID: hook.ID, Name: hook.Name, ChannelID: hook.ChannelID}
		summaries = append(summaries, s)
		fmt.Fprintf(&b, "- %s (ID %s, channel %s)\n", s.Name, s.ID, s.ChannelID)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success":  true,
		"webhooks": summaries,
	}), nil
}

// EditWebhook renames or moves a webhook
func (e *WebhookExecutor) EditWebhook(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	webhookID := stringArg(args, "webhook_id")
	if webhookID == "" {
		return missingParam("webhook_id"), nil
	}
	name := stringArg(args, "name")
	channelID := stringArg(args, "channel_id")
	if name == "" && channelID == "" {
		return registry.ErrorResult("nothing to edit: provide name or channel_id"), nil
	}

	hook, err := e.session.WebhookEdit(webhookID, name, "", channelID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to edit webhook %s: %v", webhookID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Webhook %q updated", hook.Name),
		map[string]interface{}{"success": true, "webhook_id": hook.ID},
	), nil
}

// DeleteWebhook deletes a webhook
func (e *WebhookExecutor) DeleteWebhook(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	webhookID := stringArg(args, "webhook_id")
	if webhookID == "" {
		return missingParam("webhook_id"), nil
	}

	if err := e.session.WebhookDelete(webhookID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to delete webhook %s: %v", webhookID, err)), nil
	}

	e.logger.Info("webhook deleted", zap.String("webhook_id", webhookID))
	return registry.TextResult(
		fmt.Sprintf("Webhook %s deleted", webhookID),
		map[string]interface{}{"success": true},
	), nil
}

// ExecuteWebhook posts a message through a webhook
func (e *WebhookExecutor) ExecuteWebhook(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	webhookID := stringArg(args, "webhook_id")
	if webhookID == "" {
		return missingParam("webhook_id"), nil
	}
	token := stringArg(args, "token")
	if token == "" {
		return missingParam("token"), nil
	}
	content := stringArg(args, "content")
	if content == "" {
		return missingParam("content"), nil
	}

	params := &discordgo.WebhookParams{
		Content:  content,
		Username: stringArg(args, "username"),
	}
	msg, err := e.session.WebhookExecute(webhookID, token, true, params, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to execute webhook %s: %v", webhookID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Webhook message sent (message ID %s)", msg.ID),
		map[string]interface{}{"success": true, "message_id": msg.ID},
	), nil
}
