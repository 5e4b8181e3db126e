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

// ChannelSummary is the structured view of a channel
type ChannelSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Topic    string `json:"topic,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
	Position int    `json:"position"`
}

// ChannelExecutor handles channel management operations
type ChannelExecutor struct {
	session        *discordgo.Session
	logger         *zap.Logger
	defaultGuildID string
}

// NewChannelExecutor creates a channel executor
func NewChannelExecutor(session *discordgo.Session, logger *zap.Logger, defaultGuildID string) *ChannelExecutor {
	return &ChannelExecutor{session: session, logger: logger, defaultGuildID: defaultGuildID}
}

func (e *ChannelExecutor) guildID(args map[string]interface{}) string {
	if g := stringArg(args, "guild_id"); g != "" {
		return g
	}
	return e.defaultGuildID
}

// RegisterTools registers the channel tools
func (e *ChannelExecutor) RegisterTools(r registry.ToolRegistrar) error {
	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "list_channels",
			cfg: registry.ToolConfig{
				Title:       "List Channels",
				Description: "List all channels in the server, grouped by position.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
				},
				Result: map[string]*registry.Schema{
					"success":  registry.Boolean(),
					"channels": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"id":       registry.String(),
						"name":     registry.String(),
						"type":     registry.String(),
						"topic":    registry.String().Optional(),
						"position": registry.Integer(),
					})),
				},
			},
			h: e.ListChannels,
		},
		{
			name: "get_channel",
			cfg: registry.ToolConfig{
				Title:       "Get Channel",
				Description: "Get details for a single channel: name, topic, type and parent category.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"channel": registry.Object(map[string]*registry.Schema{
						"id":       registry.String(),
						"name":     registry.String(),
						"type":     registry.String(),
						"topic":    registry.String().Optional(),
						"position": registry.Integer(),
					}),
				},
			},
			h: e.GetChannel,
		},
		{
			name: "create_channel",
			cfg: registry.ToolConfig{
				Title:       "Create Channel",
				Description: "Create a new channel in the server.",
				Params: map[string]*registry.Schema{
					"guild_id":  registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"name":      registry.String().MinLength(1).MaxLength(100).Describe("Channel name"),
					"type":      registry.Enum("text", "voice", "category", "announcement", "forum").Default("text").Describe("Channel type"),
					"topic":     registry.String().Optional().MaxLength(1024).Describe("Channel topic"),
					"parent_id": registry.String().Optional().Describe("Category channel ID to place this channel under"),
				},
				Result: map[string]*registry.Schema{
					"success":    registry.Boolean(),
					"channel_id": registry.String(),
				},
			},
			h: e.CreateChannel,
		},
		{
			name: "edit_channel",
			cfg: registry.ToolConfig{
				Title:       "Edit Channel",
				Description: "Edit a channel's name or topic.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID to edit"),
					"name":       registry.String().Optional().MaxLength(100).Describe("New channel name"),
					"topic":      registry.String().Optional().MaxLength(1024).Describe("New channel topic"),
				},
				Result: map[string]*registry.Schema{
					"success":    registry.Boolean(),
					"channel_id": registry.String(),
				},
			},
			h: e.EditChannel,
		},
		{
			name: "delete_channel",
			cfg: registry.ToolConfig{
				Title:       "Delete Channel",
				Description: "Permanently delete a channel. This cannot be undone.",
				Params: map[string]*registry.Schema{
					"channel_id": registry.String().Describe("Channel ID to delete"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.DeleteChannel,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// ListChannels lists the guild's channels
func (e *ChannelExecutor) ListChannels(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}

	channels, err := e.session.GuildChannels(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list channels: %v", err)), nil
	}

	summaries := make([]ChannelSummary, 0, len(channels))
	var b strings.Builder
	fmt.Fprintf(&b, "%d channels in server %s\n", len(channels), guildID)
	for _, ch := range channels {
		s := summarizeChannel(ch)
		summaries = append(summaries, s)
		fmt.Fprintf(&b, "- #%s (%s, ID %s)\n", s.Name, s.Type, s.ID)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success":  true,
		"channels": summaries,
	}), nil
}

// GetChannel fetches one channel
func (e *ChannelExecutor) GetChannel(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}

	ch, err := e.session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(apperrors.NewDiscordChannelNotFound(channelID).Error()), nil
	}

	s := summarizeChannel(ch)
	return registry.TextResult(
		fmt.Sprintf("#%s (%s, ID %s) topic: %s", s.Name, s.Type, s.ID, s.Topic),
		map[string]interface{}{"success": true, "channel": s},
	), nil
}

// CreateChannel creates a channel
func (e *ChannelExecutor) CreateChannel(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	name := stringArg(args, "name")
	if name == "" {
		return missingParam("name"), nil
	}

	data := discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     channelTypeFromString(stringArg(args, "type")),
		Topic:    stringArg(args, "topic"),
		ParentID: stringArg(args, "parent_id"),
	}

	ch, err := e.session.GuildChannelCreateComplex(guildID, data, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to create channel %q: %v", name, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Channel #%s created (ID %s)", ch.Name, ch.ID),
		map[string]interface{}{"success": true, "channel_id": ch.ID},
	), nil
}

// EditChannel edits name/topic
func (e *ChannelExecutor) EditChannel(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	name := stringArg(args, "name")
	topic := stringArg(args, "topic")
	if name == "" && topic == "" {
		return registry.ErrorResult("nothing to edit: provide name or topic"), nil
	}

	edit := &discordgo.ChannelEdit{Name: name, Topic: topic}
	ch, err := e.session.ChannelEdit(channelID, edit, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to edit channel %s: %v", channelID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Channel #%s updated", ch.Name),
		map[string]interface{}{"success": true, "channel_id": ch.ID},
	), nil
}

// DeleteChannel deletes a channel
func (e *ChannelExecutor) DeleteChannel(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}

	ch, err := e.session.ChannelDelete(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to delete channel %s: %v", channelID, err)), nil
	}

	e.logger.Info("channel deleted", zap.String("channel_id", ch.ID), zap.String("name", ch.Name))
	return registry.TextResult(
		fmt.Sprintf("Channel #%s deleted", ch.Name),
		map[string]interface{}{"success": true},
	), nil
}

func summarizeChannel(ch *discordgo.Channel) ChannelSummary {
	return ChannelSummary{
		ID:       ch.ID,
		Name:     ch.Name,
		Type:     channelTypeToString(ch.Type),
		Topic:    ch.Topic,
		ParentID: ch.ParentID,
		Position: ch.Position,
	}
}

func channelTypeFromString(s string) discordgo.ChannelType {
	switch s {
	case "voice":
		return discordgo.ChannelTypeGuildVoice
	case "category":
		return discordgo.ChannelTypeGuildCategory
	case "announcement":
		return discordgo.ChannelTypeGuildNews
	case "forum":
		return discordgo.ChannelTypeGuildForum
	default:
		return discordgo.ChannelTypeGuildText
	}
}

func channelTypeToString(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return "text"
	case discordgo.ChannelTypeGuildVoice:
		return "voice"
	case discordgo.ChannelTypeGuildCategory:
		return "category"
	case discordgo.ChannelTypeGuildNews:
		return "announcement"
	case discordgo.ChannelTypeGuildForum:
		return "forum"
	case discordgo.ChannelTypeDM:
		return "dm"
	default:
		return fmt.Sprintf("type-%d", t)
	}
}
