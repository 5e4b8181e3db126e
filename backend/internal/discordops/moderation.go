package discordops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"discord-mcp/backend/internal/registry"
	apperrors "discord-mcp/backend/pkg/errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ModerationExecutor handles bans, kicks, timeouts and message cleanup
type ModerationExecutor struct {
	session        *discordgo.Session
	logger         *zap.Logger
	defaultGuildID string
}

// NewModerationExecutor creates a moderation executor
func NewModerationExecutor(session *discordgo.Session, logger *zap.Logger, defaultGuildID string) *ModerationExecutor {
	return &ModerationExecutor{session: session, logger: logger, defaultGuildID: defaultGuildID}
}

func (e *ModerationExecutor) guildID(args map[string]interface{}) string {
	if g := stringArg(args, "guild_id"); g != "" {
		return g
	}
	return e.defaultGuildID
}

// RegisterTools registers the moderation tools
func (e *ModerationExecutor) RegisterTools(r registry.ToolRegistrar) error {
	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "ban_member",
			cfg: registry.ToolConfig{
				Title:       "Ban Member",
				Description: "Ban a user from the server, optionally deleting their recent messages.",
				Params: map[string]*registry.Schema{
					"guild_id":            registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":             registry.String().Describe("User ID to ban"),
					"reason":              registry.String().Optional().MaxLength(512).Describe("Audit-log reason"),
					"delete_message_days": registry.Integer().Min(0).Max(7).Default(0).Describe("Days of message history to delete"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"user_id": registry.String(),
				},
			},
			h: e.BanMember,
		},
		{
			name: "unban_member",
			cfg: registry.ToolConfig{
				Title:       "Unban Member",
				Description: "Remove a user's ban from the server.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":  registry.String().Describe("User ID to unban"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.UnbanMember,
		},
		{
			name: "list_bans",
			cfg: registry.ToolConfig{
				Title:       "List Bans",
				Description: "List banned users with the reasons recorded for them.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"limit":    registry.Integer().Min(1).Max(1000).Default(100).Describe("Maximum number of bans to return"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"bans": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"user_id":  registry.String(),
						"username": registry.String(),
						"reason":   registry.String().Optional(),
					})),
				},
			},
			h: e.ListBans,
		},
		{
			name: "kick_member",
			cfg: registry.ToolConfig{
				Title:       "Kick Member",
				Description: "Remove a member from the server. They can rejoin with a new invite.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":  registry.String().Describe("User ID to kick"),
					"reason":   registry.String().Optional().MaxLength(512).Describe("Audit-log reason"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.KickMember,
		},
		{
			name: "timeout_member",
			cfg: registry.ToolConfig{
				Title:       "Timeout Member",
				Description: "Temporarily prevent a member from sending messages or joining voice.",
				Params: map[string]*registry.Schema{
					"guild_id":         registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":          registry.String().Describe("User ID to time out"),
					"duration_minutes": registry.Integer().Min(1).Max(40320).Default(60).Describe("Timeout length in minutes (max 28 days)"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"until":   registry.String().Describe("Timestamp the timeout expires"),
				},
			},
			h: e.TimeoutMember,
		},
		{
			name: "remove_timeout",
			cfg: registry.ToolConfig{
				Title:       "Remove Timeout",
				Description: "Lift an active timeout from a member.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":  registry.String().Describe("User ID to restore"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.RemoveTimeout,
		},
		{
			name: "bulk_delete_messages",
			cfg: registry.ToolConfig{
				Title:       "Bulk Delete Messages",
				Description: "Delete multiple messages from a channel in one call. Messages older than 14 days cannot be bulk-deleted.",
				Params: map[string]*registry.Schema{
					"channel_id":  registry.String().Describe("Channel ID"),
					"message_ids": registry.ArrayOf(registry.String()).MinLength(2).MaxLength(100).Describe("Message IDs to delete"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"deleted": registry.Integer(),
				},
			},
			h: e.BulkDeleteMessages,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// BanMember bans a user
func (e *ModerationExecutor) BanMember(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	userID := stringArg(args, "user_id")
	if userID == "" {
		return missingParam("user_id"), nil
	}
	reason := stringArg(args, "reason")
	days := intArg(args, "delete_message_days", 0)
	if days < 0 {
		days = 0
	}
	if days > 7 {
		days = 7
	}

	if err := e.session.GuildBanCreateWithReason(guildID, userID, reason, days, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to ban user %s: %v", userID, err)), nil
	}

	e.logger.Info("member banned",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.String("reason", reason),
	)
	return registry.TextResult(
		fmt.Sprintf("User %s banned", userID),
		map[string]interface{}{"success": true, "user_id": userID},
	), nil
}

// UnbanMember removes a ban
func (e *ModerationExecutor) UnbanMember(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	userID := stringArg(args, "user_id")
	if userID == "" {
		return missingParam("user_id"), nil
	}

	if err := e.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to unban user %s: %v", userID, err)), nil
	}

	e.logger.Info("member unbanned", zap.String("guild_id", guildID), zap.String("user_id", userID))
	return registry.TextResult(
		fmt.Sprintf("User %s unbanned", userID),
		map[string]interface{}{"success": true},
	), nil
}

// ListBans lists the guild's bans
func (e *ModerationExecutor) ListBans(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	limit := intArg(args, "limit", 100)
	if limit < 1 {
		limit = 1
	}
	if limit > 1000 {
		limit = 1000
	}

	bans, err := e.session.GuildBans(guildID, limit, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list bans: %v", err)), nil
	}

	type banSummary struct {
		UserID   string `json:"user_id"`
		Username string `json:"username"`
		Reason   string `json:"reason,omitempty"`
	}

	summaries := make([]banSummary, 0, len(bans))
	var b strings.Builder
	fmt.Fprintf(&b, "%d bans in server %s\n", len(bans), guildID)
	for _, ban := range bans {
		s := banSummary{Reason: ban.Reason}
		if ban.User != nil {
			s.UserID = ban.User.ID
			s.Username = ban.User.Username
		}
		summaries = append(summaries, s)
		fmt.Fprintf(&b, "- %s (%s): %s\n", s.Username, s.UserID, s.Reason)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success": true,
		"bans":    summaries,
	}), nil
}

// KickMember kicks a member
func (e *ModerationExecutor) KickMember(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	userID := stringArg(args, "user_id")
	if userID == "" {
		return missingParam("user_id"), nil
	}

	if err := e.session.GuildMemberDeleteWithReason(guildID, userID, stringArg(args, "reason"), discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to kick user %s: %v", userID, err)), nil
	}

	e.logger.Info("member kicked", zap.String("guild_id", guildID), zap.String("user_id", userID))
	return registry.TextResult(
		fmt.Sprintf("User %s kicked", userID),
		map[string]interface{}{"success": true},
	), nil
}

// TimeoutMember applies a communication timeout
func (e *ModerationExecutor) TimeoutMember(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	userID := stringArg(args, "user_id")
	if userID == "" {
		return missingParam("user_id"), nil
	}
	minutes := intArg(args, "duration_minutes", 60)
	if minutes < 1 {
		minutes = 1
	}
	// Discord caps timeouts at 28 days
	if minutes > 40320 {
		minutes = 40320
	}

	until := time.Now().Add(time.Duration(minutes) * time.Minute)
	if err := e.session.GuildMemberTimeout(guildID, userID, &until, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to time out user %s: %v", userID, err)), nil
	}

	e.logger.Info("member timed out",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
		zap.Time("until", until),
	)
	return registry.TextResult(
		fmt.Sprintf("User %s timed out until %s", userID, until.Format(time.RFC3339)),
		map[string]interface{}{"success": true, "until": until.Format(time.RFC3339)},
	), nil
}

// RemoveTimeout lifts a timeout
func (e *ModerationExecutor) RemoveTimeout(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	userID := stringArg(args, "user_id")
	if userID == "" {
		return missingParam("user_id"), nil
	}

	if err := e.session.GuildMemberTimeout(guildID, userID, nil, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to remove timeout for user %s: %v", userID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Timeout removed for user %s", userID),
		map[string]interface{}{"success": true},
	), nil
}

// BulkDeleteMessages deletes up to 100 messages at once
func (e *ModerationExecutor) BulkDeleteMessages(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}
	messageIDs := stringSliceArg(args, "message_ids")
	if len(messageIDs) < 2 {
		return registry.ErrorResult("message_ids must contain at least 2 message IDs (use delete_message for a single one)"), nil
	}
	if len(messageIDs) > 100 {
		messageIDs = messageIDs[:100]
	}

	if err := e.session.ChannelMessagesBulkDelete(channelID, messageIDs, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to bulk delete messages: %v", err)), nil
	}

	e.logger.Info("messages bulk deleted",
		zap.String("channel_id", channelID),
		zap.Int("count", len(messageIDs)),
	)
	return registry.TextResult(
		fmt.Sprintf("Deleted %d messages from channel %s", len(messageIDs), channelID),
		map[string]interface{}{"success": true, "deleted": len(messageIDs)},
	), nil
}
