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

// GuildExecutor handles server-level settings, info and invites
type GuildExecutor struct {
	session        *discordgo.Session
	logger         *zap.Logger
	defaultGuildID string
}

// NewGuildExecutor creates a guild executor
func NewGuildExecutor(session *discordgo.Session, logger *zap.Logger, defaultGuildID string) *GuildExecutor {
	return &GuildExecutor{session: session, logger: logger, defaultGuildID: defaultGuildID}
}

func (e *GuildExecutor) guildID(args map[string]interface{}) string {
	if g := stringArg(args, "guild_id"); g != "" {
		return g
	}
	return e.defaultGuildID
}

// RegisterTools registers the guild tools
func (e *GuildExecutor) RegisterTools(r registry.ToolRegistrar) error {
	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "get_server_info",
			cfg: registry.ToolConfig{
				Title:       "Get Server Info",
				Description: "Get the server's name, owner, member count and basic settings.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"server": registry.Object(map[string]*registry.Schema{
						"id":           registry.String(),
						"name":         registry.String(),
						"owner_id":     registry.String(),
						"member_count": registry.Integer(),
						"description":  registry.String().Optional(),
					}),
				},
			},
			h: e.GetServerInfo,
		},
		{
			name: "edit_server",
			cfg: registry.ToolConfig{
				Title:       "Edit Server",
				Description: "Rename the server.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"name":     registry.String().MinLength(2).MaxLength(100).Describe("New server name"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.EditServer,
		},
		{
			name: "list_invites",
			cfg: registry.ToolConfig{
				Title:       "List Invites",
				Description: "List the server's active invite links with usage counts.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"invites": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"code":       registry.String(),
						"channel_id": registry.String(),
						"uses":       registry.Integer(),
						"max_uses":   registry.Integer(),
					})),
				},
			},
			h: e.ListInvites,
		},
		{
			name: "create_invite",
			cfg: registry.ToolConfig{
				Title:       "Create Invite",
				Description: "Create an invite link for a channel.",
				Params: map[string]*registry.Schema{
					"channel_id":  registry.String().Describe("Channel ID the invite points at"),
					"max_age":     registry.Integer().Min(0).Max(604800).Default(86400).Describe("Invite lifetime in seconds, 0 for never expiring"),
					"max_uses":    registry.Integer().Min(0).Max(100).Default(0).Describe("Maximum uses, 0 for unlimited"),
					"temporary":   registry.Boolean().Default(false).Describe("Grant temporary membership only"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"code":    registry.String().Describe("Invite code, usable as discord.gg/<code>"),
				},
			},
			h: e.CreateInvite,
		},
		{
			name: "delete_invite",
			cfg: registry.ToolConfig{
				Title:       "Delete Invite",
				Description: "Revoke an invite link.",
				Params: map[string]*registry.Schema{
					"code": registry.String().Describe("Invite code to revoke"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.DeleteInvite,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// GetServerInfo fetches guild info with member counts
func (e *GuildExecutor) GetServerInfo(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}

	g, err := e.session.GuildWithCounts(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(apperrors.NewDiscordGuildNotFound(guildID).Error()), nil
	}

	server := map[string]interface{}{
		"id":           g.ID,
		"name":         g.Name,
		"owner_id":     g.OwnerID,
		"member_count": g.ApproximateMemberCount,
		"description":  g.Description,
	}
	return registry.TextResult(
		fmt.Sprintf("Server %q (ID %s), ~%d members, owner %s", g.Name, g.ID, g.ApproximateMemberCount, g.OwnerID),
		map[string]interface{}{"success": true, "server": server},
	), nil
}

// EditServer renames the guild
func (e *GuildExecutor) EditServer(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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

	g, err := e.session.GuildEdit(guildID, &discordgo.GuildParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to edit server %s: %v", guildID, err)), nil
	}

	e.logger.Info("server renamed", zap.String("guild_id", guildID), zap.String("name", g.Name))
	return registry.TextResult(
		fmt.Sprintf("Server renamed to %q", g.Name),
		map[string]interface{}{"success": true},
	), nil
}

// ListInvites lists active invites
func (e *GuildExecutor) ListInvites(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}

	invites, err := e.session.GuildInvites(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list invites: %v", err)), nil
	}

	type inviteSummary struct {
		Code      string `json:"code"`
		ChannelID string `json:"channel_id"`
		Uses      int    `json:"uses"`
		MaxUses   int    `json:"max_uses"`
	}

	summaries := make([]inviteSummary, 0, len(invites))
	var b strings.Builder
	fmt.Fprintf(&b, "%d active invites in server %s\n", len(invites), guildID)
	for _, inv := range invites {
		s := inviteSummary{Code: inv.Code, Uses: inv.Uses, MaxUses: inv.MaxUses}
		if inv.Channel != nil {
			s.ChannelID = inv.Channel.ID
		}
		summaries = append(summaries, s)
		fmt.Fprintf(&b, "- discord.gg/%s (%d uses)\n", s.Code, s.Uses)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success": true,
		"invites": summaries,
	}), nil
}

// CreateInvite creates a channel invite
func (e *GuildExecutor) CreateInvite(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	channelID := stringArg(args, "channel_id")
	if channelID == "" {
		return missingParam("channel_id"), nil
	}

	invite := discordgo.Invite{
		MaxAge:    intArg(args, "max_age", 86400),
		MaxUses:   intArg(args, "max_uses", 0),
		Temporary: boolArg(args, "temporary", false),
	}
	created, err := e.session.ChannelInviteCreate(channelID, invite, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to create invite for channel %s: %v", channelID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Invite created: discord.gg/%s", created.Code),
		map[string]interface{}{"success": true, "code": created.Code},
	), nil
}

// DeleteInvite revokes an invite
func (e *GuildExecutor) DeleteInvite(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	code := stringArg(args, "code")
	if code == "" {
		return missingParam("code"), nil
	}

	if _, err := e.session.InviteDelete(code, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to delete invite %s: %v", code, err)), nil
	}

	e.logger.Info("invite revoked", zap.String("code", code))
	return registry.TextResult(
		fmt.Sprintf("Invite %s revoked", code),
		map[string]interface{}{"success": true},
	), nil
}
