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

// MemberSummary is the structured view of a guild member
type MemberSummary struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Nick     string   `json:"nick,omitempty"`
	Bot      bool     `json:"bot"`
	JoinedAt string   `json:"joined_at"`
	Roles    []string `json:"roles"`
}

// MemberExecutor handles member inspection and role assignment
type MemberExecutor struct {
	session        *discordgo.Session
	logger         *zap.Logger
	defaultGuildID string
}

// NewMemberExecutor creates a member executor
func NewMemberExecutor(session *discordgo.Session, logger *zap.Logger, defaultGuildID string) *MemberExecutor {
	return &MemberExecutor{session: session, logger: logger, defaultGuildID: defaultGuildID}
}

func (e *MemberExecutor) guildID(args map[string]interface{}) string {
	if g := stringArg(args, "guild_id"); g != "" {
		return g
	}
	return e.defaultGuildID
}

// RegisterTools registers the member tools
func (e *MemberExecutor) RegisterTools(r registry.ToolRegistrar) error {
	memberSchema := registry.Object(map[string]*registry.Schema{
		"user_id":   registry.String(),
		"username":  registry.String(),
		"nick":      registry.String().Optional(),
		"bot":       registry.Boolean(),
		"joined_at": registry.String(),
		"roles":     registry.ArrayOf(registry.String()),
	})

	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "list_members",
			cfg: registry.ToolConfig{
				Title:       "List Members",
				Description: "List server members in pages, ordered by user ID.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"limit":    registry.Integer().Min(1).Max(1000).Default(100).Describe("Number of members per page"),
					"after":    registry.String().Optional().Describe("User ID to paginate after"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"members": registry.ArrayOf(memberSchema),
				},
			},
			h: e.ListMembers,
		},
		{
			name: "get_member",
			cfg: registry.ToolConfig{
				Title:       "Get Member",
				Description: "Get a member's profile: username, nickname, join date and roles.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":  registry.String().Describe("User ID to look up"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"member":  memberSchema,
				},
			},
			h: e.GetMember,
		},
		{
			name: "set_nickname",
			cfg: registry.ToolConfig{
				Title:       "Set Nickname",
				Description: "Set or clear a member's server nickname. Pass an empty nickname to clear it.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":  registry.String().Describe("User ID"),
					"nickname": registry.String().Optional().MaxLength(32).Describe("New nickname, empty to clear"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.SetNickname,
		},
		{
			name: "add_member_role",
			cfg: registry.ToolConfig{
				Title:       "Add Role to Member",
				Description: "Assign a role to a member.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":  registry.String().Describe("User ID"),
					"role_id":  registry.String().Describe("Role ID to assign"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.AddMemberRole,
		},
		{
			name: "remove_member_role",
			cfg: registry.ToolConfig{
				Title:       "Remove Role from Member",
				Description: "Take a role away from a member.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"user_id":  registry.String().Describe("User ID"),
					"role_id":  registry.String().Describe("Role ID to remove"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.RemoveMemberRole,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// ListMembers pages through the member list
func (e *MemberExecutor) ListMembers(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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

	members, err := e.session.GuildMembers(guildID, stringArg(args, "after"), limit, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list members: %v", err)), nil
	}

	summaries := make([]MemberSummary, 0, len(members))
	var b strings.Builder
	fmt.Fprintf(&b, "%d members in server %s\n", len(members), guildID)
	for _, m := range members {
		s := summarizeMember(m)
		summaries = append(summaries, s)
		fmt.Fprintf(&b, "- %s (%s)\n", s.Username, s.UserID)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success": true,
		"members": summaries,
	}), nil
}

// GetMember fetches one member
func (e *MemberExecutor) GetMember(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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

	m, err := e.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(apperrors.NewDiscordUserNotFound(userID).Error()), nil
	}

	s := summarizeMember(m)
	return registry.TextResult(
		fmt.Sprintf("%s (%s) joined %s, %d roles", s.Username, s.UserID, s.JoinedAt, len(s.Roles)),
		map[string]interface{}{"success": true, "member": s},
	), nil
}

// SetNickname sets or clears a nickname
func (e *MemberExecutor) SetNickname(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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
	nickname := stringArg(args, "nickname")

	if err := e.session.GuildMemberNickname(guildID, userID, nickname, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to set nickname for user %s: %v", userID, err)), nil
	}

	text := fmt.Sprintf("Nickname for user %s set to %q", userID, nickname)
	if nickname == "" {
		text = fmt.Sprintf("Nickname for user %s cleared", userID)
	}
	return registry.TextResult(text, map[string]interface{}{"success": true}), nil
}

// AddMemberRole assigns a role
func (e *MemberExecutor) AddMemberRole(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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
	roleID := stringArg(args, "role_id")
	if roleID == "" {
		return missingParam("role_id"), nil
	}

	if err := e.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to add role %s to user %s: %v", roleID, userID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Role %s added to user %s", roleID, userID),
		map[string]interface{}{"success": true},
	), nil
}

// RemoveMemberRole removes a role
func (e *MemberExecutor) RemoveMemberRole(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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
	roleID := stringArg(args, "role_id")
	if roleID == "" {
		return missingParam("role_id"), nil
	}

	if err := e.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to remove role %s from user %s: %v", roleID, userID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Role %s removed from user %s", roleID, userID),
		map[string]interface{}{"success": true},
	), nil
}

func summarizeMember(m *discordgo.Member) MemberSummary {
	s := MemberSummary{
		Nick:     m.Nick,
		JoinedAt: m.JoinedAt.Format("2006-01-02"),
		Roles:    m.Roles,
	}
	if s.Roles == nil {
		s.Roles = []string{}
	}
	if m.User != nil {
		s.UserID = m.User.ID
		s.Username = m.User.Username
		s.Bot = m.User.Bot
	}
	return s
}
