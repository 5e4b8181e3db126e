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

// RoleSummary is the structured view of a role
type RoleSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       int    `json:"color"`
	Position    int    `json:"position"`
	Hoist       bool   `json:"hoist"`
	Mentionable bool   `json:"mentionable"`
	Managed     bool   `json:"managed"`
}

// RoleExecutor handles role management
type RoleExecutor struct {
	session        *discordgo.Session
	logger         *zap.Logger
	defaultGuildID string
}

// NewRoleExecutor creates a role executor
func NewRoleExecutor(session *discordgo.Session, logger *zap.Logger, defaultGuildID string) *RoleExecutor {
	return &RoleExecutor{session: session, logger: logger, defaultGuildID: defaultGuildID}
}

func (e *RoleExecutor) guildID(args map[string]interface{}) string {
	if g := stringArg(args, "guild_id"); g != "" {
		return g
	}
	return e.defaultGuildID
}

// RegisterTools registers the role tools
func (e *RoleExecutor) RegisterTools(r registry.ToolRegistrar) error {
	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "list_roles",
			cfg: registry.ToolConfig{
				Title:       "List Roles",
				Description: "List all roles in the server with their colors and positions.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"roles": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"id":          registry.String(),
						"name":        registry.String(),
						"color":       registry.Integer(),
						"position":    registry.Integer(),
						"hoist":       registry.Boolean(),
						"mentionable": registry.Boolean(),
					})),
				},
			},
			h: e.ListRoles,
		},
		{
			name: "create_role",
			cfg: registry.ToolConfig{
				Title:       "Create Role",
				Description: "Create a new role in the server.",
				Params: map[string]*registry.Schema{
					"guild_id":    registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"name":        registry.String().MinLength(1).MaxLength(100).Describe("Role name"),
					"color":       registry.Integer().Min(0).Max(16777215).Optional().Describe("Role color as an integer RGB value"),
					"hoist":       registry.Boolean().Default(false).Describe("Show members with this role separately in the sidebar"),
					"mentionable": registry.Boolean().Default(false).Describe("Allow anyone to @mention this role"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"role_id": registry.String(),
				},
			},
			h: e.CreateRole,
		},
		{
			name: "edit_role",
			cfg: registry.ToolConfig{
				Title:       "Edit Role",
				Description: "Edit a role's name, color or flags.",
				Params: map[string]*registry.Schema{
					"guild_id":    registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"role_id":     registry.String().Describe("Role ID to edit"),
					"name":        registry.String().Optional().MaxLength(100).Describe("New role name"),
					"color":       registry.Integer().Min(0).Max(16777215).Optional().Describe("New color as an integer RGB value"),
					"hoist":       registry.Boolean().Optional().Describe("Show members separately in the sidebar"),
					"mentionable": registry.Boolean().Optional().Describe("Allow anyone to @mention this role"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"role_id": registry.String(),
				},
			},
			h: e.EditRole,
		},
		{
			name: "delete_role",
			cfg: registry.ToolConfig{
				Title:       "Delete Role",
				Description: "Permanently delete a role from the server.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"role_id":  registry.String().Describe("Role ID to delete"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.DeleteRole,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// ListRoles lists the guild's roles
func (e *RoleExecutor) ListRoles(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}

	roles, err := e.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list roles: %v", err)), nil
	}

	summaries := make([]RoleSummary, 0, len(roles))
	var b strings.Builder
	fmt.Fprintf(&b, "%d roles in server %s\n", len(roles), guildID)
	for _, role := range roles {
		s := RoleSummary{
			ID:          role.ID,
			Name:        role.Name,
			Color:       role.Color,
			Position:    role.Position,
			Hoist:       role.Hoist,
			Mentionable: role.Mentionable,
			Managed:     role.Managed,
		}
		summaries = append(summaries, s)
		fmt.Fprintf(&b, "- %s (ID %s)\n", s.Name, s.ID)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success": true,
		"roles":   summaries,
	}), nil
}

// CreateRole creates a role
func (e *RoleExecutor) CreateRole(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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

	params := &discordgo.RoleParams{Name: name}
	if _, ok := args["color"]; ok {
		color := intArg(args, "color", 0)
		params.Color = &color
	}
	if _, ok := args["hoist"]; ok {
		hoist := boolArg(args, "hoist", false)
		params.Hoist = &hoist
	}
	if _, ok := args["mentionable"]; ok {
		mentionable := boolArg(args, "mentionable", false)
		params.Mentionable = &mentionable
	}

	role, err := e.session.GuildRoleCreate(guildID, params, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to create role %q: %v", name, err)), nil
	}

	e.logger.Info("role created", zap.String("guild_id", guildID), zap.String("role_id", role.ID))
	return registry.TextResult(
		fmt.Sprintf("Role %q created (ID %s)", role.Name, role.ID),
		map[string]interface{}{"success": true, "role_id": role.ID},
	), nil
}

// EditRole edits a role
func (e *RoleExecutor) EditRole(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	roleID := stringArg(args, "role_id")
	if roleID == "" {
		return missingParam("role_id"), nil
	}

	params := &discordgo.RoleParams{Name: stringArg(args, "name")}
	if _, ok := args["color"]; ok {
		color := intArg(args, "color", 0)
		params.Color = &color
	}
	if _, ok := args["hoist"]; ok {
		hoist := boolArg(args, "hoist", false)
		params.Hoist = &hoist
	}
	if _, ok := args["mentionable"]; ok {
		mentionable := boolArg(args, "mentionable", false)
		params.Mentionable = &mentionable
	}

	role, err := e.session.GuildRoleEdit(guildID, roleID, params, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to edit role %s: %v", roleID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Role %q updated", role.Name),
		map[string]interface{}{"success": true, "role_id": role.ID},
	), nil
}

// DeleteRole deletes a role
func (e *RoleExecutor) DeleteRole(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	roleID := stringArg(args, "role_id")
	if roleID == "" {
		return missingParam("role_id"), nil
	}

	if err := e.session.GuildRoleDelete(guildID, roleID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to delete role %s: %v", roleID, err)), nil
	}

	e.logger.Info("role deleted", zap.String("guild_id", guildID), zap.String("role_id", roleID))
	return registry.TextResult(
		fmt.Sprintf("Role %s deleted", roleID),
		map[string]interface{}{"success": true},
	), nil
}
