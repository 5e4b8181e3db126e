// Package discordops contains the Discord operation modules. Each
// category file pairs an executor (session + logger) with a registration
// function that files its tools with whatever ToolRegistrar it is handed.
// The modules never see the catalog type behind that registrar.
package discordops

import (
	"fmt"

	"discord-mcp/backend/internal/registry"
	apperrors "discord-mcp/backend/pkg/errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Category names used across the server
const (
	CategoryMessaging  = "messaging"
	CategoryChannels   = "channels"
	CategoryModeration = "moderation"
	CategoryMembers    = "members"
	CategoryRoles      = "roles"
	CategoryWebhooks   = "webhooks"
	CategoryEmoji      = "emoji"
	CategoryGuild      = "guild"
)

// Categories declares the fixed category set the registry is built over
func Categories() []registry.CategoryDef {
	return []registry.CategoryDef{
		{Name: CategoryMessaging, Description: "Send, read, edit and react to channel messages"},
		{Name: CategoryChannels, Description: "Create, inspect and manage channels"},
		{Name: CategoryModeration, Description: "Ban, kick, timeout members and clean up messages"},
		{Name: CategoryMembers, Description: "Inspect members and manage their nicknames and roles"},
		{Name: CategoryRoles, Description: "Create and manage server roles"},
		{Name: CategoryWebhooks, Description: "Create and execute channel webhooks"},
		{Name: CategoryEmoji, Description: "Manage custom server emojis"},
		{Name: CategoryGuild, Description: "Server settings, info and invites"},
	}
}

// RegisterAll wires every Discord operation module into the registry,
// each through a registrar bound to its category. Any registration error
// (duplicate name, undeclared category) aborts startup.
func RegisterAll(catalog *registry.Registry, session *discordgo.Session, logger *zap.Logger, defaultGuildID string) error {
	type moduleReg struct {
		category string
		register func(registry.ToolRegistrar) error
	}

	messaging := NewMessagingExecutor(session, logger)
	channels := NewChannelExecutor(session, logger, defaultGuildID)
	moderation := NewModerationExecutor(session, logger, defaultGuildID)
	members := NewMemberExecutor(session, logger, defaultGuildID)
	roles := NewRoleExecutor(session, logger, defaultGuildID)
	webhooks := NewWebhookExecutor(session, logger, defaultGuildID)
	emoji := NewEmojiExecutor(session, logger, defaultGuildID)
	guild := NewGuildExecutor(session, logger, defaultGuildID)

	modules := []moduleReg{
		{CategoryMessaging, messaging.RegisterTools},
		{CategoryChannels, channels.RegisterTools},
		{CategoryModeration, moderation.RegisterTools},
		{CategoryMembers, members.RegisterTools},
		{CategoryRoles, roles.RegisterTools},
		{CategoryWebhooks, webhooks.RegisterTools},
		{CategoryEmoji, emoji.RegisterTools},
		{CategoryGuild, guild.RegisterTools},
	}

	for _, m := range modules {
		if err := m.register(catalog.ForCategory(m.category)); err != nil {
			return fmt.Errorf("registering %s tools: %w", m.category, err)
		}
	}
	return nil
}

// stringArg reads a string parameter, empty if absent or mistyped
func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg reads an integer parameter. JSON numbers arrive as float64, but
// handle native ints too for in-process callers.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// boolArg reads a boolean parameter
func boolArg(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// stringSliceArg reads an array-of-strings parameter
func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// missingParam builds the error result for an absent required parameter
func missingParam(key string) *registry.Result {
	return registry.ErrorResult(apperrors.NewToolMissingParameter(key).Error())
}
