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

// EmojiSummary is the structured view of a custom emoji
type EmojiSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Animated bool   `json:"animated"`
	Managed  bool   `json:"managed"`
}

// EmojiExecutor handles custom emoji management
type EmojiExecutor struct {
	session        *discordgo.Session
	logger         *zap.Logger
	defaultGuildID string
}

// NewEmojiExecutor creates an emoji executor
func NewEmojiExecutor(session *discordgo.Session, logger *zap.Logger, defaultGuildID string) *EmojiExecutor {
	return &EmojiExecutor{session: session, logger: logger, defaultGuildID: defaultGuildID}
}

func (e *EmojiExecutor) guildID(args map[string]interface{}) string {
	if g := stringArg(args, "guild_id"); g != "" {
		return g
	}
	return e.defaultGuildID
}

// RegisterTools registers the emoji tools
func (e *EmojiExecutor) RegisterTools(r registry.ToolRegistrar) error {
	regs := []struct {
		name string
		cfg  registry.ToolConfig
		h    registry.Handler
	}{
		{
			name: "list_emojis",
			cfg: registry.ToolConfig{
				Title:       "List Emojis",
				Description: "List the server's custom emojis.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
					"emojis": registry.ArrayOf(registry.Object(map[string]*registry.Schema{
						"id":       registry.String(),
						"name":     registry.String(),
						"animated": registry.Boolean(),
					})),
				},
			},
			h: e.ListEmojis,
		},
		{
			name: "create_emoji",
			cfg: registry.ToolConfig{
				Title:       "Create Emoji",
				Description: "Upload a new custom emoji from a base64 data URI image.",
				Params: map[string]*registry.Schema{
					"guild_id":   registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"name":       registry.String().MinLength(2).MaxLength(32).Describe("Emoji name"),
					"image_data": registry.String().Describe("Image as a data URI, e.g. 'data:image/png;base64,...'"),
				},
				Result: map[string]*registry.Schema{
					"success":  registry.Boolean(),
					"emoji_id": registry.String(),
				},
			},
			h: e.CreateEmoji,
		},
		{
			name: "edit_emoji",
			cfg: registry.ToolConfig{
				Title:       "Edit Emoji",
				Description: "Rename a custom emoji.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"emoji_id": registry.String().Describe("Emoji ID to edit"),
					"name":     registry.String().MinLength(2).MaxLength(32).Describe("New emoji name"),
				},
				Result: map[string]*registry.Schema{
					"success":  registry.Boolean(),
					"emoji_id": registry.String(),
				},
			},
			h: e.EditEmoji,
		},
		{
			name: "delete_emoji",
			cfg: registry.ToolConfig{
				Title:       "Delete Emoji",
				Description: "Permanently delete a custom emoji.",
				Params: map[string]*registry.Schema{
					"guild_id": registry.String().Optional().Describe("Server ID (defaults to the configured server)"),
					"emoji_id": registry.String().Describe("Emoji ID to delete"),
				},
				Result: map[string]*registry.Schema{
					"success": registry.Boolean(),
				},
			},
			h: e.DeleteEmoji,
		},
	}

	for _, t := range regs {
		if err := r.RegisterTool(t.name, t.cfg, t.h); err != nil {
			return err
		}
	}
	return nil
}

// ListEmojis lists custom emojis
func (e *EmojiExecutor) ListEmojis(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}

	emojis, err := e.session.GuildEmojis(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to list emojis: %v", err)), nil
	}

	summaries := make([]EmojiSummary, 0, len(emojis))
	var b strings.Builder
	fmt.Fprintf(&b, "%d custom emojis in server %s\n", len(emojis), guildID)
	for _, em := range emojis {
		s := EmojiSummary{ID: em.ID, Name: em.Name, Animated: em.Animated, Managed: em.Managed}
		summaries = append(summaries, s)
		fmt.Fprintf(&b, "- :%s: (ID %s)\n", s.Name, s.ID)
	}

	return registry.TextResult(b.String(), map[string]interface{}{
		"success": true,
		"emojis":  summaries,
	}), nil
}

// CreateEmoji uploads a new emoji
func (e *EmojiExecutor) CreateEmoji(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
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
	imageData := stringArg(args, "image_data")
	if imageData == "" {
		return missingParam("image_data"), nil
	}
	if !strings.HasPrefix(imageData, "data:image/") {
		return registry.ErrorResult("image_data must be a data URI like 'data:image/png;base64,...'"), nil
	}

	em, err := e.session.GuildEmojiCreate(guildID, &discordgo.EmojiParams{Name: name, Image: imageData}, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to create emoji %q: %v", name, err)), nil
	}

	e.logger.Info("emoji created", zap.String("guild_id", guildID), zap.String("emoji_id", em.ID))
	return registry.TextResult(
		fmt.Sprintf("Emoji :%s: created (ID %s)", em.Name, em.ID),
		map[string]interface{}{"success": true, "emoji_id": em.ID},
	), nil
}

// EditEmoji renames an emoji
func (e *EmojiExecutor) EditEmoji(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	emojiID := stringArg(args, "emoji_id")
	if emojiID == "" {
		return missingParam("emoji_id"), nil
	}
	name := stringArg(args, "name")
	if name == "" {
		return missingParam("name"), nil
	}

	em, err := e.session.GuildEmojiEdit(guildID, emojiID, &discordgo.EmojiParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to edit emoji %s: %v", emojiID, err)), nil
	}

	return registry.TextResult(
		fmt.Sprintf("Emoji renamed to :%s:", em.Name),
		map[string]interface{}{"success": true, "emoji_id": em.ID},
	), nil
}

// DeleteEmoji deletes an emoji
func (e *EmojiExecutor) DeleteEmoji(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
	if e.session == nil {
		return registry.ErrorResult(apperrors.ErrDiscordSessionUnavailable.Error()), nil
	}
	guildID := e.guildID(args)
	if guildID == "" {
		return missingParam("guild_id"), nil
	}
	emojiID := stringArg(args, "emoji_id")
	if emojiID == "" {
		return missingParam("emoji_id"), nil
	}

	if err := e.session.GuildEmojiDelete(guildID, emojiID, discordgo.WithContext(ctx)); err != nil {
		return registry.ErrorResult(fmt.Sprintf("failed to delete emoji %s: %v", emojiID, err)), nil
	}

	e.logger.Info("emoji deleted", zap.String("guild_id", guildID), zap.String("emoji_id", emojiID))
	return registry.TextResult(
		fmt.Sprintf("Emoji %s deleted", emojiID),
		map[string]interface{}{"success": true},
	), nil
}
