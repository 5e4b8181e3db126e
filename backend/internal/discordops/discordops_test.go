package discordops

import (
	"context"
	"testing"

	"discord-mcp/backend/internal/registry"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAll_BuildsFullCatalog(t *testing.T) {
	catalog := registry.New(Categories())
	require.NoError(t, RegisterAll(catalog, nil, zap.NewNop(), "guild-1"))

	// every declared category must end up visible
	cats := catalog.Categories()
	assert.Len(t, cats, len(Categories()))

	for _, c := range cats {
		assert.Greater(t, c.ToolCount, 0, "category %s", c.Name)
	}

	// spot-check a tool from each module
	for _, name := range []string{
		"send_message", "list_channels", "ban_member", "get_member",
		"create_role", "execute_webhook", "list_emojis", "get_server_info",
	} {
		_, ok := catalog.Tool(name)
		assert.True(t, ok, "tool %s should be registered", name)
	}
}

func TestRegisterAll_IsCollisionFree(t *testing.T) {
	// registering twice into the same registry must fail on the first
	// duplicate rather than silently replacing entries
	catalog := registry.New(Categories())
	require.NoError(t, RegisterAll(catalog, nil, zap.NewNop(), ""))
	assert.Error(t, RegisterAll(catalog, nil, zap.NewNop(), ""))
}

func TestHandlers_SessionUnavailable(t *testing.T) {
	catalog := registry.New(Categories())
	require.NoError(t, RegisterAll(catalog, nil, zap.NewNop(), "guild-1"))

	h, ok := catalog.Handler("send_message")
	require.True(t, ok)

	res, err := h(context.Background(), map[string]interface{}{
		"channel_id": "123", "content": "hi",
	})
	require.NoError(t, err, "session loss is a business failure, not a fault")
	assert.True(t, res.IsError)
	assert.Equal(t, false, res.Structured["success"])
}

func TestSendMessage_MissingParams(t *testing.T) {
	e := NewMessagingExecutor(nil, zap.NewNop())
	// the session check runs first, so use a non-nil zero session
	e.session = &discordgo.Session{}

	res, err := e.SendMessage(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "channel_id")

	res, err = e.SendMessage(context.Background(), map[string]interface{}{"channel_id": "123"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "content")
}

func TestBulkDelete_RejectsTooFewIDs(t *testing.T) {
	e := NewModerationExecutor(nil, zap.NewNop(), "guild-1")
	e.session = &discordgo.Session{}

	res, err := e.BulkDeleteMessages(context.Background(), map[string]interface{}{
		"channel_id":  "123",
		"message_ids": []interface{}{"m1"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "at least 2")
}

func TestCreateEmoji_RejectsNonDataURI(t *testing.T) {
	e := NewEmojiExecutor(nil, zap.NewNop(), "guild-1")
	e.session = &discordgo.Session{}

	res, err := e.CreateEmoji(context.Background(), map[string]interface{}{
		"name":       "party",
		"image_data": "https://example.com/party.png",
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "data URI")
}

func TestGuildIDFallback(t *testing.T) {
	e := NewChannelExecutor(nil, zap.NewNop(), "default-guild")

	assert.Equal(t, "default-guild", e.guildID(map[string]interface{}{}))
	assert.Equal(t, "explicit", e.guildID(map[string]interface{}{"guild_id": "explicit"}))

	noDefault := NewChannelExecutor(nil, zap.NewNop(), "")
	assert.Equal(t, "", noDefault.guildID(map[string]interface{}{}))
}

func TestArgHelpers(t *testing.T) {
	args := map[string]interface{}{
		"name":  "general",
		"limit": float64(25), // JSON numbers arrive as float64
		"count": 7,
		"flag":  true,
		"ids":   []interface{}{"a", "b", 3, "c"},
	}

	assert.Equal(t, "general", stringArg(args, "name"))
	assert.Equal(t, "", stringArg(args, "missing"))
	assert.Equal(t, 25, intArg(args, "limit", 50))
	assert.Equal(t, 7, intArg(args, "count", 50))
	assert.Equal(t, 50, intArg(args, "missing", 50))
	assert.Equal(t, true, boolArg(args, "flag", false))
	assert.Equal(t, false, boolArg(args, "missing", false))
	// non-string entries are skipped
	assert.Equal(t, []string{"a", "b", "c"}, stringSliceArg(args, "ids"))
	assert.Nil(t, stringSliceArg(args, "missing"))
}

func TestChannelTypeMapping(t *testing.T) {
	tests := []struct {
		s string
		t discordgo.ChannelType
	}{
		{"text", discordgo.ChannelTypeGuildText},
		{"voice", discordgo.ChannelTypeGuildVoice},
		{"category", discordgo.ChannelTypeGuildCategory},
		{"announcement", discordgo.ChannelTypeGuildNews},
		{"forum", discordgo.ChannelTypeGuildForum},
		{"", discordgo.ChannelTypeGuildText}, // default
	}
	for _, tt := range tests {
		assert.Equal(t, tt.t, channelTypeFromString(tt.s))
	}

	// round trip for the types we create
	for _, s := range []string{"text", "voice", "category", "announcement", "forum"} {
		assert.Equal(t, s, channelTypeToString(channelTypeFromString(s)))
	}
}

func TestSummarizeMember_NilRolesBecomeEmptySlice(t *testing.T) {
	m := summarizeMember(&discordgo.Member{
		User: &discordgo.User{ID: "u1", Username: "alice", Bot: false},
	})
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, "alice", m.Username)
	assert.NotNil(t, m.Roles)
	assert.Empty(t, m.Roles)
}

func TestMessagingSchemas_ExposeBounds(t *testing.T) {
	catalog := registry.New(Categories())
	require.NoError(t, RegisterAll(catalog, nil, zap.NewNop(), ""))

	entry, ok := catalog.Tool("send_message")
	require.True(t, ok)

	lowered := registry.SerializeSchemas(entry.Params)
	content := lowered["content"].(map[string]interface{})
	assert.Equal(t, "string", content["type"])
	assert.Equal(t, 1, content["minLength"])
	assert.Equal(t, 2000, content["maxLength"])
}
