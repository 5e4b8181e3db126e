package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []CategoryDef {
	return []CategoryDef{
		{Name: "messaging", Description: "Message operations"},
		{Name: "moderation", Description: "Moderation operations"},
		{Name: "stickers", Description: "Sticker operations"},
	}
}

func okHandler(payload map[string]interface{}) Handler {
	return func(ctx context.Context, args map[string]interface{}) (*Result, error) {
		return TextResult("ok", payload), nil
	}
}

func TestRegister_RoundTrip(t *testing.T) {
	r := New(testCategories())

	err := r.Register("send_message", "messaging", ToolConfig{
		Title:       "Send Message",
		Description: "Send a text message to a channel",
		Params:      map[string]*Schema{"channel_id": String()},
	}, okHandler(nil))
	require.NoError(t, err)

	entry, ok := r.Tool("send_message")
	require.True(t, ok)
	assert.Equal(t, "messaging", entry.Category)
	assert.Equal(t, "Send Message", entry.Title)

	tools := r.ToolsByCategory("messaging")
	require.Len(t, tools, 1)
	assert.Equal(t, "send_message", tools[0].Name)

	h, ok := r.Handler("send_message")
	require.True(t, ok)
	res, err := h(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestRegister_RejectsDuplicateName(t *testing.T) {
	r := New(testCategories())

	require.NoError(t, r.Register("ban_member", "moderation", ToolConfig{}, okHandler(nil)))
	err := r.Register("ban_member", "messaging", ToolConfig{}, okHandler(nil))
	require.Error(t, err)

	// The first registration stays intact
	entry, ok := r.Tool("ban_member")
	require.True(t, ok)
	assert.Equal(t, "moderation", entry.Category)
	assert.Len(t, r.ToolsByCategory("messaging"), 0)
}

func TestRegister_RejectsUnknownCategory(t *testing.T) {
	r := New(testCategories())

	err := r.Register("fly_to_moon", "rockets", ToolConfig{}, okHandler(nil))
	require.Error(t, err)

	_, ok := r.Tool("fly_to_moon")
	assert.False(t, ok, "rejected tool must not be stored")
}

func TestRegister_RejectsEmptyName(t *testing.T) {
	r := New(testCategories())
	assert.Error(t, r.Register("", "messaging", ToolConfig{}, okHandler(nil)))
	assert.Error(t, r.Register("   ", "messaging", ToolConfig{}, okHandler(nil)))
}

func TestCategories_HidesEmptyOnes(t *testing.T) {
	r := New(testCategories())
	require.NoError(t, r.Register("send_message", "messaging", ToolConfig{}, okHandler(nil)))

	cats := r.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, "messaging", cats[0].Name)
	assert.Equal(t, 1, cats[0].ToolCount)

	// stickers has no tools and must be invisible
	for _, c := range cats {
		assert.NotEqual(t, "stickers", c.Name)
	}
}

func TestCategories_CountTracksRegistrations(t *testing.T) {
	r := New(testCategories())
	for i := 0; i < 5; i++ {
		require.NoError(t, r.Register(fmt.Sprintf("tool_%d", i), "messaging", ToolConfig{}, okHandler(nil)))
	}

	cats := r.Categories()
	require.Len(t, cats, 1)
	assert.Equal(t, 5, cats[0].ToolCount)
	assert.Equal(t, 5, r.ToolCount())
}

func TestToolsByCategory_CaseInsensitive(t *testing.T) {
	r := New([]CategoryDef{{Name: "Moderation", Description: "mixed-case declaration"}})
	require.NoError(t, r.Register("ban_member", "MODERATION", ToolConfig{}, okHandler(nil)))

	for _, lookup := range []string{"moderation", "MODERATION", "Moderation"} {
		tools := r.ToolsByCategory(lookup)
		require.Len(t, tools, 1, "lookup %q", lookup)
		assert.Equal(t, "ban_member", tools[0].Name)
	}
}

func TestToolsByCategory_UnknownIsEmptyNotError(t *testing.T) {
	r := New(testCategories())
	assert.Empty(t, r.ToolsByCategory("plugins"))
}

func TestSearch_Scoring(t *testing.T) {
	r := New(testCategories())
	require.NoError(t, r.Register("ban_member", "moderation", ToolConfig{
		Title:       "Ban Member",
		Description: "Ban a user from the server",
	}, okHandler(nil)))
	require.NoError(t, r.Register("send_message", "messaging", ToolConfig{
		Title:       "Send Message",
		Description: "Send a text message; cannot ban anyone",
	}, okHandler(nil)))

	results := r.Search("ban", 20)
	require.Len(t, results, 2)
	// ban_member matches name+title+description (score 6), send_message
	// only description (score 1)
	assert.Equal(t, "ban_member", results[0].Name)
	assert.Equal(t, "send_message", results[1].Name)
}

func TestSearch_NoMatchExcluded(t *testing.T) {
	r := New(testCategories())
	require.NoError(t, r.Register("send_message", "messaging", ToolConfig{
		Title:       "Send Message",
		Description: "Send a text message",
	}, okHandler(nil)))

	assert.Empty(t, r.Search("webhook", 20))
}

func TestSearch_CaseInsensitive(t *testing.T) {
	r := New(testCategories())
	require.NoError(t, r.Register("ban_member", "moderation", ToolConfig{
		Title: "Ban Member", Description: "Ban a user",
	}, okHandler(nil)))

	assert.Len(t, r.Search("BAN", 20), 1)
	assert.Len(t, r.Search("Ban", 20), 1)
}

func TestSearch_LimitAndDefault(t *testing.T) {
	r := New(testCategories())
	for i := 0; i < 30; i++ {
		require.NoError(t, r.Register(fmt.Sprintf("msg_tool_%02d", i), "messaging", ToolConfig{
			Description: "message helper",
		}, okHandler(nil)))
	}

	assert.Len(t, r.Search("msg", 5), 5)
	// 0 falls back to the default limit
	assert.Len(t, r.Search("msg", 0), DefaultSearchLimit)
}

func TestSearch_StableOrderOnTies(t *testing.T) {
	r := New(testCategories())
	for _, name := range []string{"msg_a", "msg_b", "msg_c"} {
		require.NoError(t, r.Register(name, "messaging", ToolConfig{}, okHandler(nil)))
	}

	first := r.Search("msg", 20)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Search("msg", 20))
	}
	// ties keep registration order
	assert.Equal(t, "msg_a", first[0].Name)
	assert.Equal(t, "msg_b", first[1].Name)
	assert.Equal(t, "msg_c", first[2].Name)
}

func TestSearch_EmptyQueryMatchesEverything(t *testing.T) {
	r := New(testCategories())
	require.NoError(t, r.Register("send_message", "messaging", ToolConfig{}, okHandler(nil)))
	require.NoError(t, r.Register("ban_member", "moderation", ToolConfig{}, okHandler(nil)))

	assert.Len(t, r.Search("", 20), 2)
}

func TestTool_UnknownNameIsNotFound(t *testing.T) {
	r := New(testCategories())

	_, ok := r.Tool("nonexistent")
	assert.False(t, ok)
	_, ok = r.Handler("nonexistent")
	assert.False(t, ok)
}

func TestTool_NameIsCaseSensitive(t *testing.T) {
	r := New(testCategories())
	require.NoError(t, r.Register("ban_member", "moderation", ToolConfig{}, okHandler(nil)))

	_, ok := r.Tool("Ban_Member")
	assert.False(t, ok)
}

func TestForCategory_BindsCategory(t *testing.T) {
	r := New(testCategories())
	reg := r.ForCategory("messaging")

	require.NoError(t, reg.RegisterTool("send_message", ToolConfig{Description: "send"}, okHandler(nil)))

	entry, ok := r.Tool("send_message")
	require.True(t, ok)
	assert.Equal(t, "messaging", entry.Category)
}

func TestForCategory_PropagatesRegistryErrors(t *testing.T) {
	r := New(testCategories())
	reg := r.ForCategory("messaging")

	require.NoError(t, reg.RegisterTool("send_message", ToolConfig{}, okHandler(nil)))
	assert.Error(t, reg.RegisterTool("send_message", ToolConfig{}, okHandler(nil)))
}

// recordingRegistrar shows a non-registry implementation satisfies the
// same interface the domain modules are written against
type recordingRegistrar struct {
	names []string
}

func (r *recordingRegistrar) RegisterTool(name string, cfg ToolConfig, h Handler) error {
	r.names = append(r.names, name)
	return nil
}

func TestToolRegistrar_StructuralPolymorphism(t *testing.T) {
	register := func(r ToolRegistrar) error {
		return r.RegisterTool("send_message", ToolConfig{}, okHandler(nil))
	}

	rec := &recordingRegistrar{}
	require.NoError(t, register(rec))
	assert.Equal(t, []string{"send_message"}, rec.names)

	catalog := New(testCategories())
	require.NoError(t, register(catalog.ForCategory("messaging")))
	_, ok := catalog.Tool("send_message")
	assert.True(t, ok)
}
