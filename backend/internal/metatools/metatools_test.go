package metatools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"discord-mcp/backend/internal/registry"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seededCatalog(t *testing.T) *registry.Registry {
	t.Helper()

	catalog := registry.New([]registry.CategoryDef{
		{Name: "messaging", Description: "Message operations"},
		{Name: "moderation", Description: "Moderation operations"},
		{Name: "stickers", Description: "Sticker operations"},
	})

	err := catalog.Register("send_message", "messaging", registry.ToolConfig{
		Title:       "Send Message",
		Description: "Send a text message to a channel",
		Params: map[string]*registry.Schema{
			"channel_id": registry.String().Describe("Channel ID"),
			"content":    registry.String().MinLength(1).MaxLength(2000),
		},
		Result: map[string]*registry.Schema{
			"success":    registry.Boolean(),
			"message_id": registry.String(),
		},
	}, func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
		return registry.TextResult("sent", map[string]interface{}{
			"success":    true,
			"message_id": "msg-1",
		}), nil
	})
	require.NoError(t, err)

	err = catalog.Register("ban_member", "moderation", registry.ToolConfig{
		Title:       "Ban Member",
		Description: "Ban a user from the server",
	}, func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
		return registry.TextResult("banned", map[string]interface{}{"success": true}), nil
	})
	require.NoError(t, err)

	return catalog
}

func newMetaTools(t *testing.T) *MetaTools {
	t.Helper()
	return New(seededCatalog(t), zap.NewNop())
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestListCategories(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.ListCategories(context.Background(), callRequest("list_categories", nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "messaging")
	assert.Contains(t, text, "moderation")
	// stickers has no tools and must be invisible
	assert.NotContains(t, text, "stickers")

	payload, ok := res.StructuredContent.(categoriesPayload)
	require.True(t, ok)
	require.Len(t, payload.Categories, 2)
	assert.Equal(t, 1, payload.Categories[0].ToolCount)
}

func TestListTools_KnownCategory(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.ListTools(context.Background(), callRequest("list_tools", map[string]interface{}{
		"category": "messaging",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "send_message")
}

func TestListTools_MixedCaseCategory(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.ListTools(context.Background(), callRequest("list_tools", map[string]interface{}{
		"category": "MODERATION",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "ban_member")
}

func TestListTools_UnknownCategoryEnumeratesValid(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.ListTools(context.Background(), callRequest("list_tools", map[string]interface{}{
		"category": "plugins",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "messaging")
	assert.Contains(t, text, "moderation")
}

func TestSearchTools_Match(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.SearchTools(context.Background(), callRequest("search_tools", map[string]interface{}{
		"query": "ban",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "ban_member")

	payload, ok := res.StructuredContent.(searchPayload)
	require.True(t, ok)
	require.NotEmpty(t, payload.Tools)
	assert.Equal(t, "ban_member", payload.Tools[0].Name)
}

func TestSearchTools_NoMatchIsNotError(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.SearchTools(context.Background(), callRequest("search_tools", map[string]interface{}{
		"query": "quantum",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError, "no matches is a benign outcome")
	assert.Contains(t, resultText(t, res), "No tools matched")
}

func TestGetToolSchema_Known(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.GetToolSchema(context.Background(), callRequest("get_tool_schema", map[string]interface{}{
		"toolName": "send_message",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "# send_message")
	assert.Contains(t, text, "channel_id")

	payload, ok := res.StructuredContent.(schemaPayload)
	require.True(t, ok)
	assert.Equal(t, "messaging", payload.Category)
	ch, ok := payload.ParameterSchema["channel_id"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "string", ch["type"])
}

func TestGetToolSchema_UnknownPointsAtDiscovery(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.GetToolSchema(context.Background(), callRequest("get_tool_schema", map[string]interface{}{
		"toolName": "nonexistent",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "search_tools")
}

func TestExecuteTool_Passthrough(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.ExecuteTool(context.Background(), callRequest("execute_tool", map[string]interface{}{
		"toolName":   "send_message",
		"parameters": map[string]interface{}{"channel_id": "123", "content": "hi"},
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, structured["success"])
	assert.Equal(t, "msg-1", structured["message_id"])
}

func TestExecuteTool_BusinessFailurePassesThroughVerbatim(t *testing.T) {
	catalog := seededCatalog(t)
	require.NoError(t, catalog.Register("strict_tool", "messaging", registry.ToolConfig{},
		func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
			return registry.ErrorResult("Channel not found: bad"), nil
		}))
	mt := New(catalog, zap.NewNop())

	res, err := mt.ExecuteTool(context.Background(), callRequest("execute_tool", map[string]interface{}{
		"toolName":   "strict_tool",
		"parameters": map[string]interface{}{"channel_id": "bad"},
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	// no wrapping, no duplication
	assert.Equal(t, false, structured["success"])
	assert.Equal(t, "Channel not found: bad", structured["error"])
}

func TestExecuteTool_UnknownName(t *testing.T) {
	mt := newMetaTools(t)

	res, err := mt.ExecuteTool(context.Background(), callRequest("execute_tool", map[string]interface{}{
		"toolName": "does_not_exist",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, structured["success"])
	assert.Contains(t, structured["error"].(string), "does_not_exist")
}

func TestExecuteTool_MissingParametersDefaultsToEmptyBag(t *testing.T) {
	catalog := seededCatalog(t)
	var got map[string]interface{}
	require.NoError(t, catalog.Register("echo_args", "messaging", registry.ToolConfig{},
		func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
			got = args
			return registry.TextResult("ok", nil), nil
		}))
	mt := New(catalog, zap.NewNop())

	_, err := mt.ExecuteTool(context.Background(), callRequest("execute_tool", map[string]interface{}{
		"toolName": "echo_args",
	}))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExecuteTool_HandlerErrorContained(t *testing.T) {
	catalog := seededCatalog(t)
	require.NoError(t, catalog.Register("faulty_tool", "messaging", registry.ToolConfig{},
		func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
			return nil, errors.New("connection reset")
		}))
	mt := New(catalog, zap.NewNop())

	res, err := mt.ExecuteTool(context.Background(), callRequest("execute_tool", map[string]interface{}{
		"toolName": "faulty_tool",
	}))
	require.NoError(t, err, "handler faults must not escape the facade")
	assert.True(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, structured["success"])
	assert.True(t, strings.Contains(structured["error"].(string), "connection reset"))
}

func TestExecuteTool_HandlerPanicContained(t *testing.T) {
	catalog := seededCatalog(t)
	require.NoError(t, catalog.Register("panicky_tool", "messaging", registry.ToolConfig{},
		func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
			panic("index out of range")
		}))
	mt := New(catalog, zap.NewNop())

	res, err := mt.ExecuteTool(context.Background(), callRequest("execute_tool", map[string]interface{}{
		"toolName": "panicky_tool",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, structured["error"].(string), "index out of range")
}

func TestExecuteTool_NilResultContained(t *testing.T) {
	catalog := seededCatalog(t)
	require.NoError(t, catalog.Register("silent_tool", "messaging", registry.ToolConfig{},
		func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
			return nil, nil
		}))
	mt := New(catalog, zap.NewNop())

	res, err := mt.ExecuteTool(context.Background(), callRequest("execute_tool", map[string]interface{}{
		"toolName": "silent_tool",
	}))
	require.NoError(t, err, "a nil handler result must be contained like any other fault")
	require.NotNil(t, res)
	assert.True(t, res.IsError)

	structured, ok := res.StructuredContent.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, structured["success"])
	assert.Contains(t, structured["error"].(string), "no result")
}

func TestDiscoveryReflectsRegistrationsImmediately(t *testing.T) {
	catalog := seededCatalog(t)
	mt := New(catalog, zap.NewNop())

	require.NoError(t, catalog.Register("late_sticker", "stickers", registry.ToolConfig{
		Description: "Added after the dispatcher was built",
	}, func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
		return registry.TextResult("ok", nil), nil
	}))

	res, err := mt.ListTools(context.Background(), callRequest("list_tools", map[string]interface{}{
		"category": "stickers",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "late_sticker")
}
