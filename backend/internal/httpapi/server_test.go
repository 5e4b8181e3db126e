package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"discord-mcp/backend/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	catalog := registry.New([]registry.CategoryDef{
		{Name: "messaging", Description: "Message operations"},
		{Name: "stickers", Description: "Sticker operations"},
	})
	err := catalog.Register("send_message", "messaging", registry.ToolConfig{
		Description: "Send a text message",
	}, func(ctx context.Context, args map[string]interface{}) (*registry.Result, error) {
		return registry.TextResult("ok", nil), nil
	})
	require.NoError(t, err)

	return New(catalog, zap.NewNop(), true)
}

func TestHealth(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStatus(t *testing.T) {
	s := testServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		UptimeSeconds int                     `json:"uptime_seconds"`
		ToolCount     int                     `json:"tool_count"`
		Categories    []registry.CategoryInfo `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 1, body.ToolCount)
	require.Len(t, body.Categories, 1, "empty categories are hidden")
	assert.Equal(t, "messaging", body.Categories[0].Name)
}
