package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Transport selects how the MCP server talks to its client.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all application configuration
type Config struct {
	// App
	Env  string
	Port string // health/status HTTP API

	// Discord
	DiscordBotToken string
	GuildID         string // default guild for tools that omit guild_id

	// MCP
	Transport     string // stdio or http
	MCPListenAddr string // streamable HTTP listen address when Transport is http
	ServerName    string
	ServerVersion string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Env:             getEnv("ENV", "development"),
		Port:            getEnv("PORT", "8080"),
		DiscordBotToken: getEnv("DISCORD_BOT_TOKEN", ""),
		GuildID:         getEnv("DISCORD_GUILD_ID", ""),
		Transport:       getEnv("MCP_TRANSPORT", TransportStdio),
		MCPListenAddr:   getEnv("MCP_LISTEN_ADDR", ":8081"),
		ServerName:      getEnv("MCP_SERVER_NAME", "discord-mcp"),
		ServerVersion:   getEnv("MCP_SERVER_VERSION", "1.0.0"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.DiscordBotToken == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if c.Transport != TransportStdio && c.Transport != TransportHTTP {
		return fmt.Errorf("MCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}
	if c.Transport == TransportHTTP && c.MCPListenAddr == "" {
		return fmt.Errorf("MCP_LISTEN_ADDR is required when MCP_TRANSPORT is http")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
