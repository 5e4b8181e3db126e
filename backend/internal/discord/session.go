// Package discord owns the gateway session lifecycle. The tool handlers
// only need the REST client, but an open gateway connection keeps the bot
// presence alive and lets Discord route permission-sensitive calls
// correctly.
package discord

import (
	"context"
	"fmt"
	"time"

	apperrors "discord-mcp/backend/pkg/errors"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Manager wraps a discordgo session with connect/disconnect handling
type Manager struct {
	session *discordgo.Session
	logger  *zap.Logger
	ready   chan struct{}
}

// New creates a session manager for the given bot token
func New(token string, logger *zap.Logger) (*Manager, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	// The management tools touch guilds, members, moderation and messages
	session.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildModeration

	m := &Manager{
		session: session,
		logger:  logger,
		ready:   make(chan struct{}),
	}

	session.AddHandlerOnce(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("discord gateway ready",
			zap.String("username", r.User.Username),
			zap.Int("guilds", len(r.Guilds)),
		)
		close(m.ready)
	})
	session.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
		logger.Warn("discord gateway disconnected, discordgo will reconnect")
	})

	return m, nil
}

// Open connects to the gateway and waits for the ready event
func (m *Manager) Open(ctx context.Context) error {
	if err := m.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}

	select {
	case <-m.ready:
		return nil
	case <-time.After(30 * time.Second):
		return fmt.Errorf("timed out waiting for discord ready event")
	case <-ctx.Done():
		return apperrors.NewContextCancelled("discord connect", ctx.Err())
	}
}

// Close disconnects from the gateway
func (m *Manager) Close() error {
	return m.session.Close()
}

// Session exposes the underlying discordgo session for the tool executors
func (m *Manager) Session() *discordgo.Session {
	return m.session
}
