package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discord-mcp/backend/internal/discord"
	"discord-mcp/backend/internal/discordops"
	"discord-mcp/backend/internal/httpapi"
	"discord-mcp/backend/internal/metatools"
	"discord-mcp/backend/internal/registry"
	"discord-mcp/backend/pkg/config"
	"discord-mcp/backend/pkg/logger"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Discord MCP server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Discord
	manager, err := discord.New(cfg.DiscordBotToken, log)
	if err != nil {
		log.Fatal("Failed to create Discord session", zap.Error(err))
	}
	if err := manager.Open(ctx); err != nil {
		log.Fatal("Failed to connect to Discord", zap.Error(err))
	}
	defer func() {
		if err := manager.Close(); err != nil {
			log.Error("Failed to close Discord session", zap.Error(err))
		}
	}()

	// Build the tool catalog. All Discord operations register here; only
	// the five meta-tools are registered with the protocol layer.
	catalog := registry.New(discordops.Categories())
	if err := discordops.RegisterAll(catalog, manager.Session(), log, cfg.GuildID); err != nil {
		log.Fatal("Failed to register Discord tools", zap.Error(err))
	}
	log.Info("Tool catalog built",
		zap.Int("tools", catalog.ToolCount()),
		zap.Int("categories", len(catalog.Categories())),
	)

	mcpServer := server.NewMCPServer(cfg.ServerName, cfg.ServerVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	metatools.New(catalog, log).Install(mcpServer)

	g, gctx := errgroup.WithContext(ctx)

	// Operational HTTP API
	api := httpapi.New(catalog, log, cfg.IsProduction())
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: api.Handler()}
	g.Go(func() error {
		log.Info("Status API listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// MCP transport
	switch cfg.Transport {
	case config.TransportHTTP:
		streamable := server.NewStreamableHTTPServer(mcpServer)
		g.Go(func() error {
			log.Info("MCP streamable HTTP transport listening", zap.String("addr", cfg.MCPListenAddr))
			return streamable.Start(cfg.MCPListenAddr)
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return streamable.Shutdown(shutdownCtx)
		})
	default:
		stdio := server.NewStdioServer(mcpServer)
		g.Go(func() error {
			log.Info("MCP stdio transport ready")
			return stdio.Listen(gctx, os.Stdin, os.Stdout)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Error("Server exited with error", zap.Error(err))
	}
	log.Info("Server exited")
}
