// Package httpapi serves the operational HTTP endpoints: a liveness check
// and a status page summarizing the tool catalog. It runs beside the MCP
// transport so operators can inspect the server without an MCP client.
package httpapi

import (
	"net/http"
	"time"

	"discord-mcp/backend/internal/registry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the operational HTTP API
type Server struct {
	router    *gin.Engine
	catalog   *registry.Registry
	logger    *zap.Logger
	startedAt time.Time
}

// New builds the API over the given catalog
func New(catalog *registry.Registry, logger *zap.Logger, production bool) *Server {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		router:    gin.New(),
		catalog:   catalog,
		logger:    logger,
		startedAt: time.Now(),
	}

	s.router.Use(ginLogger(logger))
	s.router.Use(gin.Recovery())

	s.router.GET("/health", s.health)
	s.router.GET("/status", s.status)

	return s
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
		"tool_count":     s.catalog.ToolCount(),
		"categories":     s.catalog.Categories(),
	})
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
		)
	}
}
