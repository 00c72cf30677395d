// Package server exposes the resolution service over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/benithors/dotresolve/internal/resolver"
)

// DomainResolver is the operation the HTTP surface fronts.
type DomainResolver interface {
	Resolve(ctx context.Context, raw []string) (*resolver.Response, error)
}

type Server struct {
	engine   *gin.Engine
	resolver DomainResolver
	log      *zap.Logger
}

func New(res DomainResolver, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		engine:   engine,
		resolver: res,
		log:      log,
	}

	engine.Use(requestID(), requestLogger(log), gin.Recovery())
	engine.GET("/health", s.health)

	v1 := engine.Group("/api/v1")
	v1.POST("/domains/availability", s.checkAvailability)

	return s
}

func (s *Server) Run(addr string) error {
	s.log.Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}
