package handler

import (
	"net/http"
	"runtime/debug"

	"sentgen/internal/controller"
	"sentgen/pkg/mcp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

func SetupRouter(sentenceController *controller.SentenceController, corpusController *controller.CorpusController, mcpServer *mcp.SentenceServer, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(CustomRecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/generate", sentenceController.Generate)
		v1.POST("/reflect", sentenceController.Reflect)
		v1.POST("/chat", sentenceController.Chat)
		v1.GET("/corpora", corpusController.ListCorpora)
		v1.GET("/corpora/:name/stats", corpusController.GetStats)
		v1.POST("/corpora/:name/reload", corpusController.Reload)
		v1.GET("/health", corpusController.Health)
	}

	// Setup MCP routes
	if mcpServer != nil {
		mcpServer.SetupHTTPRoutes(router)
	}

	return router
}

// RequestIDMiddleware keeps the caller's request id or assigns a new one
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
		c.Next()
	}
}

func CustomRecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
				)
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}
