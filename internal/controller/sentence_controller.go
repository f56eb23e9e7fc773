package controller

import (
	"context"
	"errors"
	"net/http"

	"sentgen/internal/model"
	"sentgen/internal/service"
	"sentgen/internal/service/sentgen"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SentenceController struct {
	sentences *service.SentenceService
	logger    *zap.Logger
}

func NewSentenceController(sentences *service.SentenceService, logger *zap.Logger) *SentenceController {
	return &SentenceController{
		sentences: sentences,
		logger:    logger,
	}
}

// Generate handles POST /api/v1/generate
func (sc *SentenceController) Generate(c *gin.Context) {
	var req model.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, err := sc.sentences.Generate(c.Request.Context(), &req)
	if err != nil {
		sc.respondError(c, "Generation failed", err, zap.String("corpus", req.Corpus))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Reflect handles POST /api/v1/reflect
func (sc *SentenceController) Reflect(c *gin.Context) {
	var req model.ReflectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, err := sc.sentences.Reflect(c.Request.Context(), &req)
	if err != nil {
		sc.respondError(c, "Reflection failed", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Chat handles POST /api/v1/chat
func (sc *SentenceController) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	resp, err := sc.sentences.Chat(c.Request.Context(), &req)
	if err != nil {
		sc.respondError(c, "Chat failed", err, zap.String("corpus", req.Corpus))
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (sc *SentenceController) respondError(c *gin.Context, msg string, err error, fields ...zap.Field) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		sc.logger.Error(msg, append(fields, zap.Error(err))...)
	} else {
		sc.logger.Info(msg, append(fields, zap.Error(err))...)
	}
	c.JSON(status, gin.H{"error": msg, "details": err.Error()})
}

// StatusFor maps service and generator errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrCorpusNotFound),
		errors.Is(err, sentgen.ErrSeedNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSeed),
		errors.Is(err, sentgen.ErrInvalidSkeletonLength):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoReflection),
		errors.Is(err, service.ErrNoBaseVerb),
		errors.Is(err, sentgen.ErrAttemptsExhausted),
		errors.Is(err, sentgen.ErrSkeletonKeyMissing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
