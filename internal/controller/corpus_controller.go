package controller

import (
	"net/http"

	"sentgen/internal/config"
	"sentgen/internal/service"
	"sentgen/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CorpusController handles corpus inspection and reload endpoints
type CorpusController struct {
	corpora *service.CorpusManager
	config  *config.Config
	logger  *zap.Logger
}

func NewCorpusController(corpora *service.CorpusManager, config *config.Config, logger *zap.Logger) *CorpusController {
	return &CorpusController{
		corpora: corpora,
		config:  config,
		logger:  logger,
	}
}

// ListCorpora handles GET /api/v1/corpora
func (cc *CorpusController) ListCorpora(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"corpora": cc.corpora.List()})
}

// GetStats handles GET /api/v1/corpora/:name/stats
func (cc *CorpusController) GetStats(c *gin.Context) {
	name := c.Param("name")
	stats, err := cc.corpora.GetStats(name)
	if err != nil {
		c.JSON(StatusFor(err), gin.H{"error": "Corpus not loaded", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Reload handles POST /api/v1/corpora/:name/reload. The corpus is always re-tagged
// from its configured source and the snapshot rewritten.
func (cc *CorpusController) Reload(c *gin.Context) {
	name := c.Param("name")
	corpusConfig, err := cc.config.GetCorpus(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Corpus not configured", "details": err.Error()})
		return
	}

	entry, err := cc.corpora.LoadCorpus(c.Request.Context(), corpusConfig, true)
	if err != nil {
		cc.logger.Error("Failed to reload corpus", zap.String("corpus", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload corpus", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entry.Stats())
}

// Health handles GET /api/v1/health
func (cc *CorpusController) Health(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"corpora": len(cc.corpora.List()),
	}

	usage, err := util.GetResourceUsage(cc.config.App.WorkDir)
	if err != nil {
		cc.logger.Warn("Failed to read resource usage", zap.Error(err))
	} else {
		resp["resources"] = usage
	}

	c.JSON(http.StatusOK, resp)
}
