package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/app/responses"
	"github.com/product-matcher/app/services"
	"go.uber.org/zap"
)

// KeywordController drives the keyword batch and serves stored keyword rows.
type KeywordController struct {
	keywordService *services.KeywordService
	logger         *zap.Logger
}

func NewKeywordController(keywordService *services.KeywordService, logger *zap.Logger) *KeywordController {
	return &KeywordController{
		keywordService: keywordService,
		logger:         logger,
	}
}

// StartJob rebuilds the keyword rows of the whole catalog in the background.
func (kc *KeywordController) StartJob(c *gin.Context) {
	job := kc.keywordService.StartJob()
	kc.logger.Info("Keyword job started", zap.String("job_id", job.JobID))
	c.JSON(http.StatusAccepted, job)
}

func (kc *KeywordController) GetJob(c *gin.Context) {
	job, err := kc.keywordService.GetJob(c.Param("jobID"))
	if err != nil {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "JOB_NOT_FOUND",
			Message: "Job not found: " + c.Param("jobID"),
		})
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetKeywords returns the stored keyword row of a sku.
func (kc *KeywordController) GetKeywords(c *gin.Context) {
	sku := c.Param("sku")

	kw, err := kc.keywordService.GetKeywords(c.Request.Context(), sku)
	if errors.Is(err, models.ErrKeywordsNotFound) {
		c.JSON(http.StatusNotFound, responses.ErrorResponse{
			Error:   "KEYWORDS_NOT_FOUND",
			Message: "No keywords stored for sku " + sku,
		})
		return
	}
	if err != nil {
		kc.logger.Error("Keyword lookup failed", zap.String("sku", sku), zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "STORE_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, kw)
}
