package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/app/responses"
	"github.com/product-matcher/app/services"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// AdminController handles cache, index and health operations.
type AdminController struct {
	adminService *services.AdminService
	matchService *services.MatchService
	logger       *zap.Logger
	startTime    time.Time
}

func NewAdminController(adminService *services.AdminService, matchService *services.MatchService, logger *zap.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		matchService: matchService,
		logger:       logger,
		startTime:    time.Now(),
	}
}

func (ac *AdminController) ClearCache(c *gin.Context) {
	if err := ac.matchService.ClearCache(c.Request.Context()); err != nil {
		ac.logger.Error("Cache clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "CACHE_CLEAR_ERROR",
			Message: err.Error(),
		})
		return
	}

	ac.logger.Info("Match cache cleared")
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

// RebuildIndex pushes the catalog into the search index.
func (ac *AdminController) RebuildIndex(c *gin.Context) {
	result, err := ac.adminService.RebuildIndex(c.Request.Context())
	if errors.Is(err, models.ErrIndexDisabled) {
		c.JSON(http.StatusConflict, responses.ErrorResponse{
			Error:   "INDEX_DISABLED",
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		ac.logger.Error("Index rebuild failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   "INDEX_BUILD_ERROR",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.adminService.GetSystemStats(c.Request.Context()))
}

func (ac *AdminController) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:  "healthy",
		Version: Version,
		Uptime:  time.Since(ac.startTime).Round(time.Second).String(),
	})
}
