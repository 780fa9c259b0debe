package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/models"
	"github.com/product-matcher/app/requests"
	"github.com/product-matcher/app/responses"
	"github.com/product-matcher/app/services"
	"go.uber.org/zap"
)

// MatchController matches supplier titles against the catalog.
type MatchController struct {
	matchService *services.MatchService
	logger       *zap.Logger
}

func NewMatchController(matchService *services.MatchService, logger *zap.Logger) *MatchController {
	return &MatchController{
		matchService: matchService,
		logger:       logger,
	}
}

// Match finds the best catalog product for one title.
func (mc *MatchController) Match(c *gin.Context) {
	var req requests.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	startTime := time.Now()
	outcome, err := mc.matchService.MatchTitle(c.Request.Context(), req.Title, req.Candidates)
	if err != nil {
		mc.matchError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses.MatchResponse{
		Result:           outcome,
		ProcessingTimeMs: time.Since(startTime).Milliseconds(),
	})
}

// MatchBatch matches many titles against the same candidates.
func (mc *MatchController) MatchBatch(c *gin.Context) {
	var req requests.MatchBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	startTime := time.Now()
	outcomes, err := mc.matchService.MatchTitles(c.Request.Context(), req.Titles, req.Candidates)
	if err != nil {
		mc.matchError(c, err)
		return
	}

	resp := responses.MatchBatchResponse{Results: outcomes, Total: len(outcomes)}
	for _, outcome := range outcomes {
		if outcome.Matched {
			resp.Matched++
		}
	}
	resp.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	c.JSON(http.StatusOK, resp)
}

func (mc *MatchController) matchError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrEmptyTitle) {
		c.JSON(http.StatusBadRequest, responses.ErrorResponse{
			Error:   "EMPTY_TITLE",
			Message: err.Error(),
		})
		return
	}

	mc.logger.Error("Match failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, responses.ErrorResponse{
		Error:   "CANDIDATE_SEARCH_FAILED",
		Message: "Cannot retrieve candidates: " + err.Error(),
	})
}
