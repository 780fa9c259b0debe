package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/product-matcher/app/controllers"
)

// SetupWebRoutes serves the service index.
func SetupWebRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Product Matcher",
			"version": controllers.Version,
			"endpoints": map[string]string{
				"normalize":     "POST /v1/titles/normalize",
				"terms":         "POST /v1/titles/terms",
				"dimensions":    "POST /v1/titles/dimensions",
				"analyze":       "POST /v1/titles/analyze",
				"categorize":    "POST /v1/keywords/categorize",
				"match":         "POST /v1/match",
				"match_batch":   "POST /v1/match/batch",
				"keyword_job":   "POST /v1/keywords/jobs",
				"job_status":    "GET /v1/keywords/jobs/:jobID",
				"keywords":      "GET /v1/keywords/:sku",
				"cache_clear":   "POST /v1/admin/cache/clear",
				"index_rebuild": "POST /v1/admin/index/rebuild",
				"stats":         "GET /v1/admin/stats",
				"health":        "GET /health",
			},
		})
	})
}
